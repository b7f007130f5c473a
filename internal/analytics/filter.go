package analytics

import (
	"github.com/listenupapp/bestsellers/internal/domain"
	"github.com/listenupapp/bestsellers/internal/genre"
)

// Filter returns the records matching every predicate of sel, in input order.
// Genres compare by genre.Key, so "Non Fiction" selects "NonFiction" rows.
func Filter(records []domain.BookRecord, sel domain.FilterSelection) []domain.BookRecord {
	var years map[int]struct{}
	if sel.Years != nil {
		years = make(map[int]struct{}, len(sel.Years))
		for _, y := range sel.Years {
			years[y] = struct{}{}
		}
	}

	var genres map[string]struct{}
	if sel.Genres != nil {
		genres = make(map[string]struct{}, len(sel.Genres))
		for _, g := range sel.Genres {
			genres[genre.Key(g)] = struct{}{}
		}
	}

	var ids map[int]struct{}
	if sel.RecordIDs != nil {
		ids = make(map[int]struct{}, len(sel.RecordIDs))
		for _, id := range sel.RecordIDs {
			ids[id] = struct{}{}
		}
	}

	out := make([]domain.BookRecord, 0, len(records))
	for _, r := range records {
		if years != nil {
			if _, ok := years[r.Year]; !ok {
				continue
			}
		}
		if genres != nil {
			if _, ok := genres[genre.Key(r.Genre)]; !ok {
				continue
			}
		}
		if ids != nil {
			if _, ok := ids[r.ID]; !ok {
				continue
			}
		}
		if r.Reviews < sel.MinReviews {
			continue
		}
		if sel.PriceRange != nil && !sel.PriceRange.Contains(r.Price) {
			continue
		}
		out = append(out, r)
	}
	return out
}
