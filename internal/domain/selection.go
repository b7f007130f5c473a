package domain

import (
	"slices"
	"strconv"
	"strings"

	"github.com/listenupapp/bestsellers/internal/genre"
)

// PriceRange is an inclusive price window.
type PriceRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// Contains reports whether price lies within the range, bounds included.
func (p PriceRange) Contains(price float64) bool {
	return price >= p.Min && price <= p.Max
}

// FilterSelection restricts a dataset. Predicates combine with AND.
//
// A nil Years or Genres slice leaves that dimension unrestricted; a non-nil
// empty slice matches nothing. A nil PriceRange means the full range.
type FilterSelection struct {
	Years      []int       `json:"years" validate:"omitempty,dive,gte=0"`
	Genres     []string    `json:"genres"`
	MinReviews int         `json:"min_reviews" validate:"gte=0"`
	PriceRange *PriceRange `json:"price_range,omitempty" validate:"omitempty"`

	// Query is a free-text search over title, author and genre. The service
	// resolves it into RecordIDs before filtering.
	Query string `json:"query,omitempty" validate:"max=200"`

	// RecordIDs, when non-nil, limits the result to these record ids.
	RecordIDs []int `json:"-"`
}

// Canonical renders the selection in a stable textual form: slice order and
// duplicates do not matter, genres compare by genre.Key, and nil and empty
// slices differ. Used as a cache key.
func (s FilterSelection) Canonical() string {
	var b strings.Builder

	b.WriteString("years=")
	writeInts(&b, s.Years)

	b.WriteString(";genres=")
	if s.Genres == nil {
		b.WriteString("*")
	} else {
		genres := make([]string, len(s.Genres))
		for i, g := range s.Genres {
			genres[i] = genre.Key(g)
		}
		slices.Sort(genres)
		b.WriteString("[")
		b.WriteString(strings.Join(slices.Compact(genres), ","))
		b.WriteString("]")
	}

	b.WriteString(";min_reviews=")
	b.WriteString(strconv.Itoa(s.MinReviews))

	b.WriteString(";price=")
	if s.PriceRange == nil {
		b.WriteString("*")
	} else {
		b.WriteString(strconv.FormatFloat(s.PriceRange.Min, 'g', -1, 64))
		b.WriteString("..")
		b.WriteString(strconv.FormatFloat(s.PriceRange.Max, 'g', -1, 64))
	}

	b.WriteString(";q=")
	b.WriteString(strconv.Quote(strings.TrimSpace(s.Query)))

	b.WriteString(";ids=")
	writeInts(&b, s.RecordIDs)

	return b.String()
}

func writeInts(b *strings.Builder, values []int) {
	if values == nil {
		b.WriteString("*")
		return
	}
	sorted := slices.Compact(slices.Sorted(slices.Values(values)))
	b.WriteString("[")
	for i, v := range sorted {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteString("]")
}
