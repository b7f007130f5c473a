package api

import (
	"math"
	"strconv"
	"strings"

	"github.com/listenupapp/bestsellers/internal/domain"
	domainerrors "github.com/listenupapp/bestsellers/internal/errors"
)

// FilterParams are the selection query parameters shared by every
// analytics endpoint. Empty parameters leave that dimension unrestricted.
type FilterParams struct {
	Year       string `query:"year" doc:"Comma-separated publication years, e.g. 2010,2011"`
	Genre      string `query:"genre" doc:"Comma-separated genres, matched case and spacing insensitively"`
	MinReviews int    `query:"min_reviews" doc:"Minimum review count"`
	MinPrice   string `query:"min_price" doc:"Inclusive lower price bound"`
	MaxPrice   string `query:"max_price" doc:"Inclusive upper price bound"`
	Query      string `query:"q" doc:"Free-text query over title, author and genre"`
}

// Selection converts the parameters into a domain selection. Malformed
// values are reported together as one validation error.
func (p FilterParams) Selection() (domain.FilterSelection, error) {
	sel := domain.FilterSelection{
		MinReviews: p.MinReviews,
		Query:      strings.TrimSpace(p.Query),
	}
	problems := make(map[string]string)

	if years, ok := splitList(p.Year); ok {
		sel.Years = make([]int, 0, len(years))
		for _, raw := range years {
			year, err := strconv.Atoi(raw)
			if err != nil {
				problems["year"] = "must be a comma-separated list of integers"
				break
			}
			sel.Years = append(sel.Years, year)
		}
	}

	if genres, ok := splitList(p.Genre); ok {
		sel.Genres = genres
	}

	if p.MinPrice != "" || p.MaxPrice != "" {
		pr := domain.PriceRange{Min: 0, Max: math.MaxFloat64}
		if p.MinPrice != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(p.MinPrice), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				problems["min_price"] = "must be a number"
			}
			pr.Min = v
		}
		if p.MaxPrice != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(p.MaxPrice), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				problems["max_price"] = "must be a number"
			}
			pr.Max = v
		}
		sel.PriceRange = &pr
	}

	if len(problems) > 0 {
		return domain.FilterSelection{}, domainerrors.ValidationWithDetails("invalid filter parameters", problems)
	}
	return sel, nil
}

// splitList splits a comma list, dropping blank items. ok is false when
// the parameter was not given at all.
func splitList(raw string) (items []string, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" && len(items) < maxListItems {
			items = append(items, item)
		}
	}
	if items == nil {
		items = []string{}
	}
	return items, true
}
