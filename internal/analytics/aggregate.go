package analytics

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/listenupapp/bestsellers/internal/domain"
	"github.com/listenupapp/bestsellers/internal/genre"
)

// DefaultTopN is how many persistence entries the dashboard charts.
const DefaultTopN = 10

// Persistence groups records by Title and reports how many yearly
// appearances each title has and its mean UserRating. Entries are ordered by
// Count descending, then Title ascending.
func Persistence(records []domain.BookRecord) []domain.PersistenceEntry {
	ratings := make(map[string][]float64)
	for _, r := range records {
		ratings[r.Title] = append(ratings[r.Title], r.UserRating)
	}

	entries := make([]domain.PersistenceEntry, 0, len(ratings))
	for title, rs := range ratings {
		entries = append(entries, domain.PersistenceEntry{
			Title:         title,
			Count:         len(rs),
			AverageRating: stat.Mean(rs, nil),
		})
	}

	slices.SortFunc(entries, func(a, b domain.PersistenceEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})
	return entries
}

// TopPersistence returns at most n leading entries. n <= 0 returns all of them.
func TopPersistence(entries []domain.PersistenceEntry, n int) []domain.PersistenceEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// ReviewBuckets assigns every record a review category and reports per
// category the mean Reviews, UserRating and Price, rounded to 2 decimals.
// All four categories are always present; empty ones have nil Stats.
func ReviewBuckets(records []domain.BookRecord) domain.ReviewBuckets {
	type columns struct{ reviews, ratings, prices []float64 }
	byCategory := make(map[domain.ReviewCategory]*columns, len(domain.ReviewCategories))
	for _, c := range domain.ReviewCategories {
		byCategory[c] = &columns{}
	}

	for _, r := range records {
		col := byCategory[domain.CategorizeReviews(r.Reviews)]
		col.reviews = append(col.reviews, float64(r.Reviews))
		col.ratings = append(col.ratings, r.UserRating)
		col.prices = append(col.prices, r.Price)
	}

	out := make(domain.ReviewBuckets, 0, len(domain.ReviewCategories))
	for _, c := range domain.ReviewCategories {
		col := byCategory[c]
		summary := domain.ReviewBucketSummary{Category: c, Count: len(col.reviews)}
		if summary.Count > 0 {
			summary.Stats = &domain.BucketStats{
				MeanReviews: round2(stat.Mean(col.reviews, nil)),
				MeanRating:  round2(stat.Mean(col.ratings, nil)),
				MeanPrice:   round2(stat.Mean(col.prices, nil)),
			}
		}
		out = append(out, summary)
	}
	return out
}

// GenreSummaries groups records by genre key and reports count, mean rating
// and mean price (2 decimals). The label shown is the first spelling seen.
// Results are ordered by label.
func GenreSummaries(records []domain.BookRecord) []domain.GenreSummary {
	type group struct {
		label           string
		ratings, prices []float64
	}
	groups := make(map[string]*group)
	for _, r := range records {
		key := genre.Key(r.Genre)
		g, ok := groups[key]
		if !ok {
			g = &group{label: r.Genre}
			groups[key] = g
		}
		g.ratings = append(g.ratings, r.UserRating)
		g.prices = append(g.prices, r.Price)
	}

	out := make([]domain.GenreSummary, 0, len(groups))
	for key, g := range groups {
		out = append(out, domain.GenreSummary{
			Genre:      g.label,
			Key:        key,
			Count:      len(g.ratings),
			MeanRating: round2(stat.Mean(g.ratings, nil)),
			MeanPrice:  round2(stat.Mean(g.prices, nil)),
		})
	}

	slices.SortFunc(out, func(a, b domain.GenreSummary) int {
		if c := strings.Compare(a.Genre, b.Genre); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

// Summarize computes the headline metrics. Means are nil for no records.
func Summarize(records []domain.BookRecord) domain.Overview {
	o := domain.Overview{Records: len(records)}
	if len(records) == 0 {
		return o
	}

	ratings := make([]float64, len(records))
	reviews := make([]float64, len(records))
	for i, r := range records {
		ratings[i] = r.UserRating
		reviews[i] = float64(r.Reviews)
	}
	meanRating := stat.Mean(ratings, nil)
	meanReviews := stat.Mean(reviews, nil)
	o.MeanRating = &meanRating
	o.MeanReviews = &meanReviews
	return o
}

// Options lists the filter values a dataset offers: distinct years
// ascending, one label per genre key ordered by label, max reviews and the
// price span.
func Options(records []domain.BookRecord) domain.FilterOptions {
	opts := domain.FilterOptions{Years: []int{}, Genres: []string{}}
	if len(records) == 0 {
		return opts
	}

	seenYears := make(map[int]struct{})
	seenGenres := make(map[string]struct{})
	opts.MinPrice = math.Inf(1)
	opts.MaxPrice = math.Inf(-1)

	for _, r := range records {
		if _, ok := seenYears[r.Year]; !ok {
			seenYears[r.Year] = struct{}{}
			opts.Years = append(opts.Years, r.Year)
		}
		if key := genre.Key(r.Genre); key != "" {
			if _, ok := seenGenres[key]; !ok {
				seenGenres[key] = struct{}{}
				opts.Genres = append(opts.Genres, r.Genre)
			}
		}
		opts.MaxReviews = max(opts.MaxReviews, r.Reviews)
		opts.MinPrice = math.Min(opts.MinPrice, r.Price)
		opts.MaxPrice = math.Max(opts.MaxPrice, r.Price)
	}

	slices.Sort(opts.Years)
	slices.Sort(opts.Genres)
	return opts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
