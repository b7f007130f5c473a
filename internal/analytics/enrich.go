// Package analytics holds the pure bestseller pipeline: enrichment,
// filtering and the aggregations rendered by the dashboard.
//
// Every function takes records by value and returns fresh data. Nothing in
// this package mutates its input, so a Dataset can be shared freely.
package analytics

import (
	"time"

	"github.com/listenupapp/bestsellers/internal/domain"
)

// MaxReviews returns the largest Reviews value, or 0 for no records.
func MaxReviews(records []domain.BookRecord) int {
	maxReviews := 0
	for _, r := range records {
		maxReviews = max(maxReviews, r.Reviews)
	}
	return maxReviews
}

// Enrich returns a copy of records with EngagementScore set to
// Reviews / max(Reviews) * 100 over the whole collection.
// When every record has zero reviews all scores are 0.
func Enrich(records []domain.BookRecord) []domain.BookRecord {
	out := make([]domain.BookRecord, len(records))
	copy(out, records)

	maxReviews := MaxReviews(records)
	for i := range out {
		if maxReviews == 0 {
			out[i].EngagementScore = 0
			continue
		}
		out[i].EngagementScore = float64(out[i].Reviews) / float64(maxReviews) * 100
	}
	return out
}

// NewDataset enriches a load result into an immutable snapshot.
func NewDataset(id string, res domain.LoadResult, loadedAt time.Time) *domain.Dataset {
	return &domain.Dataset{
		ID:             id,
		Records:        Enrich(res.Records),
		Source:         res.Source,
		Path:           res.Path,
		FallbackReason: res.FallbackReason,
		LoadedAt:       loadedAt,
		MaxReviews:     MaxReviews(res.Records),
	}
}
