// Package domain contains the bestseller record model and the result types
// produced by the analytics pipeline.
package domain

import (
	"time"
)

// BookRecord is one row of the bestseller list: one book in one year.
type BookRecord struct {
	// ID is the record's position in the loaded dataset, starting at 0.
	ID         int     `json:"id"`
	Title      string  `json:"title" validate:"required"`
	Author     string  `json:"author"`
	UserRating float64 `json:"user_rating" validate:"gte=0,lte=5"`
	Reviews    int     `json:"reviews" validate:"gte=0"`
	Price      float64 `json:"price" validate:"gte=0"`
	Year       int     `json:"year"`
	Genre      string  `json:"genre" validate:"required"`

	// EngagementScore is Reviews relative to the dataset-wide maximum, 0-100.
	// Set once by enrichment and never recomputed for a filtered subset.
	EngagementScore float64 `json:"engagement_score"`
}

// LoadSource reports where a dataset came from.
type LoadSource string

// LoadSource values.
const (
	SourceLoaded      LoadSource = "loaded"
	SourceSynthesized LoadSource = "synthesized"
)

// LoadResult is the outcome of loading the dataset. A missing or unreadable
// file is not an error: it yields SourceSynthesized with FallbackReason set.
type LoadResult struct {
	Records        []BookRecord `json:"-"`
	Source         LoadSource   `json:"source"`
	Path           string       `json:"path"`
	FallbackReason string       `json:"fallback_reason,omitempty"`
}

// UsedFallback reports whether the synthetic generator produced the records.
func (r LoadResult) UsedFallback() bool {
	return r.Source == SourceSynthesized
}

// Dataset is an immutable, enriched snapshot of the loaded records.
// It is shared by every reader and must never be mutated after construction.
type Dataset struct {
	ID             string       `json:"id"`
	Records        []BookRecord `json:"-"`
	Source         LoadSource   `json:"source"`
	Path           string       `json:"path"`
	FallbackReason string       `json:"fallback_reason,omitempty"`
	LoadedAt       time.Time    `json:"loaded_at"`
	MaxReviews     int          `json:"max_reviews"`
}

// Len returns the number of records in the snapshot.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
