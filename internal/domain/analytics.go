package domain

import "math"

// ReviewCategory is a fixed review-count bucket.
type ReviewCategory string

// Review categories, in business order.
const (
	ReviewsLow      ReviewCategory = "Low"
	ReviewsMedium   ReviewCategory = "Medium"
	ReviewsHigh     ReviewCategory = "High"
	ReviewsVeryHigh ReviewCategory = "VeryHigh"
)

// ReviewCategories lists every category in display order.
var ReviewCategories = []ReviewCategory{ReviewsLow, ReviewsMedium, ReviewsHigh, ReviewsVeryHigh}

// Lower bounds of the Medium, High and VeryHigh buckets. Bins are closed-open.
const (
	mediumReviewsFrom   = 1000
	highReviewsFrom     = 5000
	veryHighReviewsFrom = 15000
)

// CategorizeReviews assigns a review count to its bucket:
// [0,1000) Low, [1000,5000) Medium, [5000,15000) High, [15000,inf) VeryHigh.
func CategorizeReviews(reviews int) ReviewCategory {
	switch {
	case reviews >= veryHighReviewsFrom:
		return ReviewsVeryHigh
	case reviews >= highReviewsFrom:
		return ReviewsHigh
	case reviews >= mediumReviewsFrom:
		return ReviewsMedium
	default:
		return ReviewsLow
	}
}

// PersistenceEntry summarizes how often a title appears on the list.
type PersistenceEntry struct {
	Title         string  `json:"title"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// BucketStats holds per-bucket means, rounded to 2 decimals.
type BucketStats struct {
	MeanReviews float64 `json:"mean_reviews"`
	MeanRating  float64 `json:"mean_rating"`
	MeanPrice   float64 `json:"mean_price"`
}

// ReviewBucketSummary is one bucket of the review-bucket report.
// Stats is nil when the bucket holds no records.
type ReviewBucketSummary struct {
	Category ReviewCategory `json:"category"`
	Count    int            `json:"count"`
	Stats    *BucketStats   `json:"stats"`
}

// ReviewBuckets always holds all four categories in ReviewCategories order.
type ReviewBuckets []ReviewBucketSummary

// Get returns the summary for a category.
func (b ReviewBuckets) Get(c ReviewCategory) (ReviewBucketSummary, bool) {
	for _, s := range b {
		if s.Category == c {
			return s, true
		}
	}
	return ReviewBucketSummary{}, false
}

// GenreSummary aggregates records that share a genre key.
type GenreSummary struct {
	Genre      string  `json:"genre"`
	Key        string  `json:"key"`
	Count      int     `json:"count"`
	MeanRating float64 `json:"mean_rating"`
	MeanPrice  float64 `json:"mean_price"`
}

// UndefinedReason explains why a correlation has no value.
type UndefinedReason string

// UndefinedReason values.
const (
	ReasonInsufficientRows UndefinedReason = "insufficient_rows"
	ReasonConstantColumn   UndefinedReason = "constant_column"
	ReasonNonFinite        UndefinedReason = "non_finite"
)

// Correlation is a Pearson coefficient that may be undefined. An undefined
// correlation has a nil Value and a Reason, so it never reads as zero.
type Correlation struct {
	Value   *float64        `json:"value"`
	Defined bool            `json:"defined"`
	Reason  UndefinedReason `json:"reason,omitempty"`
}

// DefinedCorrelation wraps a computed coefficient.
func DefinedCorrelation(v float64) Correlation {
	return Correlation{Value: &v, Defined: true}
}

// UndefinedCorrelation returns a correlation with no value.
func UndefinedCorrelation(reason UndefinedReason) Correlation {
	return Correlation{Reason: reason}
}

// Float returns the coefficient, or NaN and false when undefined.
func (c Correlation) Float() (float64, bool) {
	if !c.Defined || c.Value == nil {
		return math.NaN(), false
	}
	return *c.Value, true
}

// Correlation pair names.
const (
	PairRatingReviews = "rating_reviews"
	PairRatingPrice   = "rating_price"
	PairReviewsPrice  = "reviews_price"
)

// Correlation matrix column names, in matrix order.
const (
	ColumnUserRating      = "user_rating"
	ColumnReviews         = "reviews"
	ColumnPrice           = "price"
	ColumnEngagementScore = "engagement_score"
)

// CorrelationMatrix is a square, symmetric matrix over Columns.
type CorrelationMatrix struct {
	Columns []string        `json:"columns"`
	Values  [][]Correlation `json:"values"`
}

// At returns the correlation between two named columns.
func (m CorrelationMatrix) At(a, b string) (Correlation, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return Correlation{}, false
	}
	return m.Values[i][j], true
}

// CorrelationReport holds the named pairs and the full matrix.
type CorrelationReport struct {
	Pairs  map[string]Correlation `json:"pairs"`
	Matrix CorrelationMatrix      `json:"matrix"`
}

// Overview holds headline metrics. Means are nil for an empty selection.
type Overview struct {
	Records     int      `json:"records"`
	MeanRating  *float64 `json:"mean_rating"`
	MeanReviews *float64 `json:"mean_reviews"`
}

// FilterOptions describes the values available for filtering a dataset.
type FilterOptions struct {
	Years      []int    `json:"years"`
	Genres     []string `json:"genres"`
	MaxReviews int      `json:"max_reviews"`
	MinPrice   float64  `json:"min_price"`
	MaxPrice   float64  `json:"max_price"`
}

// Report bundles every analysis for one selection.
type Report struct {
	DatasetID     string             `json:"dataset_id"`
	Source        LoadSource         `json:"source"`
	Selection     FilterSelection    `json:"selection"`
	Overview      Overview           `json:"overview"`
	Persistence   []PersistenceEntry `json:"persistence"`
	ReviewBuckets ReviewBuckets      `json:"review_buckets"`
	Genres        []GenreSummary     `json:"genres"`
	Correlations  CorrelationReport  `json:"correlations"`
}
