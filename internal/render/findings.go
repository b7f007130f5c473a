package render

import (
	"math"
	"slices"

	"golang.org/x/text/message"

	"github.com/listenupapp/bestsellers/internal/domain"
)

var pairLabels = map[string]string{
	domain.PairRatingReviews: "rating and review count",
	domain.PairRatingPrice:   "rating and price",
	domain.PairReviewsPrice:  "review count and price",
}

// findings derives the executive summary from a report.
func findings(p *message.Printer, r *domain.Report) []string {
	if r.Overview.Records == 0 {
		return []string{"No records match the current filters."}
	}

	out := []string{p.Sprintf("%d records match the current filters.", r.Overview.Records)}

	if len(r.Persistence) > 0 {
		top := r.Persistence[0]
		out = append(out, p.Sprintf("%q is the most persistent title, listed %d times with an average rating of %.2f.",
			top.Title, top.Count, top.AverageRating))
	}

	if name, value, ok := strongestPair(r.Correlations.Pairs); ok {
		out = append(out, p.Sprintf("The strongest relationship is between %s: %s %s correlation (r = %.2f).",
			pairLabels[name], strength(value), direction(value), value))
	} else {
		out = append(out, "No correlation is defined for this selection.")
	}

	largest := -1
	for i, b := range r.ReviewBuckets {
		if largest < 0 || b.Count > r.ReviewBuckets[largest].Count {
			largest = i
		}
	}
	if largest >= 0 {
		b := r.ReviewBuckets[largest]
		out = append(out, p.Sprintf("Most records fall in the %s review band (%d of %d).",
			b.Category, b.Count, r.Overview.Records))
	}

	return out
}

// strongestPair picks the defined pair with the largest magnitude. Ties go
// to the alphabetically first pair name.
func strongestPair(pairs map[string]domain.Correlation) (string, float64, bool) {
	names := make([]string, 0, len(pairs))
	for name := range pairs {
		names = append(names, name)
	}
	slices.Sort(names)

	best, bestValue, found := "", 0.0, false
	for _, name := range names {
		v, ok := pairs[name].Float()
		if !ok {
			continue
		}
		if !found || math.Abs(v) > math.Abs(bestValue) {
			best, bestValue, found = name, v, true
		}
	}
	return best, bestValue, found
}

func strength(r float64) string {
	switch a := math.Abs(r); {
	case a < 0.1:
		return "a negligible"
	case a < 0.3:
		return "a weak"
	case a < 0.5:
		return "a moderate"
	default:
		return "a strong"
	}
}

func direction(r float64) string {
	if r < 0 {
		return "negative"
	}
	return "positive"
}
