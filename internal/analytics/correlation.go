package analytics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/listenupapp/bestsellers/internal/domain"
)

// matrixColumns fixes the order of the correlation matrix.
var matrixColumns = []string{
	domain.ColumnUserRating,
	domain.ColumnReviews,
	domain.ColumnPrice,
	domain.ColumnEngagementScore,
}

// namedPairs maps the reported pair names onto matrix columns.
var namedPairs = map[string][2]string{
	domain.PairRatingReviews: {domain.ColumnUserRating, domain.ColumnReviews},
	domain.PairRatingPrice:   {domain.ColumnUserRating, domain.ColumnPrice},
	domain.PairReviewsPrice:  {domain.ColumnReviews, domain.ColumnPrice},
}

// Correlations computes Pearson coefficients for the named pairs and the
// full matrix over user rating, reviews, price and engagement score.
//
// The diagonal is always 1. Off-diagonal cells are undefined with
// ReasonInsufficientRows for fewer than 2 records, or ReasonConstantColumn
// when either column has zero variance. Each pair is computed once and
// mirrored, so the matrix is exactly symmetric.
func Correlations(records []domain.BookRecord) domain.CorrelationReport {
	cols := extractColumns(records)
	n := len(matrixColumns)

	values := make([][]domain.Correlation, n)
	for i := range values {
		values[i] = make([]domain.Correlation, n)
		values[i][i] = domain.DefinedCorrelation(1)
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			c := pearson(cols[i], cols[j])
			values[i][j] = c
			values[j][i] = c
		}
	}

	matrix := domain.CorrelationMatrix{Columns: matrixColumns, Values: values}

	pairs := make(map[string]domain.Correlation, len(namedPairs))
	for name, p := range namedPairs {
		pairs[name], _ = matrix.At(p[0], p[1])
	}

	return domain.CorrelationReport{Pairs: pairs, Matrix: matrix}
}

func pearson(x, y []float64) domain.Correlation {
	if len(x) < 2 || len(x) != len(y) {
		return domain.UndefinedCorrelation(domain.ReasonInsufficientRows)
	}
	if isConstant(x) || isConstant(y) {
		return domain.UndefinedCorrelation(domain.ReasonConstantColumn)
	}

	// Variances that overflow float64 leave r as NaN.
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return domain.UndefinedCorrelation(domain.ReasonNonFinite)
	}
	return domain.DefinedCorrelation(math.Max(-1, math.Min(1, r)))
}

func isConstant(x []float64) bool {
	return floats.Max(x) == floats.Min(x)
}

func extractColumns(records []domain.BookRecord) [][]float64 {
	cols := make([][]float64, len(matrixColumns))
	for i := range cols {
		cols[i] = make([]float64, len(records))
	}
	for k, r := range records {
		cols[0][k] = r.UserRating
		cols[1][k] = float64(r.Reviews)
		cols[2][k] = r.Price
		cols[3][k] = r.EngagementScore
	}
	return cols
}
