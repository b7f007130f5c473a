package dataset

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/listenupapp/bestsellers/internal/domain"
)

// DefaultSeed reproduces the reference synthetic dataset.
const DefaultSeed uint64 = 42

// Shape of the synthetic dataset.
const (
	SyntheticFirstYear   = 2009
	SyntheticLastYear    = 2019
	SyntheticRowsPerYear = 50
)

var (
	sampleTitles  = []string{"Becoming", "The Help", "Gone Girl"}
	sampleAuthors = []string{"Obama", "Flynn", "Stockett"}
	sampleGenres  = []string{"Fiction", "NonFiction"}
)

// Synthesize generates the fallback dataset. The same seed always yields the
// same records: 11 years (2009-2019) of 50 rows each, rating uniform in
// [3.5, 5.0] rounded to 2 decimals, reviews in [50, 80000], price in [5, 60].
func Synthesize(seed uint64) []domain.BookRecord {
	src := rand.NewPCG(seed, seed)
	rng := rand.New(src)
	rating := distuv.Uniform{Min: 3.5, Max: 5.0, Src: src}

	years := SyntheticLastYear - SyntheticFirstYear + 1
	records := make([]domain.BookRecord, 0, years*SyntheticRowsPerYear)

	for year := SyntheticFirstYear; year <= SyntheticLastYear; year++ {
		for range SyntheticRowsPerYear {
			records = append(records, domain.BookRecord{
				ID:         len(records),
				Title:      sampleTitles[rng.IntN(len(sampleTitles))],
				Author:     sampleAuthors[rng.IntN(len(sampleAuthors))],
				UserRating: math.Round(rating.Rand()*100) / 100,
				Reviews:    50 + rng.IntN(80000-50+1),
				Price:      float64(5 + rng.IntN(60-5+1)),
				Year:       year,
				Genre:      sampleGenres[rng.IntN(len(sampleGenres))],
			})
		}
	}

	return records
}
