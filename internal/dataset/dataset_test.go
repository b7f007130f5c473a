package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bestsellers/internal/domain"
	"github.com/listenupapp/bestsellers/internal/errors"
)

const sampleCSV = `Name,Author,User Rating,Reviews,Price,Year,Genre
"10-Day Green Smoothie Cleanse",JJ Smith,4.7,17350,8,2016,Non Fiction
11/22/63: A Novel,Stephen King,4.6,2052,22,2011,Fiction

12 Rules for Life,Jordan B. Peterson,4.7,18979,15,2018,Non Fiction
`

func TestReadCSV(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3, "blank lines are skipped")

	assert.Equal(t, domain.BookRecord{
		ID:         1,
		Title:      "11/22/63: A Novel",
		Author:     "Stephen King",
		UserRating: 4.6,
		Reviews:    2052,
		Price:      22,
		Year:       2011,
		Genre:      "Fiction",
	}, records[1])
	assert.Equal(t, 2, records[2].ID)
}

func TestReadCSV_ExtraColumnsAnyOrder(t *testing.T) {
	in := "Genre,Year,Price,Reviews,User Rating,Author,Name,Rank\nFiction,2010,9.99,100,4.1,A,B,7\n"

	records, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "B", records[0].Title)
	assert.InDelta(t, 9.99, records[0].Price, 1e-9)
}

func TestReadCSV_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantMissing []string
	}{
		{name: "missing genre and year", in: "Name,Author,User Rating,Reviews,Price\n", wantMissing: []string{"Year", "Genre"}},
		{name: "empty file", in: "", wantMissing: Columns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrSchemaMismatch)

			var de *errors.Error
			require.ErrorAs(t, err, &de)
			details, ok := de.Details.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.wantMissing, details["missing"])
		})
	}
}

func TestReadCSV_InvalidCell(t *testing.T) {
	in := "Name,Author,User Rating,Reviews,Price,Year,Genre\nA,B,4.5,lots,10,2012,Fiction\n"

	_, err := ReadCSV(strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidRecord)

	var de *errors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, map[string]any{"row": 1, "column": "Reviews", "value": "lots"}, de.Details)
}

func TestReadCSV_NonFiniteNumbers(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		column string
		value  string
	}{
		{"positive infinity price", "A,B,4.5,100,+Inf,2012,Fiction", ColumnPrice, "+Inf"},
		{"infinity price", "A,B,4.5,100,Infinity,2012,Fiction", ColumnPrice, "Infinity"},
		{"negative infinity rating", "A,B,-inf,100,10,2012,Fiction", ColumnUserRating, "-inf"},
		{"nan rating", "A,B,NaN,100,10,2012,Fiction", ColumnUserRating, "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := "Name,Author,User Rating,Reviews,Price,Year,Genre\n" + tt.row + "\n"

			_, err := ReadCSV(strings.NewReader(in))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidRecord)

			var de *errors.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, map[string]any{"row": 1, "column": tt.column, "value": tt.value}, de.Details)
		})
	}
}

func TestWriteCSV_RoundTripsThroughReadCSV(t *testing.T) {
	records := Synthesize(DefaultSeed)[:5]

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))
	assert.True(t, strings.HasPrefix(buf.String(), strings.Join(Columns, ",")+"\n"))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

func TestSynthesize_Shape(t *testing.T) {
	records := Synthesize(DefaultSeed)
	require.Len(t, records, 550)

	perYear := map[int]int{}
	for i, r := range records {
		assert.Equal(t, i, r.ID)
		perYear[r.Year]++

		assert.GreaterOrEqual(t, r.UserRating, 3.5)
		assert.LessOrEqual(t, r.UserRating, 5.0)
		assert.InDelta(t, r.UserRating, float64(int(r.UserRating*100+0.5))/100, 1e-9, "rating rounded to 2 decimals")
		assert.GreaterOrEqual(t, r.Reviews, 50)
		assert.LessOrEqual(t, r.Reviews, 80000)
		assert.GreaterOrEqual(t, r.Price, 5.0)
		assert.LessOrEqual(t, r.Price, 60.0)
		assert.Contains(t, sampleTitles, r.Title)
		assert.Contains(t, sampleAuthors, r.Author)
		assert.Contains(t, sampleGenres, r.Genre)
	}

	for year := SyntheticFirstYear; year <= SyntheticLastYear; year++ {
		assert.Equal(t, SyntheticRowsPerYear, perYear[year], "year %d", year)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	assert.Equal(t, Synthesize(7), Synthesize(7))
	assert.NotEqual(t, Synthesize(7), Synthesize(8))
}

func TestLoader_MissingFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.csv")

	res, err := NewLoader(path, DefaultSeed, nil, nil).Load(context.Background())
	require.NoError(t, err)

	assert.True(t, res.UsedFallback())
	assert.Equal(t, domain.SourceSynthesized, res.Source)
	assert.Equal(t, "file not found", res.FallbackReason)
	assert.Equal(t, Synthesize(DefaultSeed), res.Records)
}

func TestLoader_DirectoryFallsBack(t *testing.T) {
	res, err := NewLoader(t.TempDir(), DefaultSeed, nil, nil).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, res.UsedFallback())
}

func TestLoader_LoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bestsellers.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	res, err := NewLoader(path, DefaultSeed, nil, nil).Load(context.Background())
	require.NoError(t, err)

	assert.False(t, res.UsedFallback())
	assert.Equal(t, domain.SourceLoaded, res.Source)
	assert.Len(t, res.Records, 3)
}

func TestLoader_SchemaMismatchIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bestsellers.csv")
	require.NoError(t, os.WriteFile(path, []byte("Title,Author\nA,B\n"), 0o600))

	_, err := NewLoader(path, DefaultSeed, nil, nil).Load(context.Background())
	assert.ErrorIs(t, err, errors.ErrSchemaMismatch)
}

func TestLoader_RejectsOutOfRangeRating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bestsellers.csv")
	in := "Name,Author,User Rating,Reviews,Price,Year,Genre\nA,B,7.5,10,10,2012,Fiction\n"
	require.NoError(t, os.WriteFile(path, []byte(in), 0o600))

	_, err := NewLoader(path, DefaultSeed, nil, nil).Load(context.Background())
	require.ErrorIs(t, err, errors.ErrInvalidRecord)

	var de *errors.Error
	require.ErrorAs(t, err, &de)
	details := de.Details.(map[string]any)
	assert.Equal(t, 1, details["row"])
	assert.Equal(t, map[string]string{"user_rating": "must be less than or equal to 5"}, details["fields"])
}

func TestLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader("unused.csv", DefaultSeed, nil, nil).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
