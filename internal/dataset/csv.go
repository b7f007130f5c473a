// Package dataset reads the bestseller CSV and synthesizes a fallback
// dataset when no file is available.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/listenupapp/bestsellers/internal/domain"
	domainerrors "github.com/listenupapp/bestsellers/internal/errors"
)

// Column names of the bestseller CSV.
const (
	ColumnName       = "Name"
	ColumnAuthor     = "Author"
	ColumnUserRating = "User Rating"
	ColumnReviews    = "Reviews"
	ColumnPrice      = "Price"
	ColumnYear       = "Year"
	ColumnGenre      = "Genre"
)

// Columns is the canonical header. Files may carry extra columns in any
// order, but every one of these must be present.
var Columns = []string{
	ColumnName, ColumnAuthor, ColumnUserRating, ColumnReviews, ColumnPrice, ColumnYear, ColumnGenre,
}

var errNotFinite = errors.New("not a finite number")

// ReadCSV parses bestseller records from r.
//
// A header without every required column is a SCHEMA_MISMATCH error. A cell
// that cannot be parsed is an INVALID_RECORD error whose details name the
// row (1-based, header excluded), column and raw value.
func ReadCSV(r io.Reader) ([]domain.BookRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domainerrors.SchemaMismatch("csv has no header").
			WithDetails(map[string]any{"missing": Columns})
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInvalidRecord, "read csv header")
	}

	index, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	var records []domain.BookRecord
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domainerrors.Wrapf(err, domainerrors.CodeInvalidRecord, "read csv row %d", row).
				WithDetails(map[string]any{"row": row})
		}
		if isBlank(fields) {
			continue
		}

		rec, err := parseRecord(fields, index, row)
		if err != nil {
			return nil, err
		}
		rec.ID = len(records)
		records = append(records, rec)
	}

	return records, nil
}

func indexHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, domainerrors.SchemaMismatchf("csv is missing required columns: %s", strings.Join(missing, ", ")).
			WithDetails(map[string]any{"missing": missing})
	}

	return index, nil
}

func parseRecord(fields []string, index map[string]int, row int) (domain.BookRecord, error) {
	cell := func(col string) string {
		i := index[col]
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	invalid := func(col string, cause error) error {
		return domainerrors.Wrapf(cause, domainerrors.CodeInvalidRecord, "row %d: invalid %s %q", row, col, cell(col)).
			WithDetails(map[string]any{"row": row, "column": col, "value": cell(col)})
	}

	rating, err := parseFinite(cell(ColumnUserRating))
	if err != nil {
		return domain.BookRecord{}, invalid(ColumnUserRating, err)
	}
	reviews, err := strconv.Atoi(cell(ColumnReviews))
	if err != nil {
		return domain.BookRecord{}, invalid(ColumnReviews, err)
	}
	price, err := parseFinite(cell(ColumnPrice))
	if err != nil {
		return domain.BookRecord{}, invalid(ColumnPrice, err)
	}
	year, err := strconv.Atoi(cell(ColumnYear))
	if err != nil {
		return domain.BookRecord{}, invalid(ColumnYear, err)
	}

	return domain.BookRecord{
		Title:      cell(ColumnName),
		Author:     cell(ColumnAuthor),
		UserRating: rating,
		Reviews:    reviews,
		Price:      price,
		Year:       year,
		Genre:      cell(ColumnGenre),
	}, nil
}

// parseFinite rejects the NaN and Inf spellings strconv accepts.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes records under the canonical header. EngagementScore is
// derived data and is not written.
func WriteCSV(w io.Writer, records []domain.BookRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Title,
			rec.Author,
			strconv.FormatFloat(rec.UserRating, 'f', -1, 64),
			strconv.Itoa(rec.Reviews),
			strconv.FormatFloat(rec.Price, 'f', -1, 64),
			strconv.Itoa(rec.Year),
			rec.Genre,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", rec.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
