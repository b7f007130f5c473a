package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/listenupapp/bestsellers/internal/domain"
	domainerrors "github.com/listenupapp/bestsellers/internal/errors"
	"github.com/listenupapp/bestsellers/internal/validation"
)

// Loader reads the dataset from a CSV file, falling back to synthetic data.
type Loader struct {
	path      string
	seed      uint64
	validator *validation.Validator
	logger    *slog.Logger
}

// NewLoader creates a loader for the given CSV path and fallback seed.
func NewLoader(path string, seed uint64, validator *validation.Validator, logger *slog.Logger) *Loader {
	if validator == nil {
		validator = validation.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		path:      path,
		seed:      seed,
		validator: validator,
		logger:    logger,
	}
}

// Path returns the CSV path the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the records and where they came from.
//
// A missing or unreadable file is recovered by synthesizing data and is
// reported through LoadResult.Source, never as an error. A file that exists
// but lacks required columns or holds unparsable cells is an error.
func (l *Loader) Load(ctx context.Context) (domain.LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.LoadResult{}, err
	}

	f, reason := l.open()
	if f == nil {
		l.logger.Info("dataset file unavailable, using synthetic data",
			"path", l.path,
			"reason", reason,
			"seed", l.seed,
		)
		return domain.LoadResult{
			Records:        Synthesize(l.seed),
			Source:         domain.SourceSynthesized,
			Path:           l.path,
			FallbackReason: reason,
		}, nil
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return domain.LoadResult{}, fmt.Errorf("load %s: %w", l.path, err)
	}

	for i := range records {
		if err := l.validator.Validate(records[i]); err != nil {
			var details any
			var de *domainerrors.Error
			if domainerrors.As(err, &de) {
				details = de.Details
			}
			return domain.LoadResult{}, domainerrors.InvalidRecordf("load %s: row %d failed validation", l.path, i+1).
				WithDetails(map[string]any{"row": i + 1, "fields": details})
		}
	}

	l.logger.Info("dataset loaded", "path", l.path, "records", len(records))

	return domain.LoadResult{
		Records: records,
		Source:  domain.SourceLoaded,
		Path:    l.path,
	}, nil
}

// open returns the file, or nil and the reason it could not be used.
func (l *Loader) open() (*os.File, string) {
	info, err := os.Stat(l.path)
	switch {
	case os.IsNotExist(err):
		return nil, "file not found"
	case err != nil:
		return nil, err.Error()
	case info.IsDir():
		return nil, "path is a directory"
	}

	f, err := os.Open(l.path)
	if err != nil {
		return nil, err.Error()
	}
	return f, ""
}
