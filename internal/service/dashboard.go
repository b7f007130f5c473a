package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/listenupapp/bestsellers/internal/analytics"
	"github.com/listenupapp/bestsellers/internal/domain"
	domainerrors "github.com/listenupapp/bestsellers/internal/errors"
	"github.com/listenupapp/bestsellers/internal/id"
	"github.com/listenupapp/bestsellers/internal/search"
	"github.com/listenupapp/bestsellers/internal/store"
	"github.com/listenupapp/bestsellers/internal/validation"
)

// Paging limits for Records.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// DatasetLoader produces the raw records of a dataset.
type DatasetLoader interface {
	Load(ctx context.Context) (domain.LoadResult, error)
}

// RecordIndex answers text queries over the records of one snapshot.
type RecordIndex interface {
	MatchingIDs(ctx context.Context, q string) ([]int, error)
	Search(ctx context.Context, q string, limit int) (*search.Result, error)
	DocCount() (uint64, error)
	Close() error
}

// IndexBuilder builds the text index for a freshly loaded set of records.
type IndexBuilder func(records []domain.BookRecord) (RecordIndex, error)

// SearchIndexBuilder builds in-memory Bleve indexes.
func SearchIndexBuilder(logger *slog.Logger) IndexBuilder {
	return func(records []domain.BookRecord) (RecordIndex, error) {
		idx, err := search.Build(records, logger)
		if err != nil {
			return nil, err
		}
		return idx, nil
	}
}

// ReportCache memoizes reports per snapshot and selection.
type ReportCache interface {
	GetReport(ctx context.Context, datasetID string, sel domain.FilterSelection) (*domain.Report, error)
	PutReport(ctx context.Context, datasetID string, sel domain.FilterSelection, report *domain.Report) error
	DropDataset(datasetID string) error
}

// snapshot is the immutable state readers share. The index is built from
// the dataset's records, so ids it returns always address dataset.Records.
type snapshot struct {
	dataset *domain.Dataset
	options domain.FilterOptions
	index   RecordIndex
}

// RecordPage is one page of filtered records.
type RecordPage struct {
	Total   int                 `json:"total"`
	Limit   int                 `json:"limit"`
	Offset  int                 `json:"offset"`
	Records []domain.BookRecord `json:"records"`
}

// DashboardService owns the current dataset snapshot and answers every
// analytics query against it.
//
// Readers load the snapshot pointer once per call and never see a partial
// reload. Load builds the next snapshot off to the side and swaps it in.
type DashboardService struct {
	loader     DatasetLoader
	buildIndex IndexBuilder
	cache     ReportCache
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time

	current atomic.Pointer[snapshot]
	loadMu  sync.Mutex
}

// NewDashboardService creates the service. cache may be nil. A nil
// buildIndex uses SearchIndexBuilder.
func NewDashboardService(loader DatasetLoader, buildIndex IndexBuilder, cache ReportCache, validator *validation.Validator, logger *slog.Logger) *DashboardService {
	if validator == nil {
		validator = validation.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if buildIndex == nil {
		buildIndex = SearchIndexBuilder(logger)
	}
	return &DashboardService{
		loader:     loader,
		buildIndex: buildIndex,
		cache:     cache,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// Load reads, enriches and indexes the dataset, then makes it current.
// On failure the previous snapshot stays in place.
func (s *DashboardService) Load(ctx context.Context) (*domain.Dataset, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	res, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error("dataset load failed, keeping current snapshot", "error", err)
		return nil, err
	}

	ds := analytics.NewDataset(id.Snapshot(), res, s.now().UTC())

	index, err := s.buildIndex(ds.Records)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "index dataset")
	}

	// The previous index is left for the garbage collector: readers that
	// loaded the old snapshot may still be querying it.
	next := &snapshot{dataset: ds, options: analytics.Options(ds.Records), index: index}
	prev := s.current.Swap(next)

	if prev != nil && s.cache != nil {
		if err := s.cache.DropDataset(prev.dataset.ID); err != nil {
			s.logger.Warn("failed to drop cached reports", "dataset_id", prev.dataset.ID, "error", err)
		}
	}

	s.logger.Info("dataset snapshot installed",
		"dataset_id", ds.ID,
		"source", ds.Source,
		"records", ds.Len(),
		"max_reviews", ds.MaxReviews,
	)
	return ds, nil
}

// Snapshot returns the current dataset, or nil before the first Load.
func (s *DashboardService) Snapshot() *domain.Dataset {
	if cur := s.current.Load(); cur != nil {
		return cur.dataset
	}
	return nil
}

// Options returns the filter options of the current dataset.
func (s *DashboardService) Options() (domain.FilterOptions, error) {
	cur, err := s.snapshot()
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return cur.options, nil
}

// Report runs every aggregation for sel. Results are cached per snapshot.
func (s *DashboardService) Report(ctx context.Context, sel domain.FilterSelection) (*domain.Report, error) {
	cur, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(sel); err != nil {
		return nil, err
	}

	sel.Query = strings.TrimSpace(sel.Query)
	sel.RecordIDs = nil
	datasetID := cur.dataset.ID

	if s.cache != nil {
		cached, err := s.cache.GetReport(ctx, datasetID, sel)
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, store.ErrCacheMiss):
			s.logger.Warn("report cache read failed", "error", err)
		}
	}

	resolved, err := resolveQuery(ctx, cur, sel)
	if err != nil {
		return nil, err
	}

	report := analytics.BuildReport(cur.dataset, resolved)
	report.Selection = sel

	if s.cache != nil {
		if err := s.cache.PutReport(ctx, datasetID, sel, &report); err != nil {
			s.logger.Warn("report cache write failed", "error", err)
		}
	}
	return &report, nil
}

// Records returns one page of the records matching sel, in dataset order.
func (s *DashboardService) Records(ctx context.Context, sel domain.FilterSelection, limit, offset int) (*RecordPage, error) {
	cur, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(sel); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize || offset < 0 {
		return nil, domainerrors.Validationf("limit must be at most %d and offset non-negative", MaxPageSize)
	}

	resolved, err := resolveQuery(ctx, cur, sel)
	if err != nil {
		return nil, err
	}
	filtered := analytics.Filter(cur.dataset.Records, resolved)

	page := &RecordPage{Total: len(filtered), Limit: limit, Offset: offset, Records: []domain.BookRecord{}}
	if offset < len(filtered) {
		end := min(offset+limit, len(filtered))
		page.Records = filtered[offset:end]
	}
	return page, nil
}

// Search runs a free-text query over title, author and genre.
func (s *DashboardService) Search(ctx context.Context, q string, limit int) (*search.Result, error) {
	cur, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(q) == "" {
		return nil, domainerrors.Validation("search query is required")
	}
	if limit > MaxPageSize {
		return nil, domainerrors.Validationf("limit must be at most %d", MaxPageSize)
	}

	res, err := cur.index.Search(ctx, q, limit)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search failed")
	}
	return res, nil
}

// resolveQuery turns the free-text query into a record id restriction,
// using the index that belongs to cur.
func resolveQuery(ctx context.Context, cur *snapshot, sel domain.FilterSelection) (domain.FilterSelection, error) {
	if strings.TrimSpace(sel.Query) == "" {
		return sel, nil
	}

	ids, err := cur.index.MatchingIDs(ctx, sel.Query)
	if err != nil {
		return sel, domainerrors.Wrap(err, domainerrors.CodeInternal, "search failed")
	}
	if ids == nil {
		ids = []int{}
	}
	sel.RecordIDs = ids
	return sel, nil
}

// DocCount returns the number of records in the current snapshot's index.
func (s *DashboardService) DocCount() (uint64, error) {
	cur, err := s.snapshot()
	if err != nil {
		return 0, err
	}
	return cur.index.DocCount()
}

// Close releases the current snapshot's index.
func (s *DashboardService) Close() error {
	if cur := s.current.Load(); cur != nil {
		return cur.index.Close()
	}
	return nil
}

func (s *DashboardService) snapshot() (*snapshot, error) {
	cur := s.current.Load()
	if cur == nil {
		return nil, domainerrors.Unavailable("dataset not loaded yet")
	}
	return cur, nil
}
