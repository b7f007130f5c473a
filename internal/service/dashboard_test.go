package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bestsellers/internal/dataset"
	"github.com/listenupapp/bestsellers/internal/domain"
	"github.com/listenupapp/bestsellers/internal/errors"
	"github.com/listenupapp/bestsellers/internal/store"
	"github.com/listenupapp/bestsellers/internal/watcher"
)

const threeBooksCSV = `Name,Author,User Rating,Reviews,Price,Year,Genre
X,Author X,4.0,500,10,2010,Fiction
X,Author X,4.5,1500,12,2011,Fiction
Y,Author Y,3.0,20000,8,2010,NonFiction
`

// countingCache records cache traffic around a real store.
type countingCache struct {
	*store.Store
	hits, puts, drops atomic.Int32
}

func (c *countingCache) GetReport(ctx context.Context, id string, sel domain.FilterSelection) (*domain.Report, error) {
	r, err := c.Store.GetReport(ctx, id, sel)
	if err == nil {
		c.hits.Add(1)
	}
	return r, err
}

func (c *countingCache) PutReport(ctx context.Context, id string, sel domain.FilterSelection, r *domain.Report) error {
	c.puts.Add(1)
	return c.Store.PutReport(ctx, id, sel, r)
}

func (c *countingCache) DropDataset(id string) error {
	c.drops.Add(1)
	return c.Store.DropDataset(id)
}

type fixture struct {
	svc   *DashboardService
	cache *countingCache
	path  string
}

func setupTestService(t *testing.T, csv string) *fixture {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bestsellers.csv")
	if csv != "" {
		require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))
	}

	db, err := store.New("", time.Minute, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	cache := &countingCache{Store: db}

	loader := dataset.NewLoader(path, dataset.DefaultSeed, nil, nil)
	svc := NewDashboardService(loader, nil, cache, nil, nil)
	t.Cleanup(func() { _ = svc.Close() })
	return &fixture{
		svc:   svc,
		cache: cache,
		path:  path,
	}
}

func TestDashboardService_NotLoaded(t *testing.T) {
	f := setupTestService(t, threeBooksCSV)

	assert.Nil(t, f.svc.Snapshot())

	_, err := f.svc.Report(context.Background(), domain.FilterSelection{})
	assert.ErrorIs(t, err, errors.ErrUnavailable)

	_, err = f.svc.Options()
	assert.ErrorIs(t, err, errors.ErrUnavailable)
}

func TestDashboardService_LoadFallsBackToSynthetic(t *testing.T) {
	f := setupTestService(t, "")

	ds, err := f.svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.SourceSynthesized, ds.Source)
	assert.Equal(t, 550, ds.Len())
	assert.Regexp(t, `^ds-[0-9a-z]{12}$`, ds.ID)
	assert.Same(t, ds, f.svc.Snapshot())
}

func TestDashboardService_ReportEndToEnd(t *testing.T) {
	f := setupTestService(t, threeBooksCSV)
	ctx := context.Background()

	ds, err := f.svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceLoaded, ds.Source)
	assert.Equal(t, 7.5, ds.Records[1].EngagementScore)

	report, err := f.svc.Report(ctx, domain.FilterSelection{Genres: []string{"Fiction"}})
	require.NoError(t, err)

	assert.Equal(t, ds.ID, report.DatasetID)
	assert.Equal(t, 2, report.Overview.Records)
	require.Len(t, report.Persistence, 1)
	assert.Equal(t, domain.PersistenceEntry{Title: "X", Count: 2, AverageRating: 4.25}, report.Persistence[0])
}

func TestDashboardService_ReportIsCached(t *testing.T) {
	f := setupTestService(t, threeBooksCSV)
	ctx := context.Background()
	_, err := f.svc.Load(ctx)
	require.NoError(t, err)

	sel := domain.FilterSelection{Years: []int{2010}}
	first, err := f.svc.Report(ctx, sel)
	require.NoError(t, err)
	second, err := f.svc.Report(ctx, sel)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), f.cache.puts.Load())
	assert.Equal(t, int32(1), f.cache.hits.Load())
}

func TestDashboardService_QueryNarrowsSelection(t *testing.T) {
	f := setupTestService(t, threeBooksCSV)
	ctx := context.Background()
	_, err := f.svc.Load(ctx)
	require.NoError(t, err)

	report, err := f.svc.Report(ctx, domain.FilterSelection{Query: "  y "})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Overview.Records)
	assert.Equal(t, "y", report.Selection.Query)
	assert.Nil(t, report.Selection.RecordIDs)

	report, err = f.svc.Report(ctx, domain.FilterSelection{Query: "zzz"})
	require.NoError(t, err)
	assert.Zero(t, report.Overview.Records)
	assert.Nil(t, report.Overview.MeanRating)
}

func TestDashboardService_ValidatesSelection(t *testing.T) {
	f := setupTestService(t, threeBooksCSV)
	ctx := context.Background()
	_, err := f.svc.Load(ctx)
	require.NoError(t, err)

	_, err = f.svc.Report(ctx, domain.FilterSelection{MinReviews: -1})
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = f.svc.Report(ctx, domain.FilterSelection{PriceRange: &domain.PriceRange{Min: 20, Max: 10}})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestDashboardService_ReloadSwapsSnapshot(t *testing.T) {
	f := setupTestService(t, threeBooksCSV)
	ctx := context.Background()

	first, err := f.svc.Load(ctx)
	require.NoError(t, err)
	_, err = f.svc.Report(ctx, domain.FilterSelection{})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(f.path, []byte(threeBooksCSV+"Z,Author Z,4.9,90,30,2012,Fiction\n"), 0o600))

	second, err := f.svc.Load(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 4, second.Len())
	assert.Equal(t, 3, first.Len(), "old snapshot is untouched")
	assert.Equal(t, int32(1), f.cache.drops.Load())

	report, err := f.svc.Report(ctx, domain.FilterSelection{})
	require.NoError(t, err)
	assert.Equal(t, second.ID, report.DatasetID)
	assert.Equal(t, 4, report.Overview.Records)
}

func TestDashboardService_FailedReloadKeepsSnapshot(t *testing.T) {
	f := setupTestService(t, threeBooksCSV)
	ctx := context.Background()

	first, err := f.svc.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(f.path, []byte("Name,Author\nA,B\n"), 0o600))

	_, err = f.svc.Load(ctx)
	require.ErrorIs(t, err, errors.ErrSchemaMismatch)
	assert.Same(t, first, f.svc.Snapshot())
}

func TestDashboardService_Records(t *testing.T) {
	f := setupTestService(t, threeBooksCSV)
	ctx := context.Background()
	_, err := f.svc.Load(ctx)
	require.NoError(t, err)

	page, err := f.svc.Records(ctx, domain.FilterSelection{}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Records, 2)
	assert.Equal(t, 1, page.Records[0].ID)

	page, err = f.svc.Records(ctx, domain.FilterSelection{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, page.Limit)
	assert.Empty(t, page.Records)
	assert.NotNil(t, page.Records)

	_, err = f.svc.Records(ctx, domain.FilterSelection{}, MaxPageSize+1, 0)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestDashboardService_Search(t *testing.T) {
	f := setupTestService(t, threeBooksCSV)
	ctx := context.Background()
	_, err := f.svc.Load(ctx)
	require.NoError(t, err)

	res, err := f.svc.Search(ctx, "x", 10)
	require.NoError(t, err)
	assert.Len(t, res.Hits, 2)

	_, err = f.svc.Search(ctx, " ", 10)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestDashboardService_Options(t *testing.T) {
	f := setupTestService(t, threeBooksCSV)
	_, err := f.svc.Load(context.Background())
	require.NoError(t, err)

	opts, err := f.svc.Options()
	require.NoError(t, err)
	assert.Equal(t, []int{2010, 2011}, opts.Years)
	assert.Equal(t, []string{"Fiction", "NonFiction"}, opts.Genres)
	assert.Equal(t, 20000, opts.MaxReviews)
}

func TestDashboardService_FollowChanges(t *testing.T) {
	f := setupTestService(t, threeBooksCSV)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := f.svc.Load(ctx)
	require.NoError(t, err)

	events := make(chan watcher.Event)
	errs := make(chan error)
	done := make(chan struct{})
	go func() {
		f.svc.FollowChanges(ctx, events, errs)
		close(done)
	}()

	errs <- assert.AnError
	events <- watcher.Event{Type: watcher.EventRemoved, Path: f.path}
	assert.Same(t, first, f.svc.Snapshot())

	events <- watcher.Event{Type: watcher.EventChanged, Path: f.path}
	assert.Eventually(t, func() bool {
		return f.svc.Snapshot().ID != first.ID
	}, 5*time.Second, 10*time.Millisecond)

	close(events)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("FollowChanges did not return after events closed")
	}
}

// sequenceLoader returns one load result per call, repeating the last.
type sequenceLoader struct {
	mu      sync.Mutex
	results [][]domain.BookRecord
}

func (l *sequenceLoader) Load(context.Context) (domain.LoadResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := l.results[0]
	if len(l.results) > 1 {
		l.results = l.results[1:]
	}
	return domain.LoadResult{Records: records, Source: domain.SourceLoaded}, nil
}

func TestDashboardService_QueryDuringReloadUsesSnapshotIndex(t *testing.T) {
	alpha := domain.BookRecord{Title: "Alpha", Author: "Ann", UserRating: 4.0, Reviews: 100, Price: 10, Year: 2010, Genre: "Fiction"}
	beta := domain.BookRecord{Title: "Beta", Author: "Bob", UserRating: 4.5, Reviews: 200, Price: 12, Year: 2011, Genre: "Fiction"}

	first := []domain.BookRecord{alpha, beta}
	first[0].ID, first[1].ID = 0, 1
	second := []domain.BookRecord{beta, alpha}
	second[0].ID, second[1].ID = 0, 1

	loader := &sequenceLoader{results: [][]domain.BookRecord{first, second}}

	built := make(chan struct{})
	release := make(chan struct{})
	builds := 0
	build := SearchIndexBuilder(nil)
	gated := func(records []domain.BookRecord) (RecordIndex, error) {
		idx, err := build(records)
		builds++
		if builds == 2 {
			close(built)
			<-release
		}
		return idx, err
	}

	svc := NewDashboardService(loader, gated, nil, nil, nil)
	t.Cleanup(func() { _ = svc.Close() })
	ctx := context.Background()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	reloaded := make(chan error, 1)
	go func() {
		_, err := svc.Load(ctx)
		reloaded <- err
	}()
	<-built

	// The new index exists but the old snapshot is still current.
	report, err := svc.Report(ctx, domain.FilterSelection{Query: "alpha"})
	require.NoError(t, err)
	require.Len(t, report.Persistence, 1)
	assert.Equal(t, "Alpha", report.Persistence[0].Title)

	page, err := svc.Records(ctx, domain.FilterSelection{Query: "alpha"}, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "Alpha", page.Records[0].Title)

	close(release)
	require.NoError(t, <-reloaded)

	report, err = svc.Report(ctx, domain.FilterSelection{Query: "alpha"})
	require.NoError(t, err)
	require.Len(t, report.Persistence, 1)
	assert.Equal(t, "Alpha", report.Persistence[0].Title)
	assert.Equal(t, 1, svc.Snapshot().Records[1].ID)
	assert.Equal(t, "Alpha", svc.Snapshot().Records[1].Title)
}
