package search

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bestsellers/internal/domain"
)

func setupTestIndex(t *testing.T, records []domain.BookRecord) *Index {
	t.Helper()

	idx, err := Build(records, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func fixtures() []domain.BookRecord {
	return []domain.BookRecord{
		{ID: 0, Title: "Becoming", Author: "Michelle Obama", Genre: "Non Fiction", Year: 2018},
		{ID: 1, Title: "Gone Girl", Author: "Gillian Flynn", Genre: "Fiction", Year: 2012},
		{ID: 2, Title: "Gone Girl", Author: "Gillian Flynn", Genre: "Fiction", Year: 2013},
		{ID: 3, Title: "The Help", Author: "Kathryn Stockett", Genre: "Fiction", Year: 2010},
	}
}

func TestIndex_SearchByTitle(t *testing.T) {
	idx := setupTestIndex(t, fixtures())

	res, err := idx.Search(context.Background(), "gone girl", 10)
	require.NoError(t, err)

	require.Len(t, res.Hits, 2)
	assert.Equal(t, uint64(2), res.Total)
	for _, h := range res.Hits {
		assert.Equal(t, "Gone Girl", h.Title)
		assert.Equal(t, "Gillian Flynn", h.Author)
	}
}

func TestIndex_SearchByAuthor(t *testing.T) {
	idx := setupTestIndex(t, fixtures())

	res, err := idx.Search(context.Background(), "Obama", 10)
	require.NoError(t, err)

	require.Len(t, res.Hits, 1)
	assert.Equal(t, 0, res.Hits[0].ID)
	assert.Equal(t, 2018, res.Hits[0].Year)
}

func TestIndex_SearchRespectsLimit(t *testing.T) {
	idx := setupTestIndex(t, fixtures())

	res, err := idx.Search(context.Background(), "flynn", 1)
	require.NoError(t, err)
	assert.Len(t, res.Hits, 1)
	assert.Equal(t, uint64(2), res.Total)
}

func TestIndex_BlankQuery(t *testing.T) {
	idx := setupTestIndex(t, fixtures())

	res, err := idx.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, res.Hits)

	ids, err := idx.MatchingIDs(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestIndex_MatchingIDs(t *testing.T) {
	idx := setupTestIndex(t, fixtures())

	ids, err := idx.MatchingIDs(context.Background(), "stockett")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, ids)

	ids, err = idx.MatchingIDs(context.Background(), "gone")
	require.NoError(t, err)
	slices.Sort(ids)
	assert.Equal(t, []int{1, 2}, ids)

	ids, err = idx.MatchingIDs(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.NotNil(t, ids, "no match restricts to nothing")
	assert.Empty(t, ids)
}

func TestBuild_IndexesOnlyGivenRecords(t *testing.T) {
	full := setupTestIndex(t, fixtures())
	partial := setupTestIndex(t, fixtures()[:1])

	count, err := partial.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	ids, err := partial.MatchingIDs(context.Background(), "gone")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = full.MatchingIDs(context.Background(), "gone")
	require.NoError(t, err)
	assert.Len(t, ids, 2, "building a second index leaves the first untouched")
}

func TestNew_Empty(t *testing.T) {
	idx, err := New(nil)
	require.NoError(t, err)
	defer idx.Close()

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndex_MatchesGenreKey(t *testing.T) {
	idx := setupTestIndex(t, fixtures())

	ids, err := idx.MatchingIDs(context.Background(), "nonfiction")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, ids)
}
