package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/listenupapp/bestsellers/internal/genre"
)

// DefaultLimit is the hit count returned when the caller does not pass one.
const DefaultLimit = 20

// Result is a page of search hits.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is one matching record.
type Hit struct {
	ID     int     `json:"id"`
	Score  float64 `json:"score"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Genre  string  `json:"genre"`
	Year   int     `json:"year"`
}

// Search runs a text query against title, author and genre.
// A blank query matches nothing.
func (s *Index) Search(ctx context.Context, q string, limit int) (*Result, error) {
	q = strings.TrimSpace(q)
	if limit <= 0 {
		limit = DefaultLimit
	}

	result := &Result{Query: q, Hits: []Hit{}}
	if q == "" {
		return result, nil
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})
	req.Fields = []string{"title", "author", "genre", "year"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result.Total = res.Total
	result.TookMs = res.Took.Milliseconds()
	for _, h := range res.Hits {
		id, err := strconv.Atoi(h.ID)
		if err != nil {
			continue
		}
		hit := Hit{ID: id, Score: h.Score}
		if v, ok := h.Fields["title"].(string); ok {
			hit.Title = v
		}
		if v, ok := h.Fields["author"].(string); ok {
			hit.Author = v
		}
		if v, ok := h.Fields["genre"].(string); ok {
			hit.Genre = v
		}
		if v, ok := h.Fields["year"].(float64); ok {
			hit.Year = int(v)
		}
		result.Hits = append(result.Hits, hit)
	}

	return result, nil
}

// MatchingIDs returns the ids of every record matching q, in no particular
// order. A blank query returns nil, meaning "no restriction".
func (s *Index) MatchingIDs(ctx context.Context, q string) ([]int, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}

	count, err := s.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q), int(count), 0, false)
	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	ids := make([]int, 0, len(res.Hits))
	for _, h := range res.Hits {
		if id, err := strconv.Atoi(h.ID); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// buildQuery matches title (boosted), author, genre and the genre key, with
// a prefix clause on title for partial words.
func buildQuery(q string) query.Query {
	titleMatch := bleve.NewMatchQuery(q)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	authorMatch := bleve.NewMatchQuery(q)
	authorMatch.SetField("author")
	authorMatch.SetBoost(2.0)

	genreMatch := bleve.NewMatchQuery(q)
	genreMatch.SetField("genre")

	queries := []query.Query{titleMatch, authorMatch, genreMatch}

	// Genre spellings the analyzer splits differently ("nonfiction" vs
	// "Non Fiction") still meet on the normalized key.
	if key := genre.Key(q); key != "" {
		genreKey := bleve.NewTermQuery(key)
		genreKey.SetField("genre_key")
		queries = append(queries, genreKey)
	}

	if len(q) >= 2 && !strings.ContainsAny(q, " \t") {
		prefix := bleve.NewPrefixQuery(strings.ToLower(q))
		prefix.SetField("title")
		prefix.SetBoost(0.5)
		queries = append(queries, prefix)
	}

	return bleve.NewDisjunctionQuery(queries...)
}
