package search

import (
	"fmt"
	"log/slog"

	"github.com/blevesearch/bleve/v2"

	"github.com/listenupapp/bestsellers/internal/domain"
)

// batchSize bounds how many documents go into one Bleve batch.
const batchSize = 500

// Index is a memory-only Bleve index over one dataset snapshot. It is filled
// once by Build and never changes afterwards, so record ids in its hits
// always refer to the records it was built from.
//
// All public methods are safe for concurrent use.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
}

// New creates an empty in-memory index.
func New(logger *slog.Logger) (*Index, error) {
	return Build(nil, logger)
}

// Build creates an in-memory index holding records.
func Build(records []domain.BookRecord, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := idx.NewBatch()
	for _, r := range records {
		if err := batch.Index(docID(r.ID), NewDocument(r)); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index record %d: %w", r.ID, err)
		}
		if batch.Size() >= batchSize {
			if err := idx.Batch(batch); err != nil {
				_ = idx.Close()
				return nil, fmt.Errorf("execute batch: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("execute batch: %w", err)
		}
	}

	if len(records) > 0 {
		logger.Info("search index built", "documents", len(records))
	}
	return &Index{index: idx, logger: logger}, nil
}

// DocCount returns the number of indexed documents.
func (s *Index) DocCount() (uint64, error) {
	return s.index.DocCount()
}

// Close releases the index.
func (s *Index) Close() error {
	return s.index.Close()
}
