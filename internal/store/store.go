// Package store caches computed reports in Badger, keyed by dataset snapshot
// and selection.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/listenupapp/bestsellers/internal/domain"
)

// Store wraps a Badger database used as a report cache.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
	ttl    time.Duration
}

// New opens the cache. An empty path keeps everything in memory, so nothing
// outlives the process.
func New(path string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.CompactL0OnClose = true
	}
	opts.Logger = nil // Badger's own logger is too chatty.

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	logger.Info("report cache opened", "path", path, "in_memory", path == "", "ttl", ttl)

	return &Store{db: db, logger: logger, ttl: ttl}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.logger.Info("closing report cache")
	return s.db.Close()
}

// Ping reports whether the cache accepts reads.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// GetReport returns a cached report, or ErrCacheMiss.
func (s *Store) GetReport(ctx context.Context, datasetID string, sel domain.FilterSelection) (*domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := reportKey(datasetID, sel)
	defer releaseKey(key)

	var report domain.Report
	if err := s.get(key, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// PutReport caches a report for the store's TTL.
func (s *Store) PutReport(ctx context.Context, datasetID string, sel domain.FilterSelection, report *domain.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := reportKey(datasetID, sel)
	defer releaseKey(key)

	return s.set(key, report)
}

// DropDataset removes every cached entry of a snapshot.
func (s *Store) DropDataset(datasetID string) error {
	prefix := datasetPrefix(datasetID)
	defer releaseKey(prefix)

	if err := s.db.DropPrefix(prefix); err != nil {
		return fmt.Errorf("drop cache for %s: %w", datasetID, err)
	}
	s.logger.Debug("report cache dropped", "dataset_id", datasetID)
	return nil
}

// get retrieves a JSON value by key.
func (s *Store) get(key []byte, dest any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrCacheMiss
	}
	return err
}

// set stores a JSON value with the cache TTL.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}
