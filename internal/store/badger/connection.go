// Package badger is the reference DocumentStore implementation: an embedded
// badger/badgerhold key-value store holding jobs, resumes, matches,
// unmatched records, and checkpoints, with a brute-force cosine-similarity
// scan standing in for a real ANN-backed vector index.
package badger

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// db wraps the badgerhold connection, mirroring the teacher's BadgerDB.
type db struct {
	store  *badgerhold.Store
	logger arbor.ILogger
}

func openDB(logger arbor.ILogger, dataDir string) (*db, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger.Debug().Str("path", dataDir).Msg("Opening Badger database connection")

	options := badgerhold.DefaultOptions
	options.Dir = dataDir
	options.ValueDir = dataDir
	options.Logger = nil // disable default badger logger, route through arbor

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", dataDir).Msg("Badger database initialized")
	return &db{store: store, logger: logger}, nil
}

func (d *db) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}
