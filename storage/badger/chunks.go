package badger

import (
	"context"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/manualqa/manualqa/core"
	"github.com/manualqa/manualqa/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
// One repository corresponds to one vector index directory on disk.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a ChunkRepository on an open backend.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend required")
	}
	return &ChunkRepository{backend: backend}, nil
}

// OpenChunkRepository opens (or creates) a vector index at the given
// directory location.
//
// Returns storage.ChunkRepository interface to enforce abstraction.
func OpenChunkRepository(location string) (storage.ChunkRepository, error) {
	backend, err := OpenBackend(location, false)
	if err != nil {
		return nil, err
	}
	return &ChunkRepository{backend: backend}, nil
}

// OpenExistingChunkRepository opens a previously persisted vector index,
// failing with storage.ErrIndexNotFound when no index exists at the location.
func OpenExistingChunkRepository(location string) (storage.ChunkRepository, error) {
	backend, err := OpenExistingBackend(location)
	if err != nil {
		return nil, err
	}
	return &ChunkRepository{backend: backend}, nil
}

// Close closes the underlying backend.
func (r *ChunkRepository) Close() error {
	return r.backend.Close()
}

// AddChunkRecords adds chunk records to the index.
// Vectors are normalized to unit length before storage so that similarity
// search reduces to a dot product.
func (r *ChunkRepository) AddChunkRecords(ctx context.Context, records ...*core.ChunkRecord) ([]*core.ChunkRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := core.ValidateChunkRecord(record); err != nil {
				return err
			}

			record.Vector = storage.NormalizeVector(record.Vector)

			key := makeChunkRecordKey(uint64(record.Id))
			value := storage.MarshalChunkRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetChunkRecord retrieves a single chunk record by ID.
func (r *ChunkRepository) GetChunkRecord(ctx context.Context, id core.ID) (*core.ChunkRecord, error) {
	var record *core.ChunkRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeChunkRecordKey(uint64(id)))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			record, err = storage.UnmarshalChunkRecord(val)
			return err
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return record, nil
}

// CountChunkRecords returns the number of chunk records in the index.
func (r *ChunkRepository) CountChunkRecords(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListChunkRecords returns every chunk record ordered by sequence number.
func (r *ChunkRepository) ListChunkRecords(ctx context.Context) ([]*core.ChunkRecord, error) {
	var records []*core.ChunkRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var record *core.ChunkRecord
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalChunkRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b *core.ChunkRecord) int {
		return a.Seq - b.Seq
	})
	return records, nil
}

// FindSimilar finds the chunks most similar to the given vector.
// The query vector is normalized and compared against every stored record
// (cosine similarity as a dot product over unit vectors). Indexes hold the
// chunks of a single manual, so a full scan stays cheap.
func (r *ChunkRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.ChunkMatch, error) {
	query := storage.NormalizeVector(slices.Clone(vector))

	var results []*core.ChunkMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var record *core.ChunkRecord
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalChunkRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}

			results = append(results, &core.ChunkMatch{
				Record: record,
				Score:  dotProduct(query, record.Vector),
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.ChunkMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// dotProduct computes the dot product of two vectors.
// Dimensions beyond the shorter vector are ignored.
func dotProduct(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
