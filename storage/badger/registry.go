package badger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/manualqa/manualqa/core"
	"github.com/manualqa/manualqa/storage"
)

// ManualRegistry implements storage.ManualRegistry for BadgerDB.
type ManualRegistry struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ManualRegistry = (*ManualRegistry)(nil)

// NewManualRegistry creates a ManualRegistry on an open backend.
func NewManualRegistry(backend *Backend) (*ManualRegistry, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend required")
	}

	idSeq, err := backend.GetSequence(manualIDSeq)
	if err != nil {
		return nil, err
	}

	return &ManualRegistry{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// OpenManualRegistry opens (or creates) a registry at the given directory.
//
// Returns storage.ManualRegistry interface to enforce abstraction.
func OpenManualRegistry(path string) (storage.ManualRegistry, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}

	registry, err := NewManualRegistry(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return registry, nil
}

// Close releases the ID sequence and the underlying backend.
func (r *ManualRegistry) Close() error {
	if err := r.idSeq.Release(); err != nil {
		return err
	}
	return r.backend.Close()
}

// GetOrCreate returns the record for a product name, creating a Pending
// record when none exists. A Failed record is reset to Pending so the caller
// can retry ingestion. The badger transaction serializes concurrent calls
// for the same name; a conflicting create retries once.
func (r *ManualRegistry) GetOrCreate(ctx context.Context, productName string) (*core.ManualRecord, bool, error) {
	record, created, err := r.getOrCreate(ctx, productName)
	if err == badger.ErrConflict {
		record, created, err = r.getOrCreate(ctx, productName)
	}
	return record, created, err
}

func (r *ManualRegistry) getOrCreate(ctx context.Context, productName string) (*core.ManualRecord, bool, error) {
	normalized := core.NormalizeProductName(productName)
	if normalized == "" {
		return nil, false, fmt.Errorf("%w: %w", core.ErrInvalidManualRecord, core.ErrEmptyProductName)
	}

	var (
		record  *core.ManualRecord
		created bool
	)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := r.readByName(tx, normalized)
		if err != nil {
			return err
		}

		if existing != nil {
			record = existing
			// A failed record gets another chance: reset before retry.
			if record.Status == core.StatusFailed {
				record.Status = core.StatusPending
				record.UpdatedAt = time.Now().UTC()
				if err := r.writeRecord(tx, record); err != nil {
					return err
				}
				return tx.Commit()
			}
			return nil
		}

		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		record = &core.ManualRecord{
			Id:          core.ID(nextID),
			ProductName: normalized,
			DisplayName: strings.TrimSpace(productName),
			Status:      core.StatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		created = true

		if err := r.writeRecord(tx, record); err != nil {
			return err
		}
		if err := tx.Set(makeManualNameKey(normalized), storage.MarshalID(record.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, false, err
	}
	return record, created, nil
}

// Get retrieves the record for a product name.
func (r *ManualRegistry) Get(ctx context.Context, productName string) (*core.ManualRecord, error) {
	normalized := core.NormalizeProductName(productName)

	var record *core.ManualRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = r.readByName(tx, normalized)
		return err
	}, false)

	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, normalized)
	}
	return record, nil
}

// List returns all records ordered by normalized product name.
func (r *ManualRegistry) List(ctx context.Context) ([]*core.ManualRecord, error) {
	var records []*core.ManualRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(manualRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.ManualRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalManualRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				records = append(records, record)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b *core.ManualRecord) int {
		return strings.Compare(a.ProductName, b.ProductName)
	})
	return records, nil
}

// MarkCompleted transitions the record to Completed and stores its index
// location.
func (r *ManualRegistry) MarkCompleted(ctx context.Context, record *core.ManualRecord, indexLocation string) error {
	record.Status = core.StatusCompleted
	record.IndexLocation = indexLocation
	return r.update(record)
}

// MarkFailed transitions the record to Failed.
func (r *ManualRegistry) MarkFailed(ctx context.Context, record *core.ManualRecord) error {
	record.Status = core.StatusFailed
	return r.update(record)
}

func (r *ManualRegistry) update(record *core.ManualRecord) error {
	record.UpdatedAt = time.Now().UTC()

	return r.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := r.readByName(tx, record.ProductName)
		if err != nil {
			return err
		}
		if existing == nil {
			return storage.ErrNotFound
		}
		if err := r.writeRecord(tx, record); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readByName resolves a record through the product-name index.
// Returns nil without error when no record exists.
func (r *ManualRegistry) readByName(tx *badger.Txn, normalizedName string) (*core.ManualRecord, error) {
	item, err := tx.Get(makeManualNameKey(normalizedName))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var id core.ID
	if err := item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	}); err != nil {
		return nil, err
	}

	item, err = tx.Get(makeManualRecordKey(uint64(id)))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.ManualRecord
	if err := item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalManualRecord(val)
		return err
	}); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *ManualRegistry) writeRecord(tx *badger.Txn, record *core.ManualRecord) error {
	if err := core.ValidateManualRecord(record); err != nil {
		return err
	}
	return tx.Set(makeManualRecordKey(uint64(record.Id)), storage.MarshalManualRecord(record))
}
