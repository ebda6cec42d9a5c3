package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/runoshun/taskflow/internal/domain"
)

// storeKeys lists every key the application persists, in copy order.
var storeKeys = []string{
	domain.KeyTasks,
	domain.KeySprints,
	domain.KeySprintHistory,
	domain.KeyActiveSprint,
}

// MigrateStoreInput contains parameters for MigrateStore.
type MigrateStoreInput struct {
	// Force overwrites destination keys holding different data.
	Force bool
}

// MigrateStoreOutput contains migration results.
type MigrateStoreOutput struct {
	Copied  []string // Keys written to the destination
	Skipped []string // Keys already identical or absent in the source
}

// MigrateStore copies every persisted key from one storage backend to another,
// e.g. from the JSON file to Redis.
type MigrateStore struct {
	source   domain.KVStore
	dest     domain.KVStore
	destInit domain.StoreInitializer
}

// NewMigrateStore creates a new MigrateStore use case.
func NewMigrateStore(source, dest domain.KVStore, destInit domain.StoreInitializer) *MigrateStore {
	return &MigrateStore{source: source, dest: dest, destInit: destInit}
}

// Execute copies the keys. Destination keys holding different data fail the
// migration with domain.ErrMigrationConflict unless Force is set; nothing is
// written in that case.
func (uc *MigrateStore) Execute(_ context.Context, in MigrateStoreInput) (*MigrateStoreOutput, error) {
	if uc.destInit == nil {
		return nil, errors.New("destination store initializer is nil")
	}
	if uc.source == nil || uc.dest == nil {
		return nil, errors.New("source or destination store is nil")
	}

	if _, err := uc.destInit.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize destination store: %w", err)
	}

	out := &MigrateStoreOutput{}
	pending := make(map[string][]byte, len(storeKeys))
	for _, key := range storeKeys {
		value, ok, err := uc.source.Get(key)
		if err != nil {
			return nil, fmt.Errorf("read source %s: %w", key, err)
		}
		if !ok {
			out.Skipped = append(out.Skipped, key)
			continue
		}

		existing, found, err := uc.dest.Get(key)
		if err != nil {
			return nil, fmt.Errorf("read destination %s: %w", key, err)
		}
		if found {
			if jsonEqual(value, existing) {
				out.Skipped = append(out.Skipped, key)
				continue
			}
			if !in.Force {
				return nil, fmt.Errorf("%w: %s", domain.ErrMigrationConflict, key)
			}
		}
		pending[key] = value
	}

	for _, key := range storeKeys {
		value, ok := pending[key]
		if !ok {
			continue
		}
		if err := uc.dest.Put(key, value); err != nil {
			return out, fmt.Errorf("write destination %s: %w", key, err)
		}
		out.Copied = append(out.Copied, key)
	}
	return out, nil
}

// jsonEqual compares two JSON documents by value.
func jsonEqual(a, b []byte) bool {
	var va, vb any
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return string(a) == string(b)
	}
	return reflect.DeepEqual(va, vb)
}
