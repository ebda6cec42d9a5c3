// Package state holds the in-memory task and sprint collections.
// Every mutating command writes the whole affected collection back to the
// key-value store; there is no diffing or batching window.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// saveJSON marshals v and stores it under key.
func saveJSON(kv domain.KVStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := kv.Put(key, data); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// loadJSON reads key into v. ok is false if the key is absent.
func loadJSON(kv domain.KVStore, key string, v any) (bool, error) {
	data, ok, err := kv.Get(key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// degrade decides whether a load error is reported or replaced by "no value".
// An uninitialized store is reported so callers can ask the user to run init;
// anything else is logged and treated as an empty collection.
func degrade(logger domain.Logger, key string, err error) error {
	if errors.Is(err, domain.ErrNotInitialized) {
		return err
	}
	logger.Error("", "store", fmt.Sprintf("%v (starting with empty %s)", err, key))
	return nil
}

// backupKey names the key an unreadable value of key is copied to.
func backupKey(key string, now time.Time) string {
	return fmt.Sprintf("%s.unreadable-%s", key, now.UTC().Format("20060102T150405Z"))
}

// quarantine copies data to a backup key next to key so the value survives
// the next write of key. It returns the backup key.
func quarantine(kv domain.KVStore, clock domain.Clock, logger domain.Logger, key string, data []byte) (string, error) {
	bk := backupKey(key, clock.Now())
	if err := kv.Put(bk, data); err != nil {
		return "", fmt.Errorf("back up unreadable %s: %w", key, err)
	}
	logger.Warn("", "store", fmt.Sprintf("unreadable %s data saved to %q", key, bk))
	return bk, nil
}
