package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/taskflow/internal/domain"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	DataDir string // Path to the .taskflow directory
}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	DataDir            string // Path to the data directory
	AlreadyInitialized bool   // True if the store already existed
}

// InitStore initializes the data directory and the store.
type InitStore struct {
	storeInit domain.StoreInitializer
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer) *InitStore {
	return &InitStore{storeInit: storeInit}
}

// Execute creates the data directory with its logs directory and an empty
// store. Running it on an initialized store returns domain.ErrAlreadyInitialized.
func (uc *InitStore) Execute(_ context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	if uc.storeInit.IsInitialized() {
		return &InitStoreOutput{DataDir: in.DataDir, AlreadyInitialized: true}, domain.ErrAlreadyInitialized
	}

	if in.DataDir != "" {
		if err := os.MkdirAll(filepath.Join(in.DataDir, "logs"), 0o750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	if _, err := uc.storeInit.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return &InitStoreOutput{DataDir: in.DataDir}, nil
}
