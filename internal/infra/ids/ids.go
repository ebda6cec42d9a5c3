// Package ids generates record identifiers.
package ids

import (
	"github.com/google/uuid"

	"github.com/runoshun/taskflow/internal/domain"
)

// Ensure UUID implements domain.IDGenerator.
var _ domain.IDGenerator = UUID{}

// UUID generates random (version 4) UUIDs.
type UUID struct{}

// NewID returns a new UUID string.
func (UUID) NewID() string {
	return uuid.NewString()
}
