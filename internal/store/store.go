// Package store persists the operational snapshot as one logical document.
// Every driver implements whole-document semantics: Load returns the full
// set of collections, Save replaces it. Malformed stored content fails with
// STORE_UNAVAILABLE and never degrades to an empty snapshot.
package store

import (
	"context"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
)

// Store is the state store adapter contract.
type Store interface {
	// Load returns a freshly decoded snapshot. A store with no document yet
	// returns an empty snapshot; an unreadable or malformed document fails.
	Load(ctx context.Context) (*models.Snapshot, error)
	// Save atomically replaces the stored document.
	Save(ctx context.Context, snap *models.Snapshot) error
}
