package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

// MemoryStore keeps the encoded document in process memory. It is the test
// backend and doubles as a throwaway dev backend. Load decodes a fresh copy
// every call, so callers never share state through it.
type MemoryStore struct {
	mu  sync.Mutex
	doc []byte
}

// NewMemoryStore builds an in-memory store, optionally seeded.
func NewMemoryStore(seed *models.Snapshot) *MemoryStore {
	s := &MemoryStore{}
	if seed != nil {
		raw, err := json.Marshal(seed)
		if err == nil {
			s.doc = raw
		}
	}
	return s
}

func (s *MemoryStore) Load(_ context.Context) (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.doc) == 0 {
		return models.NewSnapshot(), nil
	}
	snap := models.NewSnapshot()
	if err := json.Unmarshal(s.doc, snap); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "malformed snapshot document")
	}
	return snap, nil
}

func (s *MemoryStore) Save(_ context.Context, snap *models.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "encode snapshot")
	}
	s.mu.Lock()
	s.doc = raw
	s.mu.Unlock()
	return nil
}
