package memory

import (
	"context"
	"sync"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
)

// Ensure HandoffStore implements the interface.
var _ driven.HandoffStore = (*HandoffStore)(nil)

// HandoffStore is an in-memory implementation of driven.HandoffStore.
type HandoffStore struct {
	mu      sync.RWMutex
	current *domain.Handoff
}

// NewHandoffStore creates a new in-memory hand-off store.
func NewHandoffStore() *HandoffStore {
	return &HandoffStore{}
}

// SaveHandoff replaces the current hand-off.
func (s *HandoffStore) SaveHandoff(_ context.Context, h domain.Handoff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &h
	return nil
}

// LoadHandoff returns the current hand-off, or (nil, nil) when none exists.
func (s *HandoffStore) LoadHandoff(_ context.Context) (*domain.Handoff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, nil
	}
	clone := *s.current
	return &clone, nil
}
