package memory

import (
	"context"
	"sync"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage"
)

// TraderStore is an in-memory implementation of storage.TraderStore.
type TraderStore struct {
	mu   sync.RWMutex
	data map[int]*domain.Trader
}

// NewTraderStore creates a new in-memory trader store.
func NewTraderStore() *TraderStore {
	return &TraderStore{data: make(map[int]*domain.Trader)}
}

// UpsertTraders overwrites trader metadata, matching the warehouse semantics.
func (s *TraderStore) UpsertTraders(_ context.Context, traders []*domain.Trader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range traders {
		if t == nil || t.TraderID == 0 {
			return storage.ErrInvalidInput
		}
		cp := *t
		s.data[t.TraderID] = &cp
	}
	return nil
}

// Get returns a stored trader, or nil when absent. Test helper.
func (s *TraderStore) Get(traderID int) *domain.Trader {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[traderID]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

// Count returns the number of stored traders. Test helper.
func (s *TraderStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ storage.TraderStore = (*TraderStore)(nil)
