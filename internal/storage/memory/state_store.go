package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage"
)

// StateStore is an in-memory implementation of storage.StateStore.
// State is stored as the JSON it would occupy in Redis, so tests exercise the
// same serialization round-trip as production.
type StateStore struct {
	mu   sync.RWMutex
	data map[int][]byte

	gets int
	sets int
}

// NewStateStore creates a new in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{data: make(map[int][]byte)}
}

// GetState returns the rolling state for a trader, or (nil, nil) when absent.
func (s *StateStore) GetState(_ context.Context, traderID int) (*domain.TraderState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gets++
	raw, ok := s.data[traderID]
	if !ok {
		return nil, nil
	}

	var state domain.TraderState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, nil
	}
	return &state, nil
}

// SetState overwrites the rolling state for a trader.
func (s *StateStore) SetState(_ context.Context, traderID int, state *domain.TraderState) error {
	if state == nil {
		return storage.ErrInvalidInput
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	s.data[traderID] = raw
	return nil
}

// Ops returns the number of get and set calls observed. Test helper.
func (s *StateStore) Ops() (gets, sets int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gets, s.sets
}

var _ storage.StateStore = (*StateStore)(nil)
