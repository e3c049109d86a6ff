package memory

import (
	"context"
	"sync"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.Trade
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{data: make(map[int64]*domain.Trade)}
}

// ExistingPositionIDs returns the position ids already stored for the given traders.
func (s *TradeStore) ExistingPositionIDs(_ context.Context, traderIDs []int) (map[int64]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int]struct{}, len(traderIDs))
	for _, id := range traderIDs {
		wanted[id] = struct{}{}
	}

	existing := make(map[int64]struct{})
	for id, t := range s.data {
		if _, ok := wanted[t.TraderID]; ok {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

// InsertTrades inserts trades, silently skipping position id conflicts.
func (s *TradeStore) InsertTrades(_ context.Context, trades []*domain.Trade) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var inserted int64
	for _, t := range trades {
		if t == nil || t.PositionID == 0 {
			return 0, storage.ErrInvalidInput
		}
		if _, exists := s.data[t.PositionID]; exists {
			continue
		}
		cp := *t
		s.data[t.PositionID] = &cp
		inserted++
	}
	return inserted, nil
}

// Count returns the number of stored trades. Test helper.
func (s *TradeStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Get returns a stored trade, or nil when absent. Test helper.
func (s *TradeStore) Get(positionID int64) *domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[positionID]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

var _ storage.TradeStore = (*TradeStore)(nil)
