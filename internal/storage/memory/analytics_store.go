package memory

import (
	"context"
	"sync"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage"
)

// MirrorStore is an in-memory implementation of storage.MirrorStore.
type MirrorStore struct {
	mu   sync.RWMutex
	rows []*domain.Trade
}

// NewMirrorStore creates a new in-memory mirror store.
func NewMirrorStore() *MirrorStore {
	return &MirrorStore{}
}

// InsertTrade appends one raw trade row.
func (s *MirrorStore) InsertTrade(_ context.Context, t *domain.Trade) error {
	if t == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.rows = append(s.rows, &cp)
	return nil
}

// Rows returns all appended rows in insertion order. Test helper.
func (s *MirrorStore) Rows() []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Trade, len(s.rows))
	for i, t := range s.rows {
		cp := *t
		out[i] = &cp
	}
	return out
}

var _ storage.MirrorStore = (*MirrorStore)(nil)

// AnalyticsStore is an in-memory implementation of storage.AnalyticsStore.
type AnalyticsStore struct {
	mu   sync.RWMutex
	rows []*domain.AnalyticsSnapshot
}

// NewAnalyticsStore creates a new in-memory analytics store.
func NewAnalyticsStore() *AnalyticsStore {
	return &AnalyticsStore{}
}

// InsertSnapshot appends one derived-metrics row.
func (s *AnalyticsStore) InsertSnapshot(_ context.Context, snap *domain.AnalyticsSnapshot) error {
	if snap == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *snap
	s.rows = append(s.rows, &cp)
	return nil
}

// Rows returns all appended snapshots in insertion order. Test helper.
func (s *AnalyticsStore) Rows() []*domain.AnalyticsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.AnalyticsSnapshot, len(s.rows))
	for i, r := range s.rows {
		cp := *r
		out[i] = &cp
	}
	return out
}

var _ storage.AnalyticsStore = (*AnalyticsStore)(nil)
