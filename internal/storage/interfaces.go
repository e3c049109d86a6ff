package storage

import (
	"context"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
)

// TraderStore provides access to raw_data.traders.
type TraderStore interface {
	// UpsertTraders overwrites trader metadata in a single transaction.
	// On conflict by trader id the existing row is fully replaced.
	UpsertTraders(ctx context.Context, traders []*domain.Trader) error
}

// TradeStore provides access to raw_data.trades. Trade rows are append-only:
// inserted once, never updated.
type TradeStore interface {
	// ExistingPositionIDs returns every position id already stored for the
	// given traders, in one query.
	ExistingPositionIDs(ctx context.Context, traderIDs []int) (map[int64]struct{}, error)

	// InsertTrades bulk-inserts trades in a single transaction, skipping rows
	// whose position id already exists. Returns the number of rows actually
	// written, which may be less than len(trades).
	InsertTrades(ctx context.Context, trades []*domain.Trade) (int64, error)
}

// StateStore provides access to per-trader rolling state in the key-value store.
type StateStore interface {
	// GetState returns the rolling state for a trader, or (nil, nil) when no
	// state exists yet. Corrupt stored state is treated as absent, not fatal.
	GetState(ctx context.Context, traderID int) (*domain.TraderState, error)

	// SetState overwrites the rolling state for a trader.
	SetState(ctx context.Context, traderID int, state *domain.TraderState) error
}

// MirrorStore provides access to the append-only analysis_results.trades_mirror table.
type MirrorStore interface {
	InsertTrade(ctx context.Context, t *domain.Trade) error
}

// AnalyticsStore provides access to the append-only analysis_results.trade_analytics table.
type AnalyticsStore interface {
	InsertSnapshot(ctx context.Context, s *domain.AnalyticsSnapshot) error
}
