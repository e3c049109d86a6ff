package postgres

import (
	"context"
	"fmt"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage"
)

// TraderStore implements storage.TraderStore using PostgreSQL.
type TraderStore struct {
	pool *Pool
}

// NewTraderStore creates a new TraderStore.
func NewTraderStore(pool *Pool) *TraderStore {
	return &TraderStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TraderStore = (*TraderStore)(nil)

// UpsertTraders overwrites trader metadata in a single transaction.
// Trader rows are a referential prerequisite for trade rows, so a failure
// here must abort the run before any trades are written.
func (s *TraderStore) UpsertTraders(ctx context.Context, traders []*domain.Trader) error {
	if len(traders) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO raw_data.traders (trader_id, server, algo_trading_pct, url, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (trader_id) DO UPDATE SET
			server = EXCLUDED.server,
			algo_trading_pct = EXCLUDED.algo_trading_pct,
			url = EXCLUDED.url,
			last_updated = EXCLUDED.last_updated
	`

	for _, t := range traders {
		if t == nil || t.TraderID == 0 {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			t.TraderID, t.Server, t.AlgoTradingPct, t.URL, t.LastUpdated,
		)
		if err != nil {
			return fmt.Errorf("upsert trader %d: %w", t.TraderID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
