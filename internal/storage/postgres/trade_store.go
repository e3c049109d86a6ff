package postgres

import (
	"context"
	"fmt"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// ExistingPositionIDs returns every position id already stored for the given traders.
func (s *TradeStore) ExistingPositionIDs(ctx context.Context, traderIDs []int) (map[int64]struct{}, error) {
	existing := make(map[int64]struct{})
	if len(traderIDs) == 0 {
		return existing, nil
	}

	query := `
		SELECT position_id
		FROM raw_data.trades
		WHERE trader_id = ANY($1)
	`

	rows, err := s.pool.Query(ctx, query, traderIDs)
	if err != nil {
		return nil, fmt.Errorf("query existing position ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan position id: %w", err)
		}
		existing[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate position ids: %w", err)
	}

	return existing, nil
}

// InsertTrades bulk-inserts trades in one transaction. The conflict no-op on
// position_id is a safety net beyond the upfront dedup, covering races with
// concurrent writers. Returns the number of rows actually written.
func (s *TradeStore) InsertTrades(ctx context.Context, trades []*domain.Trade) (int64, error) {
	if len(trades) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO raw_data.trades (
			position_id, trader_id, symbol, type, volume,
			open_time, open_price, close_time, close_price,
			commission, swap, profit
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12
		)
		ON CONFLICT (position_id) DO NOTHING
	`

	var inserted int64
	for _, t := range trades {
		if t == nil || t.PositionID == 0 {
			return 0, storage.ErrInvalidInput
		}
		tag, err := tx.Exec(ctx, query,
			t.PositionID, t.TraderID, t.Symbol, t.Type, t.Volume,
			t.OpenTime, t.OpenPrice, t.CloseTime, t.ClosePrice,
			t.Commission, t.Swap, t.Profit,
		)
		if err != nil {
			return 0, fmt.Errorf("insert trade %d: %w", t.PositionID, err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return inserted, nil
}
