package clickhouse

import (
	"context"
	"fmt"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage"
)

// MirrorStore implements storage.MirrorStore using ClickHouse.
// trades_mirror is a MergeTree ordered by (trader_id, close_time); rows are
// appended verbatim from the change stream and never mutated.
type MirrorStore struct {
	conn *Conn
}

// NewMirrorStore creates a new MirrorStore.
func NewMirrorStore(conn *Conn) *MirrorStore {
	return &MirrorStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MirrorStore = (*MirrorStore)(nil)

// InsertTrade appends one raw trade row.
func (s *MirrorStore) InsertTrade(ctx context.Context, t *domain.Trade) error {
	if t == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trades_mirror (
			position_id, trader_id, symbol, type, volume,
			open_time, open_price, close_time, close_price,
			commission, swap, profit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		t.PositionID, int32(t.TraderID), t.Symbol, t.Type, t.Volume,
		t.OpenTime, t.OpenPrice, t.CloseTime, t.ClosePrice,
		t.Commission, t.Swap, t.Profit,
	)
	if err != nil {
		return fmt.Errorf("insert trade mirror row: %w", err)
	}
	return nil
}
