package clickhouse

import (
	"context"
	"fmt"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage"
)

// AnalyticsStore implements storage.AnalyticsStore using ClickHouse.
type AnalyticsStore struct {
	conn *Conn
}

// NewAnalyticsStore creates a new AnalyticsStore.
func NewAnalyticsStore(conn *Conn) *AnalyticsStore {
	return &AnalyticsStore{conn: conn}
}

// Compile-time interface check.
var _ storage.AnalyticsStore = (*AnalyticsStore)(nil)

// InsertSnapshot appends one derived-metrics row. Snapshots are write-once:
// each row is the trader's analytics as of the trade that produced it.
func (s *AnalyticsStore) InsertSnapshot(ctx context.Context, snap *domain.AnalyticsSnapshot) error {
	if snap == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trade_analytics (
			trade_id, trader_id, close_time, total_trades,
			win_rate, profit_factor, total_profit_usd,
			avg_profit_per_trade, avg_holding_time_hours,
			symbol_entropy, avg_volume, std_dev_volume, max_drawdown_usd
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		snap.TradeID, int32(snap.TraderID), snap.CloseTime, int32(snap.TotalTrades),
		float32(snap.WinRate), float32(snap.ProfitFactor), snap.TotalProfitUSD,
		snap.AvgProfitPerTrade, snap.AvgHoldingTimeHours,
		float32(snap.SymbolEntropy), snap.AvgVolume, snap.StdDevVolume, snap.MaxDrawdownUSD,
	)
	if err != nil {
		return fmt.Errorf("insert analytics snapshot: %w", err)
	}
	return nil
}
