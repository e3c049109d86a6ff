package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage"
)

func TestMirrorStoreInsertTrade(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewMirrorStore(conn)

	trade := &domain.Trade{
		PositionID: 809456787353308102,
		TraderID:   123,
		Symbol:     "EURUSD",
		Type:       domain.TradeTypeBuy,
		Volume:     0.5,
		OpenTime:   time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC),
		OpenPrice:  1.07,
		CloseTime:  time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
		ClosePrice: 1.08,
		Commission: -1.5,
		Swap:       0,
		Profit:     50.0,
	}
	require.NoError(t, store.InsertTrade(ctx, trade))

	row := conn.QueryRow(ctx, `
		SELECT position_id, symbol, type, volume, profit
		FROM trades_mirror
		WHERE trader_id = 123
	`)

	var (
		positionID int64
		symbol     string
		tradeType  string
		volume     float64
		profit     float64
	)
	require.NoError(t, row.Scan(&positionID, &symbol, &tradeType, &volume, &profit))
	require.Equal(t, trade.PositionID, positionID)
	require.Equal(t, "EURUSD", symbol)
	require.Equal(t, domain.TradeTypeBuy, tradeType)
	require.InDelta(t, 0.5, volume, 1e-9)
	require.InDelta(t, 50.0, profit, 1e-9)
}

func TestMirrorStoreNilTrade(t *testing.T) {
	store := NewMirrorStore(nil)
	require.ErrorIs(t, store.InsertTrade(context.Background(), nil), storage.ErrInvalidInput)
}
