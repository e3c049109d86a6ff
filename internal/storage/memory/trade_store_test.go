package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
)

func TestTradeStore_ConflictSkipped(t *testing.T) {
	ctx := context.Background()
	store := NewTradeStore()

	trade := &domain.Trade{PositionID: 1001, TraderID: 123, Symbol: "EURUSD"}
	inserted, err := store.InsertTrades(ctx, []*domain.Trade{trade})
	require.NoError(t, err)
	require.EqualValues(t, 1, inserted)

	inserted, err = store.InsertTrades(ctx, []*domain.Trade{trade})
	require.NoError(t, err)
	require.EqualValues(t, 0, inserted)
	require.Equal(t, 1, store.Count())
}

func TestTradeStore_ExistingPositionIDsFiltersByTrader(t *testing.T) {
	ctx := context.Background()
	store := NewTradeStore()

	_, err := store.InsertTrades(ctx, []*domain.Trade{
		{PositionID: 1001, TraderID: 123},
		{PositionID: 2001, TraderID: 456},
	})
	require.NoError(t, err)

	existing, err := store.ExistingPositionIDs(ctx, []int{123})
	require.NoError(t, err)
	require.Len(t, existing, 1)
	require.Contains(t, existing, int64(1001))
}

func TestStateStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore()

	state, err := store.GetState(ctx, 123)
	require.NoError(t, err)
	require.Nil(t, state, "missing state must read as absent")

	in := &domain.TraderState{
		TotalTrades:    2,
		Wins:           1,
		TotalProfitUSD: 20,
		Volumes:        []float64{0.1, 0.2},
		Symbols:        []string{"EURUSD", "GBPUSD"},
	}
	require.NoError(t, store.SetState(ctx, 123, in))

	out, err := store.GetState(ctx, 123)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestTraderStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewTraderStore()

	now := time.Now().UTC()
	require.NoError(t, store.UpsertTraders(ctx, []*domain.Trader{
		{TraderID: 123, Server: "Old", AlgoTradingPct: 10, LastUpdated: now},
	}))
	require.NoError(t, store.UpsertTraders(ctx, []*domain.Trader{
		{TraderID: 123, Server: "New", AlgoTradingPct: 90, LastUpdated: now},
	}))

	got := store.Get(123)
	require.NotNil(t, got)
	require.Equal(t, "New", got.Server)
	require.Equal(t, 90, got.AlgoTradingPct)
	require.Equal(t, 1, store.Count())
}
