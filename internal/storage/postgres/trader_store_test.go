package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage/postgres"
)

func TestTraderStore_UpsertOverwrites(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewTraderStore(pool)

	first := &domain.Trader{
		TraderID:       123,
		Server:         "OldServer",
		AlgoTradingPct: 10,
		URL:            domain.ProfileURL(123),
		LastUpdated:    time.Now().UTC(),
	}
	require.NoError(t, store.UpsertTraders(ctx, []*domain.Trader{first}))

	second := &domain.Trader{
		TraderID:       123,
		Server:         "NewServer",
		AlgoTradingPct: 85,
		URL:            domain.ProfileURL(123),
		LastUpdated:    time.Now().UTC(),
	}
	require.NoError(t, store.UpsertTraders(ctx, []*domain.Trader{second}))

	var server string
	var algoPct int
	err := pool.QueryRow(ctx,
		`SELECT server, algo_trading_pct FROM raw_data.traders WHERE trader_id = $1`, 123,
	).Scan(&server, &algoPct)
	require.NoError(t, err)
	require.Equal(t, "NewServer", server)
	require.Equal(t, 85, algoPct)

	var count int
	err = pool.QueryRow(ctx, `SELECT count(*) FROM raw_data.traders`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count, "upsert must not create a second row")
}

func TestTraderStore_EmptyBatchIsNoop(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTraderStore(pool)
	require.NoError(t, store.UpsertTraders(context.Background(), nil))
}
