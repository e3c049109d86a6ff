// Command seed loads a small sample dataset into the warehouse. Useful for
// smoke-testing the pipeline end to end without real export files.
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/im-mahdi-74/FX-Cortex/internal/config"
	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage/migrations"
	pgstore "github.com/im-mahdi-74/FX-Cortex/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	traderID := flag.Int("trader-id", 12345, "Trader id for the sample rows")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	if err := migrations.RunPostgres(ctx, pool); err != nil {
		log.WithError(err).Fatal("failed to prepare warehouse schema")
	}

	now := time.Now().UTC()
	trader := &domain.Trader{
		TraderID:       *traderID,
		Server:         "sample",
		AlgoTradingPct: 0,
		URL:            domain.ProfileURL(*traderID),
		LastUpdated:    now,
	}
	if err := pgstore.NewTraderStore(pool).UpsertTraders(ctx, []*domain.Trader{trader}); err != nil {
		log.WithError(err).Fatal("failed to upsert sample trader")
	}

	trades := []*domain.Trade{
		{
			PositionID: 999001,
			TraderID:   *traderID,
			Symbol:     "BTCUSD",
			Type:       domain.TradeTypeBuy,
			Volume:     0.1,
			OpenTime:   now.Add(-2 * time.Hour),
			OpenPrice:  60000.0,
			CloseTime:  now,
			ClosePrice: 61000.0,
			Commission: -1.5,
			Swap:       0.0,
			Profit:     100.0,
		},
		{
			PositionID: 999002,
			TraderID:   *traderID,
			Symbol:     "ETHUSD",
			Type:       domain.TradeTypeSell,
			Volume:     1.5,
			OpenTime:   now.Add(-90 * time.Minute),
			OpenPrice:  3000.0,
			CloseTime:  now,
			ClosePrice: 2950.0,
			Commission: -2.0,
			Swap:       -0.5,
			Profit:     -75.0,
		},
	}

	inserted, err := pgstore.NewTradeStore(pool).InsertTrades(ctx, trades)
	if err != nil {
		log.WithError(err).Fatal("failed to insert sample trades")
	}

	log.WithFields(logrus.Fields{
		"trader_id": *traderID,
		"inserted":  inserted,
	}).Info("sample data loaded")
}
