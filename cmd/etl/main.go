// Command etl runs one batch import of trading history exports into the
// relational warehouse, then exits.
package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/im-mahdi-74/FX-Cortex/internal/config"
	"github.com/im-mahdi-74/FX-Cortex/internal/etl"
	"github.com/im-mahdi-74/FX-Cortex/internal/observability"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage/migrations"
	pgstore "github.com/im-mahdi-74/FX-Cortex/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	dir := flag.String("dir", cfg.RawFilesDir, "Directory scanned for *.positions.csv export files")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	maxWorkers := flag.Int("max-workers", cfg.MaxWorkers, "Maximum parallel file parsers")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	log := newLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := observability.NewMetrics("", prometheus.DefaultRegisterer)
	if *metricsAddr != "" {
		go serveMetrics(log, *metricsAddr)
	}

	started := time.Now()
	log.WithField("dir", *dir).Info("batch import starting")

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	if err := migrations.RunPostgres(ctx, pool); err != nil {
		log.WithError(err).Fatal("failed to prepare warehouse schema")
	}
	log.Info("warehouse schema is ready")

	runner, err := etl.NewRunner(etl.RunnerOptions{
		Dir:         *dir,
		MaxWorkers:  *maxWorkers,
		TraderStore: pgstore.NewTraderStore(pool),
		TradeStore:  pgstore.NewTradeStore(pool),
		Logger:      log,
		Metrics:     metrics,
	})
	if err != nil {
		log.WithError(err).Fatal("invalid runner configuration")
	}

	res, err := runner.Run(ctx)
	if err != nil {
		log.WithError(err).Fatal("batch import aborted")
	}

	log.WithFields(logrus.Fields{
		"files_found":      res.FilesFound,
		"files_parsed":     res.FilesParsed,
		"files_skipped":    res.FilesSkipped,
		"rows_staged":      res.RowsStaged,
		"traders_upserted": res.TradersUpserted,
		"trades_inserted":  res.TradesInserted,
		"errors":           len(res.Errors),
		"duration":         time.Since(started).Round(time.Millisecond).String(),
	}).Info("batch import finished")
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

func serveMetrics(log *logrus.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	log.WithField("addr", addr).Info("metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("metrics server failed")
	}
}
