// Command analyzer consumes trade change events from the broker, maintains
// rolling per-trader state in Redis, and writes per-trade analytics to
// ClickHouse. It runs until interrupted.
package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/im-mahdi-74/FX-Cortex/internal/analytics"
	"github.com/im-mahdi-74/FX-Cortex/internal/config"
	"github.com/im-mahdi-74/FX-Cortex/internal/faulttolerance"
	"github.com/im-mahdi-74/FX-Cortex/internal/observability"
	chstore "github.com/im-mahdi-74/FX-Cortex/internal/storage/clickhouse"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage/migrations"
	redisstore "github.com/im-mahdi-74/FX-Cortex/internal/storage/redis"
	"github.com/im-mahdi-74/FX-Cortex/internal/stream"
)

func main() {
	cfg := config.Load()

	redisAddr := flag.String("redis-addr", cfg.RedisAddr, "Redis address")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string")
	brokers := flag.String("brokers", strings.Join(cfg.KafkaBrokers, ","), "Comma-separated broker addresses")
	topic := flag.String("topic", cfg.KafkaTopic, "Trade change event topic")
	groupID := flag.String("group-id", cfg.KafkaGroupID, "Consumer group id")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	log := newLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := observability.NewMetrics("", prometheus.DefaultRegisterer)
	if *metricsAddr != "" {
		go serveMetrics(log, *metricsAddr)
	}

	redisClient := faulttolerance.Connect(ctx, log, "redis", faulttolerance.Config{}, func() (*goredis.Client, error) {
		return redisstore.NewClient(ctx, *redisAddr)
	})
	defer redisClient.Close()

	chConn := faulttolerance.Connect(ctx, log, "clickhouse", faulttolerance.Config{}, func() (*chstore.Conn, error) {
		return migrations.RunClickhouse(ctx, *clickhouseDSN)
	})
	defer chConn.Close()
	log.Info("analytical schema is ready")

	// Probe the broker before subscribing so startup fails fast with the
	// same retry schedule as the stores.
	brokerList := strings.Split(*brokers, ",")
	faulttolerance.Connect(ctx, log, "kafka", faulttolerance.Config{}, func() (struct{}, error) {
		conn, err := kafka.DialContext(ctx, "tcp", brokerList[0])
		if err != nil {
			return struct{}{}, err
		}
		conn.Close()
		return struct{}{}, nil
	})

	processor, err := analytics.NewProcessor(analytics.ProcessorOptions{
		States:    redisstore.NewStateStore(redisClient, log),
		Mirror:    chstore.NewMirrorStore(chConn),
		Analytics: chstore.NewAnalyticsStore(chConn),
		Logger:    log,
		Metrics:   metrics,
	})
	if err != nil {
		log.WithError(err).Fatal("invalid processor configuration")
	}

	reader := stream.NewReader(stream.ReaderOptions{
		Brokers: brokerList,
		Topic:   *topic,
		GroupID: *groupID,
	})

	consumer := stream.NewConsumer(reader, processor, log)
	if err := consumer.Run(ctx); err != nil {
		log.WithError(err).Fatal("consumer terminated")
	}
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
