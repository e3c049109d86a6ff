package clickhouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a ClickHouse container, creates the analytical tables
// and returns a connection. The cleanup function must be called after tests
// complete.
func setupTestDB(t *testing.T) (*Conn, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.1-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Application: Ready for connections").
				WithStartupTimeout(60*time.Second),
			wait.ForListeningPort("9000/tcp"),
		),
		Env: map[string]string{
			"CLICKHOUSE_DB":       "test",
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "",
		},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	dsn := fmt.Sprintf("clickhouse://%s:%s/test", host, port.Port())
	conn, err := NewConn(ctx, dsn)
	require.NoError(t, err)

	createTables(t, conn)

	cleanup := func() {
		conn.Close()
		_ = container.Terminate(ctx)
	}
	return conn, cleanup
}

// createTables applies the analytical schema inline. Kept in sync with the
// embedded schema files in the migrations package; duplicated here because
// that package imports this one.
func createTables(t *testing.T, conn *Conn) {
	t.Helper()
	ctx := context.Background()

	err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS trades_mirror (
			position_id Int64,
			trader_id   Int32,
			symbol      String,
			type        String,
			volume      Float64,
			open_time   DateTime,
			open_price  Float64,
			close_time  DateTime,
			close_price Float64,
			commission  Float64,
			swap        Float64,
			profit      Float64
		) ENGINE = MergeTree()
		ORDER BY (trader_id, close_time)
	`)
	require.NoError(t, err)

	err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS trade_analytics (
			trade_id               Int64,
			trader_id              Int32,
			close_time             DateTime,
			total_trades           Int32,
			win_rate               Float32,
			profit_factor          Float32,
			total_profit_usd       Float64,
			avg_profit_per_trade   Float64,
			avg_holding_time_hours Float64,
			symbol_entropy         Float32,
			avg_volume             Float64,
			std_dev_volume         Float64,
			max_drawdown_usd       Float64
		) ENGINE = MergeTree()
		ORDER BY (trader_id, close_time)
	`)
	require.NoError(t, err)
}
