package faulttolerance

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func fatalTrappingLogger() (*logrus.Logger, *bool) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	exited := false
	log.ExitFunc = func(int) { exited = true }
	return log, &exited
}

func TestConnectFirstAttemptSucceeds(t *testing.T) {
	log, exited := fatalTrappingLogger()

	calls := 0
	got := Connect(context.Background(), log, "redis", Config{}, func() (string, error) {
		calls++
		return "conn", nil
	})

	require.Equal(t, "conn", got)
	require.Equal(t, 1, calls)
	require.False(t, *exited)
}

func TestConnectRetriesThenSucceeds(t *testing.T) {
	log, exited := fatalTrappingLogger()

	calls := 0
	got := Connect(context.Background(), log, "clickhouse", Config{MaxAttempts: 5, Delay: time.Millisecond}, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("refused")
		}
		return 42, nil
	})

	require.Equal(t, 42, got)
	require.Equal(t, 3, calls)
	require.False(t, *exited)
}

func TestConnectExhaustionIsFatal(t *testing.T) {
	log, exited := fatalTrappingLogger()

	calls := 0
	Connect(context.Background(), log, "kafka", Config{MaxAttempts: 4, Delay: time.Millisecond}, func() (int, error) {
		calls++
		return 0, errors.New("refused")
	})

	require.Equal(t, 4, calls)
	require.True(t, *exited)
}
