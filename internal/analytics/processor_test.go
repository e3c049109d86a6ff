package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage/memory"
)

type processorFixture struct {
	proc      *Processor
	states    *memory.StateStore
	mirror    *memory.MirrorStore
	analytics *memory.AnalyticsStore
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	states := memory.NewStateStore()
	mirror := memory.NewMirrorStore()
	analytics := memory.NewAnalyticsStore()

	proc, err := NewProcessor(ProcessorOptions{
		States:    states,
		Mirror:    mirror,
		Analytics: analytics,
		Logger:    log,
	})
	require.NoError(t, err)

	return &processorFixture{proc: proc, states: states, mirror: mirror, analytics: analytics}
}

func createEvent(t *testing.T, traderID int, positionID int64, symbol string, volume, profit float64) []byte {
	t.Helper()
	env := Envelope{Payload: &Payload{
		Op: OpCreate,
		After: &TradeEvent{
			PositionID: positionID,
			TraderID:   traderID,
			Symbol:     symbol,
			Type:       "Buy",
			Volume:     volume,
			OpenTime:   "2023-05-01T10:00:00Z",
			OpenPrice:  1.07,
			CloseTime:  "2023-05-01T12:00:00Z",
			ClosePrice: 1.08,
			Profit:     profit,
		},
	}}
	data, err := json.Marshal(env)
	require.NoError(t, err)
	return data
}

func TestProcessorStateEvolution(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	f.proc.HandleEvent(ctx, createEvent(t, 7, 1, "EURUSD", 0.5, 50.0))
	f.proc.HandleEvent(ctx, createEvent(t, 7, 2, "GBPUSD", 1.0, -30.0))
	f.proc.HandleEvent(ctx, createEvent(t, 7, 3, "EURUSD", 2.0, 100.0))

	state, err := f.states.GetState(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, state)

	require.Equal(t, 3, state.TotalTrades)
	require.Equal(t, 2, state.Wins)
	require.InDelta(t, 120.0, state.TotalProfitUSD, 1e-9)
	require.InDelta(t, 150.0, state.TotalProfitPositive, 1e-9)
	require.InDelta(t, 30.0, state.TotalLossNegative, 1e-9)
	require.InDelta(t, 120.0, state.PeakEquity, 1e-9)
	// Equity went 50 -> 20 -> 120; the worst dip below peak was 30.
	require.InDelta(t, 30.0, state.MaxDrawdown, 1e-9)
	// Each trade was held for two hours.
	require.InDelta(t, 3*7200.0, state.TotalHoldingTimeSeconds, 1e-9)
	require.Equal(t, []float64{0.5, 1.0, 2.0}, state.Volumes)
	require.Equal(t, []string{"EURUSD", "GBPUSD", "EURUSD"}, state.Symbols)

	require.Len(t, f.mirror.Rows(), 3)

	snaps := f.analytics.Rows()
	require.Len(t, snaps, 3)
	last := snaps[2]
	require.Equal(t, int64(3), last.TradeID)
	require.Equal(t, 7, last.TraderID)
	require.Equal(t, 3, last.TotalTrades)
	require.InDelta(t, 2.0/3.0, last.WinRate, 1e-9)
	require.InDelta(t, 5.0, last.ProfitFactor, 1e-9)
	require.InDelta(t, 40.0, last.AvgProfitPerTrade, 1e-9)
	require.InDelta(t, 2.0, last.AvgHoldingTimeHours, 1e-9)
	require.InDelta(t, 0.9182958340544896, last.SymbolEntropy, 1e-12)
	require.InDelta(t, 30.0, last.MaxDrawdownUSD, 1e-9)
	require.Equal(t, time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC), last.CloseTime)
}

func TestProcessorIgnoresNonCreateOps(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	update := []byte(`{"payload":{"op":"u","after":{"position_id":1,"trader_id":7}}}`)
	f.proc.HandleEvent(ctx, update)

	empty := []byte(`{"payload":null}`)
	f.proc.HandleEvent(ctx, empty)

	noAfter := []byte(`{"payload":{"op":"c"}}`)
	f.proc.HandleEvent(ctx, noAfter)

	gets, sets := f.states.Ops()
	require.Zero(t, gets, "ignored events must not read state")
	require.Zero(t, sets, "ignored events must not write state")
	require.Empty(t, f.mirror.Rows())
	require.Empty(t, f.analytics.Rows())
}

func TestProcessorMalformedEvent(t *testing.T) {
	f := newProcessorFixture(t)

	f.proc.HandleEvent(context.Background(), []byte(`{not json`))

	gets, sets := f.states.Ops()
	require.Zero(t, gets)
	require.Zero(t, sets)
	require.Empty(t, f.mirror.Rows())
}

func TestProcessorProfitFactorSentinel(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	f.proc.HandleEvent(ctx, createEvent(t, 7, 1, "EURUSD", 0.5, 50.0))

	snaps := f.analytics.Rows()
	require.Len(t, snaps, 1)
	require.InDelta(t, 999.0, snaps[0].ProfitFactor, 1e-9)
	require.InDelta(t, 1.0, snaps[0].WinRate, 1e-9)
}

func TestProcessorBreakEvenTrade(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	f.proc.HandleEvent(ctx, createEvent(t, 7, 1, "EURUSD", 0.5, 0.0))

	state, err := f.states.GetState(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, 1, state.TotalTrades)
	require.Zero(t, state.Wins)
	require.Zero(t, state.TotalProfitPositive)
	require.Zero(t, state.TotalLossNegative)

	snaps := f.analytics.Rows()
	require.Len(t, snaps, 1)
	require.Zero(t, snaps[0].WinRate)
	require.InDelta(t, 999.0, snaps[0].ProfitFactor, 1e-9)
}

func TestProcessorWindowEviction(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	for i := 0; i < domain.StateWindowSize+5; i++ {
		symbol := fmt.Sprintf("SYM%d", i)
		f.proc.HandleEvent(ctx, createEvent(t, 7, int64(i+1), symbol, float64(i), 1.0))
	}

	state, err := f.states.GetState(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, state)

	require.Len(t, state.Volumes, domain.StateWindowSize)
	require.Len(t, state.Symbols, domain.StateWindowSize)
	// The five oldest entries were evicted in arrival order.
	require.Equal(t, "SYM5", state.Symbols[0])
	require.InDelta(t, 5.0, state.Volumes[0], 1e-9)
	// Lifetime aggregates keep counting past the window.
	require.Equal(t, domain.StateWindowSize+5, state.TotalTrades)
}

func TestProcessorUnparseableTimesLeaveStateUntouched(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	env := Envelope{Payload: &Payload{
		Op: OpCreate,
		After: &TradeEvent{
			PositionID: 1,
			TraderID:   7,
			Symbol:     "EURUSD",
			OpenTime:   "2023.05.01 10:00:00",
			CloseTime:  "2023.05.01 12:00:00",
		},
	}}
	data, err := json.Marshal(env)
	require.NoError(t, err)

	f.proc.HandleEvent(ctx, data)

	_, sets := f.states.Ops()
	require.Zero(t, sets)
	require.Empty(t, f.mirror.Rows())
	require.Empty(t, f.analytics.Rows())
}
