package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/observability"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage"
)

// ProcessorOptions configures a stream processor.
type ProcessorOptions struct {
	States    storage.StateStore
	Mirror    storage.MirrorStore
	Analytics storage.AnalyticsStore
	Logger    *logrus.Logger
	Metrics   *observability.Metrics
}

// Processor consumes change events for closed trades, folds each one into
// the trader's rolling state, and emits a per-trade analytics snapshot.
type Processor struct {
	states    storage.StateStore
	mirror    storage.MirrorStore
	analytics storage.AnalyticsStore
	log       *logrus.Logger
	metrics   *observability.Metrics
}

// NewProcessor creates a stream processor.
func NewProcessor(opts ProcessorOptions) (*Processor, error) {
	if opts.States == nil || opts.Mirror == nil || opts.Analytics == nil {
		return nil, fmt.Errorf("state, mirror and analytics stores are required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetrics("", nil)
	}
	return &Processor{
		states:    opts.States,
		mirror:    opts.Mirror,
		analytics: opts.Analytics,
		log:       opts.Logger,
		metrics:   opts.Metrics,
	}, nil
}

// HandleEvent processes one raw message value. Malformed or irrelevant
// events are dropped; processing errors are logged with the offending
// payload and swallowed so one bad event never stalls the stream.
func (p *Processor) HandleEvent(ctx context.Context, value []byte) {
	started := time.Now()
	p.metrics.EventsConsumed.Inc()

	var env Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		p.metrics.EventsDropped.WithLabelValues("malformed").Inc()
		p.log.WithError(err).WithField("payload", string(value)).Error("dropping malformed change event")
		return
	}
	if env.Payload == nil || env.Payload.Op != OpCreate || env.Payload.After == nil {
		p.metrics.EventsDropped.WithLabelValues("not_create").Inc()
		return
	}

	if err := p.processTrade(ctx, env.Payload.After); err != nil {
		p.metrics.EventsDropped.WithLabelValues("error").Inc()
		p.log.WithError(err).WithField("payload", string(value)).Error("failed to process trade event")
		return
	}

	p.metrics.EventLatency.Observe(time.Since(started).Seconds())
}

func (p *Processor) processTrade(ctx context.Context, ev *TradeEvent) error {
	openTime, closeTime, err := ev.Times()
	if err != nil {
		return err
	}

	trade := &domain.Trade{
		PositionID: ev.PositionID,
		TraderID:   ev.TraderID,
		Symbol:     ev.Symbol,
		Type:       ev.Type,
		Volume:     ev.Volume,
		OpenTime:   openTime,
		OpenPrice:  ev.OpenPrice,
		CloseTime:  closeTime,
		ClosePrice: ev.ClosePrice,
		Commission: ev.Commission,
		Swap:       ev.Swap,
		Profit:     ev.Profit,
	}
	if err := p.mirror.InsertTrade(ctx, trade); err != nil {
		p.metrics.StoreErrors.WithLabelValues("mirror", "insert").Inc()
		return fmt.Errorf("mirror trade %d: %w", ev.PositionID, err)
	}

	state, err := p.states.GetState(ctx, ev.TraderID)
	if err != nil {
		p.metrics.StoreErrors.WithLabelValues("state", "get").Inc()
		return fmt.Errorf("load state for trader %d: %w", ev.TraderID, err)
	}
	if state == nil {
		state = &domain.TraderState{}
	}

	foldTrade(state, ev, closeTime.Sub(openTime))
	snapshot := deriveSnapshot(state, ev, closeTime)

	if err := p.states.SetState(ctx, ev.TraderID, state); err != nil {
		p.metrics.StoreErrors.WithLabelValues("state", "set").Inc()
		return fmt.Errorf("save state for trader %d: %w", ev.TraderID, err)
	}
	if err := p.analytics.InsertSnapshot(ctx, snapshot); err != nil {
		p.metrics.StoreErrors.WithLabelValues("analytics", "insert").Inc()
		return fmt.Errorf("store snapshot for trade %d: %w", ev.PositionID, err)
	}
	p.metrics.SnapshotsStored.Inc()

	p.log.WithFields(logrus.Fields{
		"trade_id":  ev.PositionID,
		"trader_id": ev.TraderID,
	}).Info("processed and stored trade")
	return nil
}

// foldTrade applies one closed trade to the rolling state. A break-even
// trade counts toward totals and equity but touches neither the win count
// nor the loss accumulator.
func foldTrade(state *domain.TraderState, ev *TradeEvent, holding time.Duration) {
	state.TotalTrades++
	state.TotalProfitUSD += ev.Profit

	if state.TotalProfitUSD > state.PeakEquity {
		state.PeakEquity = state.TotalProfitUSD
	}
	if drawdown := state.PeakEquity - state.TotalProfitUSD; drawdown > state.MaxDrawdown {
		state.MaxDrawdown = drawdown
	}

	switch {
	case ev.Profit > 0:
		state.Wins++
		state.TotalProfitPositive += ev.Profit
	case ev.Profit < 0:
		state.TotalLossNegative += -ev.Profit
	}

	state.TotalHoldingTimeSeconds += holding.Seconds()
	state.Volumes = appendBounded(state.Volumes, ev.Volume)
	state.Symbols = appendBounded(state.Symbols, ev.Symbol)
}

func appendBounded[T any](window []T, v T) []T {
	window = append(window, v)
	if len(window) > domain.StateWindowSize {
		window = window[1:]
	}
	return window
}

// deriveSnapshot computes the analytical features from the updated state.
// A trader with no losses yet gets the 999.0 profit factor sentinel.
func deriveSnapshot(state *domain.TraderState, ev *TradeEvent, closeTime time.Time) *domain.AnalyticsSnapshot {
	snap := &domain.AnalyticsSnapshot{
		TradeID:        ev.PositionID,
		TraderID:       ev.TraderID,
		CloseTime:      closeTime,
		TotalTrades:    state.TotalTrades,
		TotalProfitUSD: state.TotalProfitUSD,
		ProfitFactor:   999.0,
		SymbolEntropy:  Entropy(state.Symbols),
		AvgVolume:      Mean(state.Volumes),
		StdDevVolume:   StdDev(state.Volumes),
		MaxDrawdownUSD: state.MaxDrawdown,
	}
	if state.TotalTrades > 0 {
		snap.WinRate = float64(state.Wins) / float64(state.TotalTrades)
		snap.AvgProfitPerTrade = state.TotalProfitUSD / float64(state.TotalTrades)
		snap.AvgHoldingTimeHours = state.TotalHoldingTimeSeconds / float64(state.TotalTrades) / 3600
	}
	if state.TotalLossNegative > 0 {
		snap.ProfitFactor = state.TotalProfitPositive / state.TotalLossNegative
	}
	return snap
}
