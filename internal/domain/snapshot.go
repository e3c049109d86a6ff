package domain

import "time"

// AnalyticsSnapshot carries a trader's derived metrics as of one processed
// trade. One row per trade event, append-only; together the rows form a time
// series of point-in-time analytics per trader.
// Corresponds to the analysis_results.trade_analytics table in ClickHouse.
type AnalyticsSnapshot struct {
	TradeID             int64 // position id of the trade that produced the snapshot
	TraderID            int
	CloseTime           time.Time
	TotalTrades         int
	WinRate             float64 // wins / total, 0.0 for no trades
	ProfitFactor        float64 // gross positive / gross |negative|, 999.0 when no losses yet
	TotalProfitUSD      float64
	AvgProfitPerTrade   float64
	AvgHoldingTimeHours float64
	SymbolEntropy       float64 // Shannon entropy over the recent symbol window, bits
	AvgVolume           float64
	StdDevVolume        float64
	MaxDrawdownUSD      float64
}
