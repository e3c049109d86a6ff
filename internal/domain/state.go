package domain

// StateWindowSize caps the recent-volume and recent-symbol windows.
// Eviction is strict FIFO: entropy and volume statistics are always
// computed over the last 100 trades, never the full history.
const StateWindowSize = 100

// TraderState is the rolling per-trader aggregate persisted in the key-value
// store under trader_state:{trader_id}. The JSON field names are the wire
// contract for that blob and must not change.
type TraderState struct {
	TotalTrades             int       `json:"total_trades"`
	Wins                    int       `json:"wins"`
	TotalProfitUSD          float64   `json:"total_profit_usd"`
	TotalProfitPositive     float64   `json:"total_profit_positive"`
	TotalLossNegative       float64   `json:"total_loss_negative"`
	TotalHoldingTimeSeconds float64   `json:"total_holding_time_seconds"`
	Volumes                 []float64 `json:"volumes"`
	Symbols                 []string  `json:"symbols"`
	PeakEquity              float64   `json:"peak_equity"`
	MaxDrawdown             float64   `json:"max_drawdown"`
}
