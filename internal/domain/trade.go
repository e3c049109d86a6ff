package domain

import "time"

// Trade represents one closed position.
// Corresponds to the raw_data.trades table in PostgreSQL and to the
// analysis_results.trades_mirror table in ClickHouse.
type Trade struct {
	PositionID int64 // deterministic content hash, primary key
	TraderID   int   // FK to raw_data.traders
	Symbol     string
	Type       string // "Buy" | "Sell"
	Volume     float64
	OpenTime   time.Time
	OpenPrice  float64
	CloseTime  time.Time
	ClosePrice float64
	Commission float64
	Swap       float64
	Profit     float64
}

// Trade direction constants as they appear in broker exports.
const (
	TradeTypeBuy  = "Buy"
	TradeTypeSell = "Sell"
)
