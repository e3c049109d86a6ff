package domain

import (
	"fmt"
	"time"
)

// Trader represents one tracked signal provider.
// Corresponds to the raw_data.traders table in PostgreSQL.
type Trader struct {
	TraderID       int       // external platform numeric id, primary key
	Server         string    // broker server the history was exported from
	AlgoTradingPct int       // reported share of automated activity, 0-100
	URL            string    // public profile URL, derived from TraderID
	LastUpdated    time.Time // refreshed on every upsert
}

// ProfileURL derives the public signal page for a trader id.
func ProfileURL(traderID int) string {
	return fmt.Sprintf("https://www.mql5.com/en/signals/%d", traderID)
}
