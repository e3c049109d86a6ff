package analytics

import (
	"fmt"
	"time"
)

// OpCreate marks an insert in the change-capture envelope. Only creates
// feed the analytics; updates and deletes are ignored.
const OpCreate = "c"

// Envelope is the outer change-capture message published for each new
// warehouse row.
type Envelope struct {
	Payload *Payload `json:"payload"`
}

// Payload carries the operation type and the row image after the change.
type Payload struct {
	Op    string      `json:"op"`
	After *TradeEvent `json:"after"`
}

// TradeEvent is the captured trade row. Timestamps arrive as ISO-8601
// strings in UTC.
type TradeEvent struct {
	PositionID int64   `json:"position_id"`
	TraderID   int     `json:"trader_id"`
	Symbol     string  `json:"symbol"`
	Type       string  `json:"type"`
	Volume     float64 `json:"volume"`
	OpenTime   string  `json:"open_time"`
	OpenPrice  float64 `json:"open_price"`
	CloseTime  string  `json:"close_time"`
	ClosePrice float64 `json:"close_price"`
	Commission float64 `json:"commission"`
	Swap       float64 `json:"swap"`
	Profit     float64 `json:"profit"`
}

// Times parses the open and close timestamps.
func (e *TradeEvent) Times() (open, close time.Time, err error) {
	open, err = time.Parse(time.RFC3339, e.OpenTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse open_time %q: %w", e.OpenTime, err)
	}
	close, err = time.Parse(time.RFC3339, e.CloseTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse close_time %q: %w", e.CloseTime, err)
	}
	return open, close, nil
}
