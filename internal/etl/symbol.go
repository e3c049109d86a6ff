package etl

import (
	"regexp"
	"strings"
)

var symbolJunk = regexp.MustCompile(`[^A-Z0-9]`)

// NormalizeSymbol uppercases an instrument name and strips separators and
// punctuation, so EUR/USD and eurusd# both collapse to EURUSD.
func NormalizeSymbol(s string) string {
	return symbolJunk.ReplaceAllString(strings.ToUpper(s), "")
}
