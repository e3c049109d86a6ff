package idhash

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// PositionID computes the deterministic warehouse identity of a closed position.
// Formula: MD5(trader_id + "_" + raw_open_time + "_" + symbol + "_" + open_price),
// first 15 hex characters parsed base-16. 15 nibbles keep the value inside a
// signed BIGINT; the residual collision risk is accepted.
//
// openTimeRaw is the open-time cell exactly as exported, not a parsed timestamp.
// The hash is over the original bytes, so re-ingesting the same file always
// reproduces the same id.
func PositionID(traderID int, openTimeRaw, symbol string, openPrice float64) int64 {
	input := fmt.Sprintf("%d_%s_%s_%s", traderID, openTimeRaw, symbol, formatPrice(openPrice))
	sum := md5.Sum([]byte(input))
	digest := hex.EncodeToString(sum[:])

	// 15 hex nibbles always fit in 60 bits, ParseInt cannot fail here.
	id, _ := strconv.ParseInt(digest[:15], 16, 64)
	return id
}

// formatPrice renders the price exactly as the loader that populated the
// warehouse did: shortest round-trip decimal, integral values keep a
// trailing ".0" (2000.0 hashes as "2000.0", not "2000"), and magnitudes
// at or above 1e16 or below 1e-4 switch to exponent form.
func formatPrice(p float64) string {
	sci := strconv.FormatFloat(p, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp >= 16 || exp < -4 {
		return sci
	}
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
