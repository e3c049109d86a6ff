package etl

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrUnrecognizedFilename is returned for files whose name does not follow
// the export convention. Callers skip these rather than failing the batch.
var ErrUnrecognizedFilename = errors.New("unrecognized export filename")

// SchemaError reports an export file whose header is missing a required
// column occurrence.
type SchemaError struct {
	Path   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("file %s: missing required column %q", e.Path, e.Column)
}

// Row is one trade line lifted out of an export file, joined with the
// trader metadata from the filename. Numeric and time fields are pointers
// because exports occasionally carry unparseable cells; coercion failures
// become nil instead of aborting the file.
type Row struct {
	TraderID int
	Server   string
	AlgoPct  int

	Symbol       string
	Type         string
	OpenTimeRaw  string
	CloseTimeRaw string

	Volume     *float64
	OpenPrice  *float64
	ClosePrice *float64
	Commission *float64
	Swap       *float64
	Profit     *float64

	PositionID int64
	OpenTime   *time.Time
	CloseTime  *time.Time
}

// columnRef addresses a header column by name and occurrence index, since
// export headers repeat Time and Price for the open and close legs.
type columnRef struct {
	name       string
	occurrence int
}

// Position identity is derived from the open leg, so those columns are hard
// requirements. Everything else degrades to nil when absent.
var requiredColumns = map[string]columnRef{
	"open_time":  {"Time", 0},
	"type":       {"Type", 0},
	"symbol":     {"Symbol", 0},
	"open_price": {"Price", 0},
}

var optionalColumns = map[string]columnRef{
	"volume":      {"Volume", 0},
	"close_time":  {"Time", 1},
	"close_price": {"Price", 1},
	"commission":  {"Commission", 0},
	"swap":        {"Swap", 0},
	"profit":      {"Profit", 0},
}

// ParseFile reads one semicolon-delimited export file and returns its trade
// rows. Balance rows (deposits and withdrawals) are dropped. The returned
// rows carry raw time strings; time parsing happens later so the raw open
// time string stays available for position identity.
func ParseFile(path string) ([]*Row, error) {
	meta, ok := ParseFilename(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedFilename, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read export file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, &SchemaError{Path: path, Column: "Time"}
	}

	index, err := mapHeader(path, records[0])
	if err != nil {
		return nil, err
	}

	var rows []*Row
	for _, record := range records[1:] {
		raw := func(field string) string {
			idx, ok := index[field]
			if !ok || idx >= len(record) {
				return ""
			}
			return record[idx]
		}
		cell := func(field string) string {
			return strings.TrimSpace(raw(field))
		}

		// Exact match on the raw cell, no trimming.
		if raw("type") == "Balance" {
			continue
		}

		rows = append(rows, &Row{
			TraderID:     meta.TraderID,
			Server:       meta.Server,
			AlgoPct:      meta.AlgoPct,
			Symbol:       cell("symbol"),
			Type:         cell("type"),
			OpenTimeRaw:  cell("open_time"),
			CloseTimeRaw: cell("close_time"),
			Volume:       parseFloat(cell("volume")),
			OpenPrice:    parseFloat(cell("open_price")),
			ClosePrice:   parseFloat(cell("close_price")),
			Commission:   parseFloat(cell("commission")),
			Swap:         parseFloat(cell("swap")),
			Profit:       parseFloat(cell("profit")),
		})
	}

	return rows, nil
}

// mapHeader resolves each logical field to its column index, tracking how
// many times each header name has appeared so the second Time and Price
// columns land on the close leg.
func mapHeader(path string, header []string) (map[string]int, error) {
	seen := make(map[string]int)
	position := make(map[columnRef]int)
	for i, name := range header {
		name = strings.TrimSpace(name)
		position[columnRef{name, seen[name]}] = i
		seen[name]++
	}

	index := make(map[string]int, len(requiredColumns)+len(optionalColumns))
	for field, ref := range requiredColumns {
		idx, ok := position[ref]
		if !ok {
			return nil, &SchemaError{Path: path, Column: ref.name}
		}
		index[field] = idx
	}
	for field, ref := range optionalColumns {
		if idx, ok := position[ref]; ok {
			index[field] = idx
		}
	}
	return index, nil
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
