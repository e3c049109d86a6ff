package etl

import (
	"path/filepath"
	"regexp"
	"strconv"
)

// Exported files are named {trader_id}_{server}_algo{pct}.positions.csv.
// The server segment cannot contain underscores; anything else is skipped.
var filenamePattern = regexp.MustCompile(`^(\d+)_([^_]+)_algo(\d+)\.positions\.csv$`)

// FileMeta is the trader identity encoded in an export filename.
type FileMeta struct {
	TraderID int
	Server   string
	AlgoPct  int
}

// ParseFilename extracts trader metadata from an export file path.
// Returns false when the base name does not match the export convention.
func ParseFilename(path string) (FileMeta, bool) {
	m := filenamePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return FileMeta{}, false
	}

	traderID, err := strconv.Atoi(m[1])
	if err != nil {
		return FileMeta{}, false
	}
	algoPct, err := strconv.Atoi(m[3])
	if err != nil {
		return FileMeta{}, false
	}

	return FileMeta{TraderID: traderID, Server: m[2], AlgoPct: algoPct}, true
}
