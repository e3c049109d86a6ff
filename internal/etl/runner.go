// Package etl implements the batch import of trading history exports into
// the relational warehouse.
package etl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/idhash"
	"github.com/im-mahdi-74/FX-Cortex/internal/observability"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage"
)

// Export timestamps carry no zone; they are treated as UTC.
const exportTimeLayout = "2006.01.02 15:04:05"

const defaultMaxWorkers = 8

// RunnerOptions configures a batch import run.
type RunnerOptions struct {
	// Dir is scanned non-recursively for *.positions.csv files.
	Dir string
	// MaxWorkers caps the parse pool. Defaults to 8; the pool never
	// exceeds the number of files found.
	MaxWorkers int

	TraderStore storage.TraderStore
	TradeStore  storage.TradeStore

	Logger  *logrus.Logger
	Metrics *observability.Metrics

	// Now stamps trader last_updated values. Defaults to time.Now.
	Now func() time.Time
}

// Result summarizes one batch run.
type Result struct {
	FilesFound      int
	FilesParsed     int
	FilesSkipped    int
	RowsParsed      int
	RowsStaged      int
	TradersUpserted int
	TradesInserted  int64
	Errors          []string
}

// Runner executes the batch import: scan, parse in parallel, clean,
// deduplicate against the warehouse, and load.
type Runner struct {
	opts RunnerOptions
}

// NewRunner creates a batch import runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	if opts.TraderStore == nil || opts.TradeStore == nil {
		return nil, fmt.Errorf("trader and trade stores are required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetrics("", nil)
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = defaultMaxWorkers
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts}, nil
}

// Run performs one full batch import. Parse and load failures are logged
// and recorded in the result rather than aborting the run; the returned
// error is non-nil only for context cancellation or an unusable input
// directory.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	log := r.opts.Logger
	started := time.Now()
	res := &Result{}

	files, err := filepath.Glob(filepath.Join(r.opts.Dir, "*.positions.csv"))
	if err != nil {
		return nil, fmt.Errorf("scan raw files dir: %w", err)
	}
	res.FilesFound = len(files)
	if len(files) == 0 {
		log.WithField("dir", r.opts.Dir).Warn("no export files found, nothing to do")
		return res, nil
	}
	log.WithField("files", len(files)).Info("starting batch import")

	rows := r.parseFiles(ctx, files, res)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.RowsParsed = len(rows)
	if len(rows) == 0 {
		log.Warn("no trade rows could be parsed from any export file")
		return res, nil
	}

	staged := r.transform(rows)
	res.RowsStaged = len(staged)
	r.opts.Metrics.RowsStaged.Add(float64(len(staged)))
	log.WithFields(logrus.Fields{
		"parsed": len(rows),
		"staged": len(staged),
	}).Info("cleaned and transformed rows")
	if len(staged) == 0 {
		return res, nil
	}

	fresh, err := r.filterExisting(ctx, staged, res)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return res, nil
	}
	if len(fresh) == 0 {
		log.Info("no new trades to insert, batch import complete")
		r.opts.Metrics.BatchDuration.Observe(time.Since(started).Seconds())
		return res, nil
	}

	r.load(ctx, fresh, res)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.opts.Metrics.BatchDuration.Observe(time.Since(started).Seconds())
	log.WithFields(logrus.Fields{
		"traders_upserted": res.TradersUpserted,
		"trades_inserted":  res.TradesInserted,
		"duration":         time.Since(started).Round(time.Millisecond).String(),
	}).Info("batch import complete")
	return res, nil
}

// parseFiles fans the file list out over a bounded worker pool and merges
// the per-file rows. Files that fail to parse are skipped and recorded.
func (r *Runner) parseFiles(ctx context.Context, files []string, res *Result) []*Row {
	workers := r.opts.MaxWorkers
	if workers > len(files) {
		workers = len(files)
	}

	type fileResult struct {
		path string
		rows []*Row
		err  error
	}

	jobs := make(chan string)
	results := make(chan fileResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				rows, err := ParseFile(path)
				select {
				case results <- fileResult{path: path, rows: rows, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range files {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var merged []*Row
	for fr := range results {
		if fr.err != nil {
			res.FilesSkipped++
			res.Errors = append(res.Errors, fr.err.Error())
			r.opts.Metrics.FilesSkipped.WithLabelValues(skipReason(fr.err)).Inc()
			r.opts.Logger.WithField("file", fr.path).WithError(fr.err).Error("skipping export file")
			continue
		}
		res.FilesParsed++
		r.opts.Metrics.FilesParsed.Inc()
		r.opts.Logger.WithFields(logrus.Fields{
			"file": fr.path,
			"rows": len(fr.rows),
		}).Info("parsed export file")
		merged = append(merged, fr.rows...)
	}
	return merged
}

func skipReason(err error) string {
	var se *SchemaError
	switch {
	case errors.As(err, &se):
		return "schema"
	case errors.Is(err, ErrUnrecognizedFilename):
		return "filename"
	default:
		return "read"
	}
}

// transform normalizes symbols, parses timestamps, drops rows missing the
// fields that position identity depends on, and assigns position IDs. The
// raw open time string feeds the hash so identity survives reformatting.
func (r *Runner) transform(rows []*Row) []*Row {
	staged := rows[:0]
	for _, row := range rows {
		row.Symbol = NormalizeSymbol(row.Symbol)
		row.OpenTime = parseExportTime(row.OpenTimeRaw)
		row.CloseTime = parseExportTime(row.CloseTimeRaw)

		if row.OpenTime == nil || row.OpenPrice == nil || row.Symbol == "" {
			continue
		}

		row.PositionID = idhash.PositionID(row.TraderID, row.OpenTimeRaw, row.Symbol, *row.OpenPrice)
		staged = append(staged, row)
	}
	return staged
}

func parseExportTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(exportTimeLayout, s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// filterExisting drops rows whose position IDs already exist in the
// warehouse, plus in-batch duplicates.
func (r *Runner) filterExisting(ctx context.Context, staged []*Row, res *Result) ([]*Row, error) {
	traderIDs := make([]int, 0, 8)
	seenTraders := make(map[int]struct{})
	for _, row := range staged {
		if _, ok := seenTraders[row.TraderID]; !ok {
			seenTraders[row.TraderID] = struct{}{}
			traderIDs = append(traderIDs, row.TraderID)
		}
	}

	existing, err := r.opts.TradeStore.ExistingPositionIDs(ctx, traderIDs)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		r.opts.Metrics.StoreErrors.WithLabelValues("trades", "existing_ids").Inc()
		r.opts.Logger.WithError(err).Error("failed to query existing position ids")
		return nil, err
	}
	r.opts.Logger.WithField("existing", len(existing)).Info("checked warehouse for existing positions")

	seen := make(map[int64]struct{}, len(staged))
	fresh := make([]*Row, 0, len(staged))
	for _, row := range staged {
		if _, ok := existing[row.PositionID]; ok {
			continue
		}
		if _, ok := seen[row.PositionID]; ok {
			continue
		}
		seen[row.PositionID] = struct{}{}
		fresh = append(fresh, row)
	}
	return fresh, nil
}

// load upserts trader records then inserts the new trades. Trader rows are
// derived from every staged row; trade rows additionally require all
// numeric and close-leg fields.
func (r *Runner) load(ctx context.Context, fresh []*Row, res *Result) {
	log := r.opts.Logger
	now := r.opts.Now()

	traders := make([]*domain.Trader, 0, 8)
	seen := make(map[int]struct{})
	for _, row := range fresh {
		if _, ok := seen[row.TraderID]; ok {
			continue
		}
		seen[row.TraderID] = struct{}{}
		traders = append(traders, &domain.Trader{
			TraderID:       row.TraderID,
			Server:         row.Server,
			AlgoTradingPct: row.AlgoPct,
			URL:            domain.ProfileURL(row.TraderID),
			LastUpdated:    now,
		})
	}

	log.WithField("traders", len(traders)).Info("upserting trader records")
	if err := r.opts.TraderStore.UpsertTraders(ctx, traders); err != nil {
		res.Errors = append(res.Errors, err.Error())
		r.opts.Metrics.StoreErrors.WithLabelValues("traders", "upsert").Inc()
		log.WithError(err).Error("failed to upsert trader records")
		return
	}
	res.TradersUpserted = len(traders)
	r.opts.Metrics.TradersUpserted.Add(float64(len(traders)))

	trades := make([]*domain.Trade, 0, len(fresh))
	for _, row := range fresh {
		if row.CloseTime == nil || row.Volume == nil || row.ClosePrice == nil ||
			row.Commission == nil || row.Swap == nil || row.Profit == nil {
			continue
		}
		trades = append(trades, &domain.Trade{
			PositionID: row.PositionID,
			TraderID:   row.TraderID,
			Symbol:     row.Symbol,
			Type:       row.Type,
			Volume:     *row.Volume,
			OpenTime:   *row.OpenTime,
			OpenPrice:  *row.OpenPrice,
			CloseTime:  *row.CloseTime,
			ClosePrice: *row.ClosePrice,
			Commission: *row.Commission,
			Swap:       *row.Swap,
			Profit:     *row.Profit,
		})
	}

	log.WithField("trades", len(trades)).Info("inserting new trades")
	inserted, err := r.opts.TradeStore.InsertTrades(ctx, trades)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		r.opts.Metrics.StoreErrors.WithLabelValues("trades", "insert").Inc()
		log.WithError(err).Error("failed to insert trades")
		return
	}
	res.TradesInserted = inserted
	r.opts.Metrics.TradesInserted.Add(float64(inserted))
}
