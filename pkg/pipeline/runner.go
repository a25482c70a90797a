package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ganttgrid/pkg/cache"
	"github.com/matzehuels/ganttgrid/pkg/column"
	"github.com/matzehuels/ganttgrid/pkg/config"
	"github.com/matzehuels/ganttgrid/pkg/errors"
	"github.com/matzehuels/ganttgrid/pkg/gantt"
	"github.com/matzehuels/ganttgrid/pkg/header"
	"github.com/matzehuels/ganttgrid/pkg/io"
	"github.com/matzehuels/ganttgrid/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.TTLLayout for layout entries when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// =============================================================================
// Loading
// =============================================================================

// LoadFile reads and parses the dataset at path.
func (r *Runner) LoadFile(ctx context.Context, path string) (Input, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Input{}, err
	}
	format, err := io.FormatFromPath(path)
	if err != nil {
		return Input{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return Input{}, fmt.Errorf("read %s: %w", path, err)
	}
	return r.LoadBytes(ctx, data, format, path)
}

// LoadBytes parses a dataset held in memory. source names it in logs.
func (r *Runner) LoadBytes(ctx context.Context, data []byte, format io.Format, source string) (Input, error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, source)

	d, err := io.ReadDataset(bytes.NewReader(data), format)
	rows := 0
	if d != nil {
		rows = len(d.Rows)
	}
	observability.Pipeline().OnLoadComplete(ctx, source, rows, time.Since(start), err)
	if err != nil {
		return Input{}, err
	}

	r.Logger.Debug("loaded dataset", "source", source, "rows", rows, "timespans", len(d.Timespans))
	return Input{Dataset: d, Hash: cache.Hash(data), Source: source}, nil
}

// =============================================================================
// Layout
// =============================================================================

// Layout lays out the dataset, serving the snapshot from the cache when
// the dataset and options are unchanged.
func (r *Runner) Layout(ctx context.Context, in Input, opts Options) (*Result, error) {
	if in.Dataset == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no dataset")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	start := time.Now()
	scale := opts.View.Columns.Scale
	observability.Pipeline().OnLayoutStart(ctx, scale, len(in.Dataset.Rows))
	res, err := r.layout(ctx, in, opts, logger)
	columns := 0
	if res != nil {
		columns = len(res.Snapshot.Columns)
	}
	observability.Pipeline().OnLayoutComplete(ctx, scale, columns, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	res.Stats.Duration = time.Since(start)
	logger.Info("laid out dataset",
		"rows", res.Stats.RowCount,
		"tasks", res.Stats.TaskCount,
		"columns", res.Stats.ColumnCount,
		"cached", res.CacheHit,
		"duration", res.Stats.Duration)
	return res, nil
}

func (r *Runner) layout(ctx context.Context, in Input, opts Options, logger *log.Logger) (*Result, error) {
	var cacheKey string
	if in.Hash != "" {
		keyOpts, err := opts.keyOpts()
		if err != nil {
			return nil, err
		}
		cacheKey = r.Keyer.LayoutKey(in.Hash, keyOpts)
	}

	if cacheKey != "" && !opts.Refresh {
		var snap gantt.Snapshot
		if r.cached(ctx, "layout", cacheKey, &snap) {
			return &Result{Snapshot: snap, CacheHit: true, Stats: statsOf(snap)}, nil
		}
	}

	loc, err := opts.View.Location()
	if err != nil {
		return nil, err
	}
	g, err := opts.NewGantt(logger)
	if err != nil {
		return nil, err
	}
	if err := in.Dataset.Load(g, loc); err != nil {
		return nil, err
	}

	snap := g.Snapshot()
	if cacheKey != "" {
		ttl := cache.TTLLayout
		if r.TTL > 0 {
			ttl = r.TTL
		}
		r.store(ctx, "layout", cacheKey, snap, ttl)
	}
	return &Result{Snapshot: snap, Gantt: g, Stats: statsOf(snap)}, nil
}

func statsOf(s gantt.Snapshot) Stats {
	st := Stats{RowCount: len(s.Rows), ColumnCount: len(s.Columns)}
	for _, row := range s.Rows {
		st.TaskCount += len(row.Tasks)
	}
	return st
}

// =============================================================================
// Columns
// =============================================================================

// Columns generates a bare column run with its header bands.
func (r *Runner) Columns(ctx context.Context, req ColumnsRequest) (*ColumnsResult, error) {
	if req.From.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "from is required")
	}
	opts, err := req.View.GanttOptions()
	if err != nil {
		return nil, err
	}
	gen, err := column.NewGenerator(opts.Columns)
	if err != nil {
		return nil, err
	}

	optsHash, err := cache.HashJSON(struct {
		View       config.View `json:"view"`
		LeftOffset float64     `json:"left_offset"`
	}{req.View, req.LeftOffset})
	if err != nil {
		return nil, err
	}
	cacheKey := r.Keyer.ColumnsKey(cache.ColumnsKeyOpts{
		OptionsHash: optsHash,
		From:        req.From,
		To:          req.To,
		MaxWidth:    req.MaxWidth,
		Reverse:     req.Reverse,
	})

	var res ColumnsResult
	if r.cached(ctx, "columns", cacheKey, &res) {
		res.CacheHit = true
		return &res, nil
	}

	cols, err := gen.Generate(req.columnRequest())
	if err != nil {
		return nil, err
	}
	headers := header.Generator{
		Scale:    opts.Columns.Scale,
		Show:     opts.Headers,
		Calendar: opts.Columns.Calendar(),
	}.Generate(cols)

	res = ColumnsResult{
		Columns: gantt.ColumnViews(cols),
		Headers: gantt.BandViews(headers),
	}
	if n := len(cols); n > 0 {
		res.Width = cols[n-1].Geometry().Right() - cols[0].Geometry().Left
	}
	r.store(ctx, "columns", cacheKey, res, cache.TTLColumns)
	r.Logger.Debug("generated columns", "scale", opts.Columns.Scale, "count", len(cols))
	return &res, nil
}

// =============================================================================
// Cache helpers
// =============================================================================

// cached decodes the entry under key into v. Backend errors count as a miss.
func (r *Runner) cached(ctx context.Context, kind, key string, v any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "kind", kind, "error", err)
		return false
	}
	if !hit || json.Unmarshal(data, v) != nil {
		observability.Cache().OnCacheMiss(ctx, kind)
		return false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	r.Logger.Debug("cache hit", "kind", kind)
	return true
}

// store writes v under key. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, kind, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Warn("cache encode failed", "kind", kind, "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "kind", kind, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
