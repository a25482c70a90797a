// Package pipeline runs the dataset → layout flow shared by the CLI and the
// HTTP API.
//
// A [Runner] loads datasets, builds a [gantt.Gantt] for them and caches the
// resulting snapshot. Cache keys cover the dataset content, the view
// settings and the requested range, so repeated runs over unchanged inputs
// are served from the cache:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	in, err := runner.LoadFile(ctx, "plan.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := runner.Layout(ctx, in, pipeline.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Snapshot.Width)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ganttgrid/pkg/cache"
	"github.com/matzehuels/ganttgrid/pkg/column"
	"github.com/matzehuels/ganttgrid/pkg/config"
	"github.com/matzehuels/ganttgrid/pkg/errors"
	"github.com/matzehuels/ganttgrid/pkg/gantt"
	"github.com/matzehuels/ganttgrid/pkg/io"
)

// =============================================================================
// Options
// =============================================================================

// Options configures one layout run. It supports JSON serialization for
// API requests.
type Options struct {
	View        config.View `json:"view"`
	From        time.Time   `json:"from,omitzero"`
	To          time.Time   `json:"to,omitzero"`
	CurrentDate time.Time   `json:"current_date,omitzero"`

	// Runtime options (not serialized)
	Refresh bool        `json:"-"`
	Logger  *log.Logger `json:"-"`
}

// DefaultOptions returns options with the built-in view settings.
func DefaultOptions() Options {
	return Options{View: config.DefaultView()}
}

// Validate checks the view settings and the range.
func (o Options) Validate() error {
	if _, err := o.View.GanttOptions(); err != nil {
		return err
	}
	if _, err := o.View.Location(); err != nil {
		return err
	}
	if o.From.IsZero() != o.To.IsZero() {
		return errors.New(errors.ErrCodeInvalidArgument, "from and to must be given together")
	}
	if !o.From.IsZero() {
		return errors.ValidateRange(o.From, o.To)
	}
	return nil
}

// GanttOptions converts the options into coordinator options.
func (o Options) GanttOptions(logger *log.Logger) (gantt.Options, error) {
	opts, err := o.View.GanttOptions()
	if err != nil {
		return opts, err
	}
	opts.From, opts.To = o.From, o.To
	opts.CurrentDate = o.CurrentDate
	opts.Logger = logger
	return opts, nil
}

// NewGantt builds an empty coordinator for the options.
func (o Options) NewGantt(logger *log.Logger) (*gantt.Gantt, error) {
	opts, err := o.GanttOptions(logger)
	if err != nil {
		return nil, err
	}
	return gantt.New(opts)
}

// keyOpts returns the cache key inputs of the options.
func (o Options) keyOpts() (cache.LayoutKeyOpts, error) {
	h, err := cache.HashJSON(struct {
		View    config.View `json:"view"`
		Current time.Time   `json:"current"`
	}{o.View, o.CurrentDate})
	if err != nil {
		return cache.LayoutKeyOpts{}, err
	}
	return cache.LayoutKeyOpts{OptionsHash: h, From: o.From, To: o.To}, nil
}

// =============================================================================
// Inputs and results
// =============================================================================

// Input is a dataset with the hash of its source bytes. An empty Hash
// disables caching for the input.
type Input struct {
	Dataset *io.Dataset
	Hash    string
	Source  string
}

// Result contains the outputs of a layout run.
type Result struct {
	// Snapshot is the serializable layout.
	Snapshot gantt.Snapshot

	// Gantt is the live coordinator. It is nil when the result came from
	// the cache.
	Gantt *gantt.Gantt

	// CacheHit reports whether the snapshot came from the cache.
	CacheHit bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains layout statistics.
type Stats struct {
	RowCount    int
	TaskCount   int
	ColumnCount int
	Duration    time.Duration
}

// ColumnsRequest asks for a bare column run without data.
type ColumnsRequest struct {
	View       config.View `json:"view"`
	From       time.Time   `json:"from"`
	To         time.Time   `json:"to,omitzero"`
	MaxWidth   float64     `json:"max_width,omitempty"`
	LeftOffset float64     `json:"left_offset,omitempty"`
	Reverse    bool        `json:"reverse,omitempty"`
}

func (r ColumnsRequest) columnRequest() column.Request {
	return column.Request{
		From:       r.From,
		To:         r.To,
		MaxWidth:   r.MaxWidth,
		LeftOffset: r.LeftOffset,
		Reverse:    r.Reverse,
	}
}

// ColumnsResult is a column run with its header bands.
type ColumnsResult struct {
	Columns  []gantt.ColumnView `json:"columns" yaml:"columns"`
	Headers  []gantt.BandView   `json:"headers,omitempty" yaml:"headers,omitempty"`
	Width    float64            `json:"width" yaml:"width"`
	CacheHit bool               `json:"-" yaml:"-"`
}
