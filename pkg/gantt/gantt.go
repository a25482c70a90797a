package gantt

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ganttgrid/pkg/calendar"
	"github.com/matzehuels/ganttgrid/pkg/column"
	"github.com/matzehuels/ganttgrid/pkg/header"
	"github.com/matzehuels/ganttgrid/pkg/search"
)

// Gantt is the layout coordinator. Create one with [New].
type Gantt struct {
	opts      Options
	cal       calendar.Calendar
	gen       column.Generator
	bufferGen column.Generator
	headerGen header.Generator
	logger    *log.Logger

	columns  []column.Column
	previous []column.Column
	next     []column.Column
	buffered Range // dates the buffers were last generated for
	headers  header.Headers
	width    float64

	dateRange Range // requested range; zero until the first request
	window    Range // range the current columns were generated for

	rows         []*Row
	rowsByID     map[string]*Row
	highestOrder int

	timespans     []*Timespan
	timespansByID map[string]*Timespan

	observers    []observer
	nextObserver int

	batch int
	dirty bool // a deferred refresh is pending
	stale bool // the pending refresh must regenerate
}

// New returns a coordinator for opts. If opts.From and opts.To are both set
// the initial range is requested immediately.
func New(opts Options) (*Gantt, error) {
	g := &Gantt{
		rowsByID:      make(map[string]*Row),
		timespansByID: make(map[string]*Timespan),
	}
	if err := g.configure(opts); err != nil {
		return nil, err
	}
	g.RequestDateRange(opts.From, opts.To)
	return g, nil
}

func (g *Gantt) configure(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	gen, err := column.NewGenerator(opts.Columns)
	if err != nil {
		return err
	}
	g.opts = opts
	g.cal = opts.Columns.Calendar()
	g.gen = gen
	g.bufferGen = nil
	g.headerGen = header.Generator{Scale: opts.Columns.Scale, Show: opts.Headers, Calendar: g.cal}
	g.logger = opts.logger()
	return nil
}

// SetOptions replaces the configuration and regenerates the columns for the
// current range. Rows are re-sorted when the sort settings changed.
func (g *Gantt) SetOptions(opts Options) error {
	sortChanged := opts.SortMode != g.opts.SortMode || opts.SortFunc != nil
	if err := g.configure(opts); err != nil {
		return err
	}
	g.RequestDateRange(opts.From, opts.To)
	g.RegenerateColumns()
	if sortChanged {
		g.SortRows()
	}
	return nil
}

// Options returns the active configuration.
func (g *Gantt) Options() Options {
	return g.opts
}

// =============================================================================
// Date range
// =============================================================================

// RequestDateRange asks for columns covering from..to. Both bounds are
// required; a request with a zero bound is ignored.
func (g *Gantt) RequestDateRange(from, to time.Time) {
	if from.IsZero() || to.IsZero() {
		return
	}
	if g.opts.OutOfRange == OutOfRangeTruncate {
		g.dateRange = Range{From: from, To: to}
		g.regenerate()
		return
	}
	g.widen(Range{From: from, To: to})
	g.refresh()
}

// DateRange returns the current range. ok is false until a range was
// requested or data was loaded.
func (g *Gantt) DateRange() (Range, bool) {
	return g.dateRange, !g.dateRange.IsZero()
}

// TasksDateRange returns the earliest start and latest end over all rows
// with tasks.
func (g *Gantt) TasksDateRange() (Range, bool) {
	var r Range
	for _, row := range g.rows {
		if len(row.tasks) == 0 {
			continue
		}
		r = r.Union(Range{From: row.From, To: row.To})
	}
	return r, !r.IsZero()
}

// widen merges r and the bounds of all loaded tasks into the range.
func (g *Gantt) widen(r Range) {
	g.dateRange = g.dateRange.Union(r)
	if tasks, ok := g.TasksDateRange(); ok {
		g.dateRange = g.dateRange.Union(tasks)
	}
}

// AutoExpand grows the range toward dir from date when the auto-expand
// policy allows it: by one day on hour scale, by 31 days otherwise.
func (g *Gantt) AutoExpand(date time.Time, dir Direction) bool {
	if !g.opts.AutoExpand.Allows(dir) || date.IsZero() {
		return false
	}
	days := 31
	if g.opts.Columns.Scale == calendar.Hour {
		days = 1
	}
	if dir == Left {
		g.RequestDateRange(date.AddDate(0, 0, -days), date)
	} else {
		g.RequestDateRange(date, date.AddDate(0, 0, days))
	}
	return true
}

// =============================================================================
// Column generation
// =============================================================================

// Batch runs fn with column expansion and position updates deferred until
// fn returns. Nested batches flush once, when the outermost returns.
func (g *Gantt) Batch(fn func()) {
	g.batch++
	defer func() {
		g.batch--
		if g.batch == 0 && g.dirty {
			g.dirty = false
			g.refresh()
		}
	}()
	fn()
}

// refresh expands the columns if needed and re-positions everything.
func (g *Gantt) refresh() {
	if g.batch > 0 {
		g.dirty = true
		return
	}
	if g.stale && g.regenerate() {
		return
	}
	if !g.expandColumns() {
		g.updatePositions()
	}
}

// expandColumns regenerates the grid when it does not cover the range.
func (g *Gantt) expandColumns() bool {
	if g.dateRange.IsZero() {
		return false
	}
	if len(g.columns) == 0 || g.window.IsZero() {
		return g.regenerate()
	}
	last := g.window.To.Add(-time.Nanosecond)
	if !g.gen.ExpandNecessary(g.window.From, last, g.dateRange.From, g.dateRange.To) {
		return false
	}
	g.dateRange = g.dateRange.Union(g.window)
	return g.regenerate()
}

// RegenerateColumns discards the grid and rebuilds it for the current range.
// It reports false when no range is defined.
func (g *Gantt) RegenerateColumns() bool {
	g.columns = nil
	g.resetBuffers()
	g.window = Range{}
	if g.dateRange.IsZero() {
		return false
	}
	if g.batch > 0 {
		g.dirty = true
		return true
	}
	return g.regenerate()
}

func (g *Gantt) regenerate() bool {
	if g.batch > 0 {
		g.dirty, g.stale = true, true
		return false
	}
	g.stale = false
	r := g.dateRange
	cols, err := g.gen.Generate(column.Request{From: r.From, To: r.To})
	if err != nil {
		g.logger.Warn("column generation failed", "from", r.From, "to", r.To, "err", err)
		return false
	}

	g.columns = cols
	g.resetBuffers()
	g.bufferGen = nil
	g.headers = g.headerGen.Generate(cols)
	g.width = 0
	if n := len(cols); n > 0 {
		g.width = cols[n-1].Geometry().Right()
	}
	g.window = r
	g.markCurrent()
	g.updatePositions()

	g.logger.Debug("generated columns",
		"scale", g.opts.Columns.Scale, "from", r.From, "to", r.To,
		"columns", len(cols), "width", g.width)
	g.emit(Event{Kind: ColumnsGenerated})
	return true
}

// buffers returns the generator for extended columns: same grid, but with
// the effective column width and no global width fitting.
func (g *Gantt) buffers() column.Generator {
	if g.bufferGen != nil {
		return g.bufferGen
	}
	opts := g.opts.Columns
	opts.Width = 0
	if len(g.columns) > 0 {
		opts.ColumnWidth = g.columns[0].Geometry().Width
	}
	gen, err := column.NewGenerator(opts)
	if err != nil {
		gen = g.gen
	}
	g.bufferGen = gen
	return gen
}

// bufferStarts returns where reverse and forward buffers begin.
func (g *Gantt) bufferStarts() (before, after time.Time) {
	step := g.gen.Step()
	first := g.columns[0].Geometry().Date
	last := g.columns[len(g.columns)-1].Geometry().Date
	return g.cal.StartOf(step, first), g.cal.Add(step, g.cal.StartOf(step, last), 1)
}

func (g *Gantt) extendForDate(t time.Time) {
	if len(g.columns) == 0 {
		return
	}
	first := g.columns[0].Geometry().Date
	end := g.columns[len(g.columns)-1].EndDate()
	before, after := g.bufferStarts()

	switch {
	case t.Before(first):
		if !g.buffered.From.IsZero() && !g.buffered.From.After(t) {
			return
		}
		if len(g.previous) == 0 || g.previous[0].Geometry().Date.After(t) {
			g.previous = g.generateBuffer(column.Request{From: before, To: t, Reverse: true})
			g.buffered.From = t
		}
	case t.After(end):
		if !g.buffered.To.IsZero() && !g.buffered.To.Before(t) {
			return
		}
		if len(g.next) == 0 || g.next[len(g.next)-1].EndDate().Before(t) {
			g.next = g.generateBuffer(column.Request{From: after, To: t, LeftOffset: g.width})
			g.buffered.To = t
		}
	}
}

func (g *Gantt) extendForPosition(x float64) {
	if len(g.columns) == 0 {
		return
	}
	before, after := g.bufferStarts()

	switch {
	case x < 0:
		if len(g.previous) == 0 || g.previous[0].Geometry().Left > x {
			g.previous = g.generateBuffer(column.Request{From: before, MaxWidth: -x, Reverse: true})
			g.buffered.From = time.Time{}
		}
	case x > g.width:
		if len(g.next) == 0 || g.next[len(g.next)-1].Geometry().Right() < x {
			g.next = g.generateBuffer(column.Request{From: after, MaxWidth: x - g.width, LeftOffset: g.width})
			g.buffered.To = time.Time{}
		}
	}
}

func (g *Gantt) resetBuffers() {
	g.previous, g.next = nil, nil
	g.buffered = Range{}
}

func (g *Gantt) generateBuffer(req column.Request) []column.Column {
	cols, err := g.buffers().Generate(req)
	if err != nil {
		g.logger.Warn("extended column generation failed", "err", err)
		return nil
	}
	g.logger.Debug("extended columns", "reverse", req.Reverse, "columns", len(cols))
	return cols
}

func (g *Gantt) extended() []column.Column {
	if len(g.previous) == 0 && len(g.next) == 0 {
		return g.columns
	}
	return slices.Concat(g.previous, g.columns, g.next)
}

// =============================================================================
// Queries
// =============================================================================

// Columns returns the main grid. The columns must not be modified.
func (g *Gantt) Columns() []column.Column {
	return slices.Clone(g.columns)
}

// PreviousColumns returns the buffer columns left of the grid.
func (g *Gantt) PreviousColumns() []column.Column {
	return slices.Clone(g.previous)
}

// NextColumns returns the buffer columns right of the grid.
func (g *Gantt) NextColumns() []column.Column {
	return slices.Clone(g.next)
}

// Headers returns the header bands of the main grid.
func (g *Gantt) Headers() header.Headers {
	return g.headers
}

// Width returns the total width of the main grid.
func (g *Gantt) Width() float64 {
	return g.width
}

// ColumnByDate returns the column containing t, or the nearest following
// column when t falls in a hidden period before it.
func (g *Gantt) ColumnByDate(t time.Time) (column.Column, bool) {
	g.extendForDate(t)
	return search.FloorOrNext(g.extended(), t, columnDate, search.Times)
}

// ColumnByPosition returns the column spanning x.
func (g *Gantt) ColumnByPosition(x float64) (column.Column, bool) {
	g.extendForPosition(x)
	return search.Floor(g.extended(), x, columnLeft, search.Floats)
}

// DateByPosition converts x into a date, applying the configured magnet.
func (g *Gantt) DateByPosition(x float64, snap column.Snap) (time.Time, bool) {
	c, ok := g.ColumnByPosition(x)
	if !ok {
		return time.Time{}, false
	}
	t := c.DateByPosition(x-c.Geometry().Left, snap)
	return g.opts.Magnet.Apply(t), true
}

// PositionByDate converts t into a position.
func (g *Gantt) PositionByDate(t time.Time) (float64, bool) {
	if t.IsZero() {
		return 0, false
	}
	c, ok := g.ColumnByDate(t)
	if !ok {
		return 0, false
	}
	return c.PositionByDate(t), true
}

// VisibleColumns returns the columns intersecting the scroll window
// [scrollLeft, scrollLeft+scrollWidth].
func (g *Gantt) VisibleColumns(scrollLeft, scrollWidth float64) []column.Column {
	return Visible(g.columns, scrollLeft, scrollWidth)
}

// Visible returns the slice of cols intersecting [scrollLeft,
// scrollLeft+scrollWidth]. cols must be sorted by Left.
func Visible(cols []column.Column, scrollLeft, scrollWidth float64) []column.Column {
	start, _ := search.Bracket(cols, scrollLeft, columnLeft, search.Floats)
	_, end := search.Bracket(cols, scrollLeft+scrollWidth, columnLeft, search.Floats)
	start = max(start, 0)
	if end <= start {
		return nil
	}
	return cols[start:end]
}

func columnDate(c column.Column) time.Time { return c.Geometry().Date }

func columnLeft(c column.Column) float64 { return c.Geometry().Left }

// =============================================================================
// Current date
// =============================================================================

// SetCurrentDate moves the current date marker. A zero t removes it.
func (g *Gantt) SetCurrentDate(t time.Time) {
	g.opts.CurrentDate = t
	g.markCurrent()
}

// CurrentColumn returns the column holding the current date marker.
func (g *Gantt) CurrentColumn() (column.Column, bool) {
	for _, c := range g.columns {
		if c.Geometry().Current {
			return c, true
		}
	}
	return nil, false
}

func (g *Gantt) markCurrent() {
	t := g.opts.CurrentDate
	for _, c := range g.columns {
		s := c.Geometry()
		s.Current = !t.IsZero() && !t.Before(s.Date) && t.Before(c.EndDate())
	}
}

// updatePositions recomputes every task and timespan position.
func (g *Gantt) updatePositions() {
	for _, row := range g.rows {
		for _, t := range row.tasks {
			t.UpdatePosAndSize()
		}
		row.sortTasks()
	}
	for _, ts := range g.timespans {
		ts.UpdatePosAndSize()
	}
}

// Clear removes all rows, timespans, columns and the range.
func (g *Gantt) Clear() {
	g.RemoveAllRows()
	g.RemoveAllTimespans()
}
