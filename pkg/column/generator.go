package column

import (
	"math"
	"time"

	"github.com/matzehuels/ganttgrid/pkg/calendar"
	"github.com/matzehuels/ganttgrid/pkg/errors"
)

// maxHiddenSteps bounds width-driven generation when every unit is hidden.
const maxHiddenSteps = 366

// Options configures column generation.
type Options struct {
	Scale            calendar.Unit       // Column granularity
	Width            float64             // Target total width; 0 keeps ColumnWidth
	ColumnWidth      float64             // Width of one column before rescaling
	SubScale         int                 // Snap steps per column
	WeekendDays      calendar.WeekdaySet // Days flagged as weekend
	ShowWeekends     bool                // Emit columns for weekend days
	WorkHours        calendar.HourSet    // Hours flagged as work hours
	ShowNonWorkHours bool                // Emit columns for non-work hours
	FirstDayOfWeek   time.Weekday        // Start of week for week columns
}

// DefaultOptions returns day-scale options with Saturday/Sunday weekends and
// 8-16 work hours, all visible.
func DefaultOptions() Options {
	return Options{
		Scale:            calendar.Day,
		ColumnWidth:      2,
		SubScale:         4,
		WeekendDays:      calendar.NewWeekdaySet(time.Saturday, time.Sunday),
		ShowWeekends:     true,
		WorkHours:        calendar.HourRange(8, 16),
		ShowNonWorkHours: true,
	}
}

// Validate reports configuration the generators cannot honor.
func (o Options) Validate() error {
	if !o.Scale.IsScale() {
		return errors.New(errors.ErrCodeUnsupportedScale, "unsupported view scale %s", o.Scale)
	}
	if o.ColumnWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "column width must be positive, got %v", o.ColumnWidth)
	}
	if o.SubScale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "column sub-scale must be positive, got %d", o.SubScale)
	}
	if o.Width < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "width must not be negative, got %v", o.Width)
	}
	return nil
}

// Calendar returns the calendar implied by the options.
func (o Options) Calendar() calendar.Calendar {
	return calendar.Calendar{FirstDayOfWeek: o.FirstDayOfWeek}
}

// Request describes one generation run. Exactly one of To and MaxWidth
// bounds the run.
type Request struct {
	From       time.Time // Anchor date
	To         time.Time // End (forward) or lower bound (reverse); zero if width-bounded
	MaxWidth   float64   // Width budget; 0 if date-bounded
	LeftOffset float64   // Added to every Left; in reverse mode the right edge of the output
	Reverse    bool      // Walk backward from From
}

// Generator produces columns of one scale.
type Generator interface {
	// Scale returns the granularity of the generated columns.
	Scale() calendar.Unit
	// Step returns the unit the generator iterates by: day for hour
	// columns, the scale itself otherwise.
	Step() calendar.Unit
	// Options returns the options the generator was built with.
	Options() Options
	// Generate produces an ascending contiguous run of columns.
	Generate(req Request) ([]Column, error)
	// ExpandNecessary reports whether a grid spanning first..last misses
	// any part of newFrom..newTo.
	ExpandNecessary(first, last, newFrom, newTo time.Time) bool
}

// NewGenerator returns the generator for opts.Scale.
func NewGenerator(opts Options) (Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g := &generator{opts: opts, cal: opts.Calendar(), scale: opts.Scale, step: opts.Scale}
	switch opts.Scale {
	case calendar.Hour:
		g.step = calendar.Day
		g.slack = opts.ColumnWidth * 24
		g.emit = g.hours
	case calendar.Day:
		g.slack = opts.ColumnWidth
		g.emit = g.day
	case calendar.Week:
		g.slack = opts.ColumnWidth
		g.emit = g.week
	case calendar.Month:
		g.slack = opts.ColumnWidth
		g.emit = g.month
	}
	return g, nil
}

// generator walks the calendar one step unit at a time and asks emit for
// the columns of each step. Hour columns are emitted per day so hidden hours
// and weekends are handled in one place.
type generator struct {
	opts  Options
	cal   calendar.Calendar
	scale calendar.Unit
	step  calendar.Unit
	slack float64
	emit  func(date time.Time) []Column
}

func (g *generator) Scale() calendar.Unit { return g.scale }

func (g *generator) Step() calendar.Unit { return g.step }

func (g *generator) Options() Options { return g.opts }

// excludeTo reports whether a To date on a step boundary ends the range
// without a column of its own, e.g. a midnight end for day columns.
func (g *generator) excludeTo(to time.Time) bool {
	return g.cal.IsBoundary(g.step, to)
}

func (g *generator) Generate(req Request) ([]Column, error) {
	hasTo := !req.To.IsZero()
	hasWidth := req.MaxWidth > 0
	if hasTo == hasWidth {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "exactly one of to or max width must be given")
	}
	if req.From.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "from is required")
	}

	var cols []Column
	if req.Reverse {
		cols = g.backward(req, hasTo)
	} else {
		cols = g.forward(req, hasTo)
	}
	g.fit(cols)
	return cols, nil
}

func (g *generator) forward(req Request, hasTo bool) []Column {
	date := g.cal.StartOf(g.step, req.From)
	var to time.Time
	exclude := false
	if hasTo {
		exclude = g.excludeTo(req.To)
		to = g.cal.StartOf(g.step, req.To)
	}

	var cols []Column
	left := 0.0
	hidden := 0
	for {
		if !hasTo && math.Abs(left) > req.MaxWidth+g.slack {
			break
		}
		if hasTo && (date.After(to) || exclude && !date.Before(to)) {
			break
		}
		step := g.emit(date)
		for _, c := range step {
			s := c.Geometry()
			s.Left = left + req.LeftOffset
			left += s.Width
		}
		cols = append(cols, step...)
		if !g.tick(&hidden, len(step), hasTo) {
			break
		}
		date = g.cal.Add(g.step, date, 1)
	}
	return cols
}

func (g *generator) backward(req Request, hasTo bool) []Column {
	date := g.cal.StartOf(g.step, req.From)
	if date.Equal(req.From) {
		date = g.cal.Add(g.step, date, -1)
	}
	var floor time.Time
	if hasTo {
		floor = g.cal.StartOf(g.step, req.To)
	}

	var steps [][]Column
	left := 0.0
	hidden := 0
	for {
		if !hasTo && math.Abs(left) > req.MaxWidth+g.slack {
			break
		}
		if hasTo && date.Before(floor) {
			break
		}
		step := g.emit(date)
		for _, c := range step {
			left -= c.Geometry().Width
		}
		pos := left
		for _, c := range step {
			s := c.Geometry()
			s.Left = pos + req.LeftOffset
			pos += s.Width
		}
		steps = append(steps, step)
		if !g.tick(&hidden, len(step), hasTo) {
			break
		}
		date = g.cal.Add(g.step, date, -1)
	}

	var cols []Column
	for i := len(steps) - 1; i >= 0; i-- {
		cols = append(cols, steps[i]...)
	}
	return cols
}

// tick counts consecutive empty steps and reports whether width-bounded
// generation may continue.
func (g *generator) tick(hidden *int, emitted int, hasTo bool) bool {
	if emitted > 0 {
		*hidden = 0
		return true
	}
	*hidden++
	return hasTo || *hidden < maxHiddenSteps
}

// fit rescales the run to the configured total width.
func (g *generator) fit(cols []Column) {
	if g.opts.Width <= 0 || len(cols) == 0 {
		return
	}
	total := 0.0
	for _, c := range cols {
		total += c.Geometry().Width
	}
	if total == 0 {
		return
	}
	factor := math.Abs(g.opts.Width / total)
	for _, c := range cols {
		s := c.Geometry()
		s.Left *= factor
		s.Width *= factor
	}
}

func (g *generator) ExpandNecessary(first, last, newFrom, newTo time.Time) bool {
	if g.excludeTo(newTo) {
		newTo = g.cal.Add(g.scale, newTo, -1)
	}
	first = g.cal.StartOf(g.step, first)
	last = g.cal.StartOf(g.step, last)
	return first.After(newFrom) || last.Before(g.cal.StartOf(g.step, newTo))
}

func (g *generator) span(date time.Time) Span {
	return Span{Date: date, Width: g.opts.ColumnWidth, SubScale: g.opts.SubScale}
}

func (g *generator) visibleDay(date time.Time) (weekend, visible bool) {
	weekend = g.opts.WeekendDays.Has(date.Weekday())
	return weekend, !weekend || g.opts.ShowWeekends
}

func (g *generator) hours(date time.Time) []Column {
	weekend, visible := g.visibleDay(date)
	if !visible {
		return nil
	}
	y, m, d := date.Date()
	var cols []Column
	for h := 0; h < 24; h++ {
		work := g.opts.WorkHours.Has(h)
		if !work && !g.opts.ShowNonWorkHours {
			continue
		}
		next, prev := 1, 1
		if !g.opts.ShowNonWorkHours {
			next = calendar.HoursToWorkHour(h, g.opts.WorkHours, true)
			prev = calendar.HoursToWorkHour(h, g.opts.WorkHours, false)
		}
		cols = append(cols, &HourColumn{
			Span:        g.span(time.Date(y, m, d, h, 0, 0, 0, date.Location())),
			IsWeekend:   weekend,
			IsWorkHour:  work,
			HoursToNext: next,
			HoursToPrev: prev,
		})
	}
	return cols
}

func (g *generator) day(date time.Time) []Column {
	weekend, visible := g.visibleDay(date)
	if !visible {
		return nil
	}
	next, prev := 1, 1
	if !g.opts.ShowWeekends {
		next = calendar.DaysToWorkingDay(date.Weekday(), g.opts.WeekendDays, true)
		prev = calendar.DaysToWorkingDay(date.Weekday(), g.opts.WeekendDays, false)
	}
	start, end := WorkWindow(g.opts.WorkHours, g.opts.ShowNonWorkHours)
	return []Column{&DayColumn{
		Span:       g.span(date),
		IsWeekend:  weekend,
		DaysToNext: next,
		DaysToPrev: prev,
		StartHour:  start,
		EndHour:    end,
	}}
}

func (g *generator) week(date time.Time) []Column {
	return []Column{&WeekColumn{Span: g.span(date), Number: g.cal.WeekNumber(date)}}
}

func (g *generator) month(date time.Time) []Column {
	return []Column{&MonthColumn{Span: g.span(date), DaysInMonth: calendar.DaysIn(date)}}
}
