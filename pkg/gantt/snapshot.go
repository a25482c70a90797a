package gantt

import (
	"time"

	"github.com/matzehuels/ganttgrid/pkg/column"
	"github.com/matzehuels/ganttgrid/pkg/header"
)

// Snapshot is a serializable view of the current layout.
type Snapshot struct {
	Scale     string            `json:"scale" yaml:"scale"`
	Width     float64           `json:"width" yaml:"width"`
	Range     *RangeView        `json:"range,omitempty" yaml:"range,omitempty"`
	Columns   []ColumnView      `json:"columns" yaml:"columns"`
	Headers   []BandView        `json:"headers,omitempty" yaml:"headers,omitempty"`
	Rows      []RowView         `json:"rows,omitempty" yaml:"rows,omitempty"`
	Timespans []TimespanView    `json:"timespans,omitempty" yaml:"timespans,omitempty"`
	Meta      map[string]string `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// RangeView is a serialized date range.
type RangeView struct {
	From time.Time `json:"from" yaml:"from"`
	To   time.Time `json:"to" yaml:"to"`
}

// ColumnView is a serialized column or header cell.
type ColumnView struct {
	Date     time.Time `json:"date" yaml:"date"`
	End      time.Time `json:"end" yaml:"end"`
	Left     float64   `json:"left" yaml:"left"`
	Width    float64   `json:"width" yaml:"width"`
	Weekend  bool      `json:"weekend,omitempty" yaml:"weekend,omitempty"`
	WorkHour bool      `json:"work_hour,omitempty" yaml:"work_hour,omitempty"`
	Week     int       `json:"week,omitempty" yaml:"week,omitempty"`
	Current  bool      `json:"current,omitempty" yaml:"current,omitempty"`
}

// BandView is a serialized header band.
type BandView struct {
	Unit  string       `json:"unit" yaml:"unit"`
	Cells []ColumnView `json:"cells" yaml:"cells"`
}

// RowView is a serialized row with its tasks.
type RowView struct {
	ID    string     `json:"id" yaml:"id"`
	Name  string     `json:"name" yaml:"name"`
	Order int        `json:"order" yaml:"order"`
	From  *time.Time `json:"from,omitempty" yaml:"from,omitempty"`
	To    *time.Time `json:"to,omitempty" yaml:"to,omitempty"`
	Tasks []TaskView `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// TaskView is a serialized task with its computed geometry.
type TaskView struct {
	ID             string     `json:"id" yaml:"id"`
	Name           string     `json:"name" yaml:"name"`
	Color          string     `json:"color,omitempty" yaml:"color,omitempty"`
	From           time.Time  `json:"from" yaml:"from"`
	To             time.Time  `json:"to" yaml:"to"`
	Left           float64    `json:"left" yaml:"left"`
	Width          float64    `json:"width" yaml:"width"`
	ModelLeft      float64    `json:"model_left" yaml:"model_left"`
	ModelWidth     float64    `json:"model_width" yaml:"model_width"`
	TruncatedLeft  bool       `json:"truncated_left,omitempty" yaml:"truncated_left,omitempty"`
	TruncatedRight bool       `json:"truncated_right,omitempty" yaml:"truncated_right,omitempty"`
	OutOfRange     bool       `json:"out_of_range,omitempty" yaml:"out_of_range,omitempty"`
	Milestone      bool       `json:"milestone,omitempty" yaml:"milestone,omitempty"`
	Bounds         *BoundView `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

// TimespanView is a serialized timespan.
type TimespanView struct {
	ID     string     `json:"id" yaml:"id"`
	Name   string     `json:"name" yaml:"name"`
	From   time.Time  `json:"from" yaml:"from"`
	To     time.Time  `json:"to" yaml:"to"`
	Left   float64    `json:"left" yaml:"left"`
	Width  float64    `json:"width" yaml:"width"`
	Bounds *BoundView `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

// BoundView is a serialized est/lct window.
type BoundView struct {
	Left  float64 `json:"left" yaml:"left"`
	Width float64 `json:"width" yaml:"width"`
}

// Snapshot captures the columns, headers, rows and timespans.
func (g *Gantt) Snapshot() Snapshot {
	s := Snapshot{
		Scale:   g.opts.Columns.Scale.String(),
		Width:   g.width,
		Columns: ColumnViews(g.columns),
	}
	if r, ok := g.DateRange(); ok {
		s.Range = &RangeView{From: r.From, To: r.To}
	}
	s.Headers = BandViews(g.headers)
	for _, row := range g.rows {
		rv := RowView{ID: row.ID, Name: row.Name, Order: row.Order}
		if !row.From.IsZero() {
			from, to := row.From, row.To
			rv.From, rv.To = &from, &to
		}
		for _, t := range row.tasks {
			rv.Tasks = append(rv.Tasks, TaskView{
				ID:             t.ID,
				Name:           t.Name,
				Color:          t.Color,
				From:           t.From,
				To:             t.To,
				Left:           t.Left,
				Width:          t.Width,
				ModelLeft:      t.ModelLeft,
				ModelWidth:     t.ModelWidth,
				TruncatedLeft:  t.TruncatedLeft,
				TruncatedRight: t.TruncatedRight,
				OutOfRange:     t.OutOfRange,
				Milestone:      t.IsMilestone,
				Bounds:         boundView(t.Bounds),
			})
		}
		s.Rows = append(s.Rows, rv)
	}
	for _, ts := range g.timespans {
		s.Timespans = append(s.Timespans, TimespanView{
			ID:     ts.ID,
			Name:   ts.Name,
			From:   ts.From,
			To:     ts.To,
			Left:   ts.Left,
			Width:  ts.Width,
			Bounds: boundView(ts.Bounds),
		})
	}
	return s
}

// ColumnViews serializes columns.
func ColumnViews(cols []column.Column) []ColumnView {
	out := make([]ColumnView, 0, len(cols))
	for _, c := range cols {
		s := c.Geometry()
		v := ColumnView{Date: s.Date, End: c.EndDate(), Left: s.Left, Width: s.Width, Current: s.Current}
		switch cc := c.(type) {
		case *column.HourColumn:
			v.Weekend, v.WorkHour = cc.IsWeekend, cc.IsWorkHour
		case *column.DayColumn:
			v.Weekend = cc.IsWeekend
		case *column.WeekColumn:
			v.Week = cc.Number
		}
		out = append(out, v)
	}
	return out
}

// BandViews serializes header bands from coarse to fine.
func BandViews(h header.Headers) []BandView {
	var out []BandView
	for _, b := range h.Bands() {
		out = append(out, BandView{Unit: b.Unit.String(), Cells: ColumnViews(b.Cells)})
	}
	return out
}

func boundView(b *Bounds) *BoundView {
	if b == nil {
		return nil
	}
	return &BoundView{Left: b.Left, Width: b.Width}
}
