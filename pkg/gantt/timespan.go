package gantt

import (
	"slices"
	"time"

	"github.com/matzehuels/ganttgrid/pkg/column"
	"github.com/matzehuels/ganttgrid/pkg/errors"
)

// TimespanData is the upsert payload for a timespan.
type TimespanData struct {
	ID       string
	Name     string
	Color    string
	Classes  []string
	Priority int
	From     time.Time
	To       time.Time
	Est      time.Time
	Lct      time.Time
	Data     map[string]any
}

// Timespan is a highlighted period spanning all rows. It is never clipped.
type Timespan struct {
	ID       string
	Name     string
	Color    string
	Classes  []string
	Priority int
	From     time.Time
	To       time.Time
	Est      time.Time
	Lct      time.Time
	Data     map[string]any

	Left   float64
	Width  float64
	Bounds *Bounds

	gantt *Gantt
}

func (ts *Timespan) copy(d TimespanData) {
	ts.Name = d.Name
	ts.Color = d.Color
	ts.Classes = d.Classes
	ts.Priority = d.Priority
	ts.From = d.From
	ts.To = d.To
	ts.Est = d.Est
	ts.Lct = d.Lct
	ts.Data = d.Data
}

// UpdatePosAndSize recomputes the position of the timespan from its dates.
func (ts *Timespan) UpdatePosAndSize() {
	left, ok1 := ts.gantt.PositionByDate(ts.From)
	right, ok2 := ts.gantt.PositionByDate(ts.To)
	if !ok1 || !ok2 {
		ts.Left, ts.Width, ts.Bounds = 0, 0, nil
		return
	}
	ts.Left = left
	ts.Width = right - left
	ts.Bounds = boundsOf(ts.gantt, ts.Est, ts.Lct)
}

// SetFrom moves the start of the timespan to position x.
func (ts *Timespan) SetFrom(x float64) bool {
	from, ok := ts.gantt.DateByPosition(x, column.SnapForward)
	if !ok {
		return false
	}
	ts.From = from
	ts.changed()
	return true
}

// SetTo moves the end of the timespan to position x.
func (ts *Timespan) SetTo(x float64) bool {
	to, ok := ts.gantt.DateByPosition(x, column.SnapBackward)
	if !ok {
		return false
	}
	ts.To = to
	ts.changed()
	return true
}

// MoveTo moves the timespan so that it starts at x, keeping its width.
func (ts *Timespan) MoveTo(x float64) bool {
	from, ok := ts.gantt.DateByPosition(x, column.SnapForward)
	if !ok {
		return false
	}
	to, ok := ts.gantt.DateByPosition(x+ts.Width, column.SnapBackward)
	if !ok {
		return false
	}
	ts.From, ts.To = from, to
	ts.changed()
	return true
}

func (ts *Timespan) changed() {
	ts.UpdatePosAndSize()
	ts.gantt.emit(Event{Kind: TimespanChanged, Timespan: ts})
}

// =============================================================================
// Timespan management
// =============================================================================

// Timespans returns the timespans in insertion order.
func (g *Gantt) Timespans() []*Timespan {
	return slices.Clone(g.timespans)
}

// Timespan returns the timespan with the given id.
func (g *Gantt) Timespan(id string) (*Timespan, bool) {
	ts, ok := g.timespansByID[id]
	return ts, ok
}

// AddTimespans upserts timespans. Under the expand policy the range grows
// to cover them.
func (g *Gantt) AddTimespans(data []TimespanData) error {
	var err error
	g.Batch(func() {
		for _, d := range data {
			if err = errors.ValidateID("timespan", d.ID); err != nil {
				return
			}
			ts, update := g.timespansByID[d.ID]
			if !update {
				ts = &Timespan{ID: d.ID, gantt: g}
				g.timespansByID[ts.ID] = ts
				g.timespans = append(g.timespans, ts)
			}
			ts.copy(d)
			if g.opts.OutOfRange == OutOfRangeExpand {
				g.widen(Range{From: ts.From, To: ts.To})
			}
			g.refresh()

			kind := TimespanAdded
			if update {
				kind = TimespanChanged
			}
			g.emit(Event{Kind: kind, Timespan: ts})
		}
	})
	return err
}

// RemoveTimespans removes the timespans with the given ids.
func (g *Gantt) RemoveTimespans(ids ...string) {
	for _, id := range ids {
		ts, ok := g.timespansByID[id]
		if !ok {
			continue
		}
		delete(g.timespansByID, id)
		g.timespans = slices.DeleteFunc(g.timespans, func(o *Timespan) bool { return o == ts })
		g.emit(Event{Kind: TimespanRemoved, Timespan: ts})
	}
}

// RemoveAllTimespans removes every timespan.
func (g *Gantt) RemoveAllTimespans() {
	removed := g.timespans
	g.timespans = nil
	g.timespansByID = make(map[string]*Timespan)
	for _, ts := range removed {
		g.emit(Event{Kind: TimespanRemoved, Timespan: ts})
	}
}
