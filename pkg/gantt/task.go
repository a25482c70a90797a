package gantt

import (
	"math"
	"time"

	"github.com/matzehuels/ganttgrid/pkg/column"
)

// TaskData is the upsert payload for a task. Est and Lct are zero when the
// task has no scheduling bounds.
type TaskData struct {
	ID       string
	Name     string
	Color    string
	Classes  []string
	Priority int
	From     time.Time
	To       time.Time
	Est      time.Time // Earliest start time
	Lct      time.Time // Latest completion time
	Data     map[string]any
}

// Bounds is the horizontal extent of a task's scheduling window.
type Bounds struct {
	Left  float64
	Width float64
}

// Task is a bar on a row.
type Task struct {
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

	// Position of From and To on the extended grid, before clipping.
	ModelLeft  float64
	ModelWidth float64
	// Visible extent, clipped to [0, gantt width].
	Left           float64
	Width          float64
	TruncatedLeft  bool
	TruncatedRight bool
	OutOfRange     bool
	IsMilestone    bool
	Bounds         *Bounds

	row *Row
}

func newTask(row *Row, d TaskData) *Task {
	t := &Task{ID: d.ID, row: row}
	t.copy(d)
	return t
}

func (t *Task) copy(d TaskData) {
	t.Name = d.Name
	t.Color = d.Color
	t.Classes = d.Classes
	t.Priority = d.Priority
	t.From = d.From
	t.To = d.To
	t.Est = d.Est
	t.Lct = d.Lct
	t.Data = d.Data
	t.checkMilestone()
}

// Row returns the owning row.
func (t *Task) Row() *Row {
	return t.row
}

// HasBounds reports whether the task carries an est/lct window.
func (t *Task) HasBounds() bool {
	return !t.Est.IsZero() && !t.Lct.IsZero()
}

func (t *Task) checkMilestone() {
	t.IsMilestone = t.From.Equal(t.To)
}

func (t *Task) gantt() *Gantt {
	return t.row.gantt
}

// UpdatePosAndSize recomputes the position of the task from its dates.
func (t *Task) UpdatePosAndSize() {
	g := t.gantt()
	left, okFrom := g.PositionByDate(t.From)
	right, okTo := g.PositionByDate(t.To)
	if !okFrom || !okTo {
		t.ModelLeft, t.ModelWidth, t.Left, t.Width = 0, 0, 0, 0
		t.TruncatedLeft, t.TruncatedRight = false, false
		t.OutOfRange = true
		t.Bounds = nil
		return
	}

	t.ModelLeft = left
	t.ModelWidth = right - left
	t.OutOfRange = t.ModelLeft+t.ModelWidth < 0 || t.ModelLeft > g.width
	t.Left = math.Min(math.Max(t.ModelLeft, 0), g.width)

	switch {
	case t.ModelLeft < 0:
		t.TruncatedLeft = true
		if t.ModelWidth+t.ModelLeft > g.width {
			t.TruncatedRight = true
			t.Width = g.width
		} else {
			t.TruncatedRight = false
			t.Width = t.ModelWidth + t.ModelLeft
		}
	case t.ModelWidth+t.ModelLeft > g.width:
		t.TruncatedLeft = false
		t.TruncatedRight = true
		t.Width = g.width - t.ModelLeft
	default:
		t.TruncatedLeft, t.TruncatedRight = false, false
		t.Width = t.ModelWidth
	}
	t.Width = math.Max(t.Width, 0)

	t.Bounds = boundsOf(g, t.Est, t.Lct)
}

func boundsOf(g *Gantt, est, lct time.Time) *Bounds {
	if est.IsZero() || lct.IsZero() {
		return nil
	}
	left, ok1 := g.PositionByDate(est)
	right, ok2 := g.PositionByDate(lct)
	if !ok1 || !ok2 {
		return nil
	}
	return &Bounds{Left: left, Width: right - left}
}

// SetFrom moves the start of the task to position x, snapping forward over
// hidden periods.
func (t *Task) SetFrom(x float64) bool {
	from, ok := t.gantt().DateByPosition(x, column.SnapForward)
	if !ok {
		return false
	}
	t.From = from
	t.changed()
	return true
}

// SetTo moves the end of the task to position x, snapping backward over
// hidden periods.
func (t *Task) SetTo(x float64) bool {
	to, ok := t.gantt().DateByPosition(x, column.SnapBackward)
	if !ok {
		return false
	}
	t.To = to
	t.changed()
	return true
}

// MoveTo moves the task so that it starts at x, keeping its width.
func (t *Task) MoveTo(x float64) bool {
	g := t.gantt()
	from, ok := g.DateByPosition(x, column.SnapForward)
	if !ok {
		return false
	}
	left, ok := g.PositionByDate(from)
	if !ok {
		return false
	}
	to, ok := g.DateByPosition(left+t.ModelWidth, column.SnapBackward)
	if !ok {
		return false
	}
	t.From, t.To = from, to
	t.changed()
	return true
}

func (t *Task) changed() {
	t.checkMilestone()
	t.row.SetFromTo()
	t.UpdatePosAndSize()
	t.row.sortTasks()
	t.gantt().emit(Event{Kind: TaskChanged, Row: t.row, Task: t})
}
