package gantt

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/ganttgrid/pkg/calendar"
	"github.com/matzehuels/ganttgrid/pkg/errors"
)

// RowData is the upsert payload for a row. Order is nil when the caller
// leaves ordering to the coordinator.
type RowData struct {
	ID    string
	Name  string
	Order *int
	Data  map[string]any
	Tasks []TaskData
}

// Row is a horizontal lane of tasks. From and To span its tasks.
type Row struct {
	ID    string
	Name  string
	Order int
	Data  map[string]any
	From  time.Time
	To    time.Time

	gantt     *Gantt
	tasks     []*Task
	tasksByID map[string]*Task
}

// Tasks returns the tasks sorted by left position.
func (r *Row) Tasks() []*Task {
	return slices.Clone(r.tasks)
}

// Task returns the task with the given id.
func (r *Row) Task(id string) (*Task, bool) {
	t, ok := r.tasksByID[id]
	return t, ok
}

// AddTask adds a task or updates the one with the same id, then positions
// it. Under the expand policy the range grows to cover the task.
func (r *Row) AddTask(data TaskData) (*Task, error) {
	if err := errors.ValidateID("task", data.ID); err != nil {
		return nil, err
	}
	t, ok := r.tasksByID[data.ID]
	if ok {
		t.copy(data)
	} else {
		t = newTask(r, data)
		r.tasksByID[t.ID] = t
		r.tasks = append(r.tasks, t)
	}
	r.SetFromTo()
	r.gantt.taskChanged(t)
	return t, nil
}

// RemoveTask removes the task with the given id.
func (r *Row) RemoveTask(id string) (*Task, bool) {
	t, ok := r.tasksByID[id]
	if !ok {
		return nil, false
	}
	delete(r.tasksByID, id)
	r.tasks = slices.DeleteFunc(r.tasks, func(o *Task) bool { return o == t })
	if r.From.Equal(t.From) || r.To.Equal(t.To) {
		r.SetFromTo()
	}
	r.gantt.emit(Event{Kind: TaskRemoved, Row: r, Task: t})
	return t, true
}

// MoveTask re-parents t from its current row into r. A different task of r
// with the same id is removed first.
func (r *Row) MoveTask(t *Task) {
	if t.row == r {
		return
	}
	if t.row != nil {
		t.row.RemoveTask(t.ID)
	}
	if _, ok := r.tasksByID[t.ID]; ok {
		r.RemoveTask(t.ID)
	}
	t.row = r
	r.tasksByID[t.ID] = t
	r.tasks = append(r.tasks, t)
	r.SetFromTo()
	t.UpdatePosAndSize()
	r.sortTasks()
	r.gantt.emit(Event{Kind: TaskChanged, Row: r, Task: t})
}

// SetFromTo recomputes From and To from the tasks.
func (r *Row) SetFromTo() {
	r.From, r.To = time.Time{}, time.Time{}
	for _, t := range r.tasks {
		r.extendBy(t)
	}
}

func (r *Row) extendBy(t *Task) {
	if r.From.IsZero() || t.From.Before(r.From) {
		r.From = t.From
	}
	if r.To.IsZero() || t.To.After(r.To) {
		r.To = t.To
	}
}

func (r *Row) sortTasks() {
	slices.SortStableFunc(r.tasks, func(a, b *Task) int {
		return cmp.Compare(a.Left, b.Left)
	})
}

// =============================================================================
// Row management
// =============================================================================

// Row returns the row with the given id.
func (g *Gantt) Row(id string) (*Row, bool) {
	r, ok := g.rowsByID[id]
	return r, ok
}

// Rows returns the rows in display order.
func (g *Gantt) Rows() []*Row {
	return slices.Clone(g.rows)
}

// AddData upserts rows and their tasks. Rows without an order are appended
// after the highest order seen so far. Rows are re-sorted afterwards.
func (g *Gantt) AddData(data []RowData) error {
	var err error
	g.Batch(func() {
		for _, d := range data {
			if err = g.addRow(d); err != nil {
				return
			}
		}
		g.SortRows()
	})
	return err
}

func (g *Gantt) addRow(d RowData) error {
	if err := errors.ValidateID("row", d.ID); err != nil {
		return err
	}
	row, update := g.rowsByID[d.ID]
	if update {
		row.Name = d.Name
		row.Data = d.Data
		if d.Order != nil {
			row.Order = *d.Order
			g.highestOrder = max(g.highestOrder, row.Order+1)
		}
	} else {
		order := g.highestOrder
		if d.Order != nil {
			order = *d.Order
		}
		g.highestOrder = max(g.highestOrder, order+1)
		row = &Row{
			ID:        d.ID,
			Name:      d.Name,
			Order:     order,
			Data:      d.Data,
			gantt:     g,
			tasksByID: make(map[string]*Task),
		}
		g.rowsByID[row.ID] = row
		g.rows = append(g.rows, row)
	}

	for _, td := range d.Tasks {
		if _, err := row.AddTask(td); err != nil {
			return err
		}
	}

	if update {
		g.emit(Event{Kind: RowChanged, Row: row})
	} else {
		g.emit(Event{Kind: RowAdded, Row: row})
	}
	return nil
}

// RemoveData removes the listed tasks of each row, or the whole row when
// its payload lists no tasks.
func (g *Gantt) RemoveData(data []RowData) {
	for _, d := range data {
		row, ok := g.rowsByID[d.ID]
		if !ok {
			continue
		}
		if len(d.Tasks) == 0 {
			g.removeRow(row)
			continue
		}
		for _, td := range d.Tasks {
			row.RemoveTask(td.ID)
		}
		g.emit(Event{Kind: RowChanged, Row: row})
	}
}

func (g *Gantt) removeRow(row *Row) {
	delete(g.rowsByID, row.ID)
	g.rows = slices.DeleteFunc(g.rows, func(r *Row) bool { return r == row })
	g.emit(Event{Kind: RowRemoved, Row: row})
}

// RemoveAllRows removes every row and resets the grid and the range.
func (g *Gantt) RemoveAllRows() {
	removed := g.rows
	g.rows = nil
	g.rowsByID = make(map[string]*Row)
	g.highestOrder = 0
	g.columns = nil
	g.resetBuffers()
	g.headers = g.headerGen.Generate(nil)
	g.width = 0
	g.dateRange, g.window = Range{}, Range{}
	for _, r := range removed {
		g.emit(Event{Kind: RowRemoved, Row: r})
	}
}

// SwapRows exchanges the order of two rows and switches to custom sorting.
func (g *Gantt) SwapRows(aID, bID string) bool {
	a, okA := g.rowsByID[aID]
	b, okB := g.rowsByID[bID]
	if !okA || !okB {
		return false
	}
	a.Order, b.Order = b.Order, a.Order
	g.opts.SortMode = SortByCustom
	g.opts.SortFunc = nil
	g.SortRows()
	g.emit(Event{Kind: RowChanged, Row: a})
	g.emit(Event{Kind: RowChanged, Row: b})
	return true
}

// SortRows orders the rows by the configured sort function or mode.
func (g *Gantt) SortRows() {
	if g.opts.SortFunc != nil {
		slices.SortStableFunc(g.rows, g.opts.SortFunc)
		return
	}
	key, desc, err := parseSortMode(g.opts.SortMode)
	if err != nil {
		return
	}
	slices.SortStableFunc(g.rows, func(a, b *Row) int {
		c := compareRows(key, a, b)
		if desc {
			return -c
		}
		return c
	})
}

func compareRows(key string, a, b *Row) int {
	switch key {
	case SortByName:
		return strings.Compare(a.Name, b.Name)
	case SortByDate:
		// Rows without tasks sort last.
		switch {
		case a.From.IsZero() && b.From.IsZero():
			return 0
		case a.From.IsZero():
			return 1
		case b.From.IsZero():
			return -1
		}
		return a.From.Compare(b.From)
	default:
		return cmp.Compare(a.Order, b.Order)
	}
}

func parseSortMode(mode string) (key string, desc bool, err error) {
	key, desc = strings.CutPrefix(mode, "-")
	switch key {
	case "", SortByName:
		return SortByName, desc, nil
	case SortByDate, "from":
		return SortByDate, desc, nil
	case SortByCustom, "order":
		return SortByCustom, desc, nil
	}
	return "", false, errors.New(errors.ErrCodeInvalidConfig, "unknown sort mode %q", mode)
}

// taskChanged widens the range for t under the expand policy and refreshes
// the layout.
func (g *Gantt) taskChanged(t *Task) {
	if g.opts.OutOfRange == OutOfRangeExpand {
		g.widen(Range{From: calendar.Min(t.From, t.To), To: calendar.Max(t.From, t.To)})
	}
	g.refresh()
	g.emit(Event{Kind: TaskChanged, Row: t.row, Task: t})
}
