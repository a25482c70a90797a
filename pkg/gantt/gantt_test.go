package gantt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ganttgrid/pkg/calendar"
	"github.com/matzehuels/ganttgrid/pkg/column"
	"github.com/matzehuels/ganttgrid/pkg/errors"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func newGantt(t *testing.T, mutate func(*Options)) *Gantt {
	t.Helper()
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	g, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func countGenerations(g *Gantt) *int {
	n := new(int)
	g.Subscribe(func(e Event) {
		if e.Kind == ColumnsGenerated {
			*n++
		}
	})
	return n
}

func workWeek(o *Options) {
	o.Columns.ShowWeekends = false
	o.From, o.To = day(2024, 1, 1, 0), day(2024, 1, 8, 0)
}

func firstWeek(o *Options) {
	o.From, o.To = day(2024, 1, 1, 0), day(2024, 1, 8, 0)
}

// =============================================================================
// Columns
// =============================================================================

func TestWorkWeekGrid(t *testing.T) {
	g := newGantt(t, workWeek)

	cols := g.Columns()
	if len(cols) != 5 {
		t.Fatalf("len(Columns()) = %d, want 5", len(cols))
	}
	for i, c := range cols {
		if got := c.Geometry().Left; got != float64(2*i) {
			t.Errorf("cols[%d].Left = %v, want %v", i, got, 2*i)
		}
	}
	if g.Width() != 10 {
		t.Errorf("Width() = %v, want 10", g.Width())
	}
	pos, ok := g.PositionByDate(day(2024, 1, 3, 12))
	if !ok || pos != 5 {
		t.Errorf("PositionByDate(Jan 3 12:00) = %v, %v, want 5, true", pos, ok)
	}
}

func TestPositionByDateSameInstantAcrossZones(t *testing.T) {
	g := newGantt(t, firstWeek)
	eet := time.FixedZone("EET", 2*60*60)

	tests := []struct {
		name string
		at   time.Time
	}{
		{"midday", day(2024, 1, 3, 12)},
		{"next local day", time.Date(2024, 1, 3, 23, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, ok := g.PositionByDate(tt.at)
			if !ok {
				t.Fatalf("PositionByDate(%v) not found", tt.at)
			}
			got, ok := g.PositionByDate(tt.at.In(eet))
			if !ok || got != want {
				t.Errorf("PositionByDate(%v) = %v, %v, want %v, true", tt.at.In(eet), got, ok, want)
			}
			col, _ := g.ColumnByDate(tt.at.In(eet))
			if col == nil || !col.ContainsDate(tt.at) {
				t.Errorf("ColumnByDate(%v) does not hold the UTC instant", tt.at.In(eet))
			}
		})
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		code   errors.Code
	}{
		{"out of range", func(o *Options) { o.OutOfRange = "clip" }, errors.ErrCodeInvalidConfig},
		{"auto expand", func(o *Options) { o.AutoExpand = "up" }, errors.ErrCodeInvalidConfig},
		{"sort mode", func(o *Options) { o.SortMode = "size" }, errors.ErrCodeInvalidConfig},
		{"scale", func(o *Options) { o.Columns.Scale = calendar.Minute }, errors.ErrCodeUnsupportedScale},
		{"column width", func(o *Options) { o.Columns.ColumnWidth = 0 }, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			_, err := New(opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("New() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRequestDateRangeIdempotent(t *testing.T) {
	g := newGantt(t, workWeek)
	n := countGenerations(g)

	g.RequestDateRange(day(2024, 1, 1, 0), day(2024, 1, 8, 0))
	g.RequestDateRange(day(2024, 1, 2, 0), day(2024, 1, 4, 0))
	if *n != 0 {
		t.Errorf("covered requests regenerated %d times, want 0", *n)
	}

	g.RequestDateRange(day(2024, 1, 1, 0), day(2024, 1, 15, 0))
	if *n != 1 {
		t.Errorf("wider request regenerated %d times, want 1", *n)
	}
	if got := len(g.Columns()); got != 10 {
		t.Errorf("len(Columns()) = %d, want 10", got)
	}
	g.RequestDateRange(day(2024, 1, 1, 0), day(2024, 1, 15, 0))
	if *n != 1 {
		t.Errorf("repeated request regenerated %d times, want 1", *n)
	}
}

func TestRequestDateRangeIgnoresZeroBounds(t *testing.T) {
	g := newGantt(t, nil)
	g.RequestDateRange(time.Time{}, day(2024, 1, 8, 0))
	if _, ok := g.DateRange(); ok {
		t.Error("DateRange() defined after a request without from")
	}
	if len(g.Columns()) != 0 {
		t.Error("columns generated without a range")
	}
}

func TestHourScaleIdempotent(t *testing.T) {
	g := newGantt(t, func(o *Options) {
		o.Columns.Scale = calendar.Hour
		o.Columns.ShowNonWorkHours = false
		o.Columns.ShowWeekends = false
		o.From, o.To = day(2024, 1, 5, 0), day(2024, 1, 9, 0)
	})
	// Friday and Monday, work hours 8 through 16.
	if got := len(g.Columns()); got != 18 {
		t.Fatalf("len(Columns()) = %d, want 18", got)
	}
	n := countGenerations(g)
	g.RequestDateRange(day(2024, 1, 5, 0), day(2024, 1, 9, 0))
	if *n != 0 {
		t.Errorf("repeated request regenerated %d times, want 0", *n)
	}
}

func TestTruncateKeepsRequestedRange(t *testing.T) {
	g := newGantt(t, func(o *Options) {
		o.OutOfRange = OutOfRangeTruncate
		firstWeek(o)
	})
	g.RequestDateRange(day(2024, 1, 3, 0), day(2024, 1, 5, 0))

	r, _ := g.DateRange()
	if !r.From.Equal(day(2024, 1, 3, 0)) || !r.To.Equal(day(2024, 1, 5, 0)) {
		t.Errorf("DateRange() = %v, want Jan 3..Jan 5", r)
	}
	if got := len(g.Columns()); got != 2 {
		t.Errorf("len(Columns()) = %d, want 2", got)
	}
}

func TestAutoExpand(t *testing.T) {
	g := newGantt(t, func(o *Options) {
		o.AutoExpand = AutoExpandRight
		firstWeek(o)
	})

	if g.AutoExpand(day(2024, 1, 1, 0), Left) {
		t.Error("AutoExpand(Left) = true under right-only policy")
	}
	if !g.AutoExpand(day(2024, 1, 8, 0), Right) {
		t.Fatal("AutoExpand(Right) = false, want true")
	}
	r, _ := g.DateRange()
	if want := day(2024, 2, 8, 0); !r.To.Equal(want) {
		t.Errorf("DateRange().To = %v, want %v", r.To, want)
	}
	if got := len(g.Columns()); got != 38 {
		t.Errorf("len(Columns()) = %d, want 38", got)
	}
}

func TestBatchCoalesces(t *testing.T) {
	for _, policy := range []OutOfRange{OutOfRangeExpand, OutOfRangeTruncate} {
		t.Run(string(policy), func(t *testing.T) {
			g := newGantt(t, func(o *Options) { o.OutOfRange = policy })
			n := countGenerations(g)

			g.Batch(func() {
				g.RequestDateRange(day(2024, 1, 1, 0), day(2024, 1, 8, 0))
				g.Batch(func() {
					g.RequestDateRange(day(2024, 1, 1, 0), day(2024, 1, 20, 0))
				})
				if *n != 0 {
					t.Errorf("regenerated inside batch")
				}
			})

			if *n != 1 {
				t.Errorf("batch regenerated %d times, want 1", *n)
			}
			if got := len(g.Columns()); got != 19 {
				t.Errorf("len(Columns()) = %d, want 19", got)
			}
		})
	}
}

func TestRegenerateColumns(t *testing.T) {
	g := newGantt(t, nil)
	if g.RegenerateColumns() {
		t.Error("RegenerateColumns() = true without a range")
	}
	g.RequestDateRange(day(2024, 1, 1, 0), day(2024, 1, 8, 0))
	n := countGenerations(g)
	if !g.RegenerateColumns() || *n != 1 {
		t.Errorf("RegenerateColumns() did not regenerate once, got %d", *n)
	}
}

// =============================================================================
// Queries
// =============================================================================

func TestColumnByPositionExtends(t *testing.T) {
	g := newGantt(t, firstWeek)

	c, ok := g.ColumnByPosition(-3)
	if !ok {
		t.Fatal("ColumnByPosition(-3) found nothing")
	}
	if got := c.Geometry().Date; !got.Equal(day(2023, 12, 30, 0)) {
		t.Errorf("ColumnByPosition(-3).Date = %v, want Dec 30", got)
	}
	if len(g.PreviousColumns()) == 0 {
		t.Error("PreviousColumns() empty after negative lookup")
	}
	if got := len(g.Columns()); got != 7 {
		t.Errorf("main grid changed to %d columns", got)
	}

	c, ok = g.ColumnByPosition(15)
	if !ok || !c.Geometry().Date.Equal(day(2024, 1, 8, 0)) {
		t.Errorf("ColumnByPosition(15) = %v, want Jan 8", c)
	}
	next := g.NextColumns()
	if len(next) == 0 || next[0].Geometry().Left != g.Width() {
		t.Errorf("NextColumns() does not start at the grid width")
	}
}

func TestColumnByDateExtends(t *testing.T) {
	g := newGantt(t, firstWeek)

	c, ok := g.ColumnByDate(day(2023, 12, 29, 6))
	if !ok || !c.Geometry().Date.Equal(day(2023, 12, 29, 0)) {
		t.Fatalf("ColumnByDate(Dec 29) = %v, %v", c, ok)
	}
	if c.Geometry().Left != -6 {
		t.Errorf("Dec 29 left = %v, want -6", c.Geometry().Left)
	}
	pos, _ := g.PositionByDate(day(2024, 1, 10, 12))
	if pos != 19 {
		t.Errorf("PositionByDate(Jan 10 12:00) = %v, want 19", pos)
	}
}

func TestColumnByDateCachesHiddenBuffer(t *testing.T) {
	var buf bytes.Buffer
	g := newGantt(t, func(o *Options) {
		workWeek(o)
		o.Logger = log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	})
	sunday := day(2023, 12, 31, 12)

	for range 3 {
		c, ok := g.ColumnByDate(sunday)
		if !ok || !c.Geometry().Date.Equal(day(2024, 1, 1, 0)) {
			t.Fatalf("ColumnByDate(Dec 31) = %v, %v, want Jan 1 column", c, ok)
		}
	}
	if n := len(g.PreviousColumns()); n != 0 {
		t.Errorf("len(PreviousColumns()) = %d, want 0", n)
	}
	if n := strings.Count(buf.String(), "extended columns"); n != 1 {
		t.Errorf("buffer generated %d times, want 1", n)
	}

	// A date further back still extends.
	if _, ok := g.ColumnByDate(day(2023, 12, 29, 6)); !ok {
		t.Fatal("ColumnByDate(Dec 29) not found")
	}
	if n := len(g.PreviousColumns()); n != 1 {
		t.Errorf("len(PreviousColumns()) = %d, want 1", n)
	}
}

func TestDateByPosition(t *testing.T) {
	g := newGantt(t, func(o *Options) {
		o.Columns.SubScale = 24
		firstWeek(o)
	})
	got, _ := g.DateByPosition(0.9, column.SnapNone)
	if want := day(2024, 1, 1, 11); !got.Equal(want) {
		t.Errorf("DateByPosition(0.9) = %v, want %v", got, want)
	}

	g = newGantt(t, func(o *Options) {
		o.Columns.SubScale = 24
		o.Magnet = calendar.Magnet{Value: 6, Unit: calendar.Hour}
		firstWeek(o)
	})
	got, _ = g.DateByPosition(0.9, column.SnapNone)
	if want := day(2024, 1, 1, 12); !got.Equal(want) {
		t.Errorf("DateByPosition(0.9) with magnet = %v, want %v", got, want)
	}
}

func TestDateByPositionSnapsOverWeekend(t *testing.T) {
	g := newGantt(t, func(o *Options) {
		o.Columns.ShowWeekends = false
		o.From, o.To = day(2024, 1, 1, 0), day(2024, 1, 15, 0)
	})
	got, _ := g.DateByPosition(9.99, column.SnapForward)
	if want := day(2024, 1, 8, 0); !got.Equal(want) {
		t.Errorf("forward snap = %v, want %v", got, want)
	}
	got, _ = g.DateByPosition(10, column.SnapBackward)
	if want := day(2024, 1, 6, 0); !got.Equal(want) {
		t.Errorf("backward snap = %v, want %v", got, want)
	}
}

func TestVisible(t *testing.T) {
	g := newGantt(t, firstWeek)

	tests := []struct {
		left, width float64
		want        []float64
	}{
		{4, 5, []float64{4, 6, 8}},
		{4, 4, []float64{4, 6}},
		{5, 0.5, []float64{4}},
		{-5, 3, nil},
		{0, 100, []float64{0, 2, 4, 6, 8, 10, 12}},
	}
	for _, tt := range tests {
		cols := g.VisibleColumns(tt.left, tt.width)
		var got []float64
		for _, c := range cols {
			got = append(got, c.Geometry().Left)
		}
		if len(got) != len(tt.want) {
			t.Errorf("VisibleColumns(%v, %v) = %v, want %v", tt.left, tt.width, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("VisibleColumns(%v, %v) = %v, want %v", tt.left, tt.width, got, tt.want)
				break
			}
		}
	}
}

func TestCurrentDate(t *testing.T) {
	g := newGantt(t, func(o *Options) {
		o.CurrentDate = day(2024, 1, 3, 10)
		firstWeek(o)
	})
	c, ok := g.CurrentColumn()
	if !ok || !c.Geometry().Date.Equal(day(2024, 1, 3, 0)) {
		t.Fatalf("CurrentColumn() = %v, %v, want Jan 3", c, ok)
	}

	g.SetCurrentDate(day(2024, 1, 5, 0))
	c, _ = g.CurrentColumn()
	if !c.Geometry().Date.Equal(day(2024, 1, 5, 0)) {
		t.Errorf("CurrentColumn() after move = %v, want Jan 5", c.Geometry().Date)
	}

	g.SetCurrentDate(time.Time{})
	if _, ok := g.CurrentColumn(); ok {
		t.Error("CurrentColumn() found after clearing the marker")
	}
}

func TestHeaders(t *testing.T) {
	g := newGantt(t, func(o *Options) {
		o.Columns.Scale = calendar.Week
		o.Columns.FirstDayOfWeek = time.Monday
		o.From, o.To = day(2024, 1, 1, 0), day(2024, 3, 4, 0)
	})
	h := g.Headers()
	if len(h.Week) != 9 {
		t.Errorf("len(Headers().Week) = %d, want 9", len(h.Week))
	}
	if len(h.Month) != 2 {
		t.Fatalf("len(Headers().Month) = %d, want 2", len(h.Month))
	}
	if h.Month[0].Geometry().Width != 10 {
		t.Errorf("January width = %v, want 10", h.Month[0].Geometry().Width)
	}
	if h.Day != nil || h.Hour != nil {
		t.Error("week scale produced day or hour bands")
	}
}

// =============================================================================
// Rows and tasks
// =============================================================================

func intPtr(v int) *int { return &v }

func TestAddDataExpandsRange(t *testing.T) {
	g := newGantt(t, nil)
	err := g.AddData([]RowData{{
		ID:   "r1",
		Name: "Row 1",
		Tasks: []TaskData{
			{ID: "t1", Name: "Task", From: day(2024, 1, 10, 0), To: day(2024, 1, 12, 0)},
		},
	}})
	if err != nil {
		t.Fatalf("AddData() error = %v", err)
	}

	r, ok := g.DateRange()
	if !ok || !r.From.Equal(day(2024, 1, 10, 0)) || !r.To.Equal(day(2024, 1, 12, 0)) {
		t.Errorf("DateRange() = %v, want Jan 10..Jan 12", r)
	}
	row, _ := g.Row("r1")
	task, _ := row.Task("t1")
	if task.Left != 0 || task.Width != 4 || task.TruncatedLeft || task.TruncatedRight {
		t.Errorf("task = left %v width %v truncated %v/%v, want 0/4 untruncated",
			task.Left, task.Width, task.TruncatedLeft, task.TruncatedRight)
	}

	late, err := row.AddTask(TaskData{ID: "t2", From: day(2024, 1, 20, 0), To: day(2024, 1, 21, 0)})
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	if late.OutOfRange || late.Left != 20 || late.Width != 2 {
		t.Errorf("late task = left %v width %v out %v, want 20/2 in range", late.Left, late.Width, late.OutOfRange)
	}
	if !row.To.Equal(day(2024, 1, 21, 0)) {
		t.Errorf("row.To = %v, want Jan 21", row.To)
	}
}

func TestTruncateClipsTasks(t *testing.T) {
	g := newGantt(t, func(o *Options) {
		o.OutOfRange = OutOfRangeTruncate
		firstWeek(o)
	})
	err := g.AddData([]RowData{{ID: "r", Tasks: []TaskData{
		{ID: "early", From: day(2023, 12, 30, 0), To: day(2024, 1, 3, 0)},
		{ID: "late", From: day(2024, 1, 6, 0), To: day(2024, 1, 10, 0)},
		{ID: "gone", From: day(2024, 2, 1, 0), To: day(2024, 2, 2, 0)},
	}}})
	if err != nil {
		t.Fatalf("AddData() error = %v", err)
	}
	if r, _ := g.DateRange(); !r.To.Equal(day(2024, 1, 8, 0)) {
		t.Errorf("DateRange() grew to %v under truncate", r)
	}
	row, _ := g.Row("r")

	early, _ := row.Task("early")
	if early.ModelLeft != -4 || early.Left != 0 || early.Width != 4 || !early.TruncatedLeft || early.TruncatedRight {
		t.Errorf("early = model %v left %v width %v truncated %v/%v",
			early.ModelLeft, early.Left, early.Width, early.TruncatedLeft, early.TruncatedRight)
	}
	late, _ := row.Task("late")
	if late.Left != 10 || late.Width != 4 || late.TruncatedLeft || !late.TruncatedRight {
		t.Errorf("late = left %v width %v truncated %v/%v",
			late.Left, late.Width, late.TruncatedLeft, late.TruncatedRight)
	}
	gone, _ := row.Task("gone")
	if !gone.OutOfRange {
		t.Error("task after the range not marked out of range")
	}
}

func TestMilestone(t *testing.T) {
	g := newGantt(t, firstWeek)
	_ = g.AddData([]RowData{{ID: "r", Tasks: []TaskData{
		{ID: "m", From: day(2024, 1, 3, 12), To: day(2024, 1, 3, 12)},
	}}})
	row, _ := g.Row("r")
	m, _ := row.Task("m")
	if !m.IsMilestone || m.Width != 0 || m.Left != 5 {
		t.Errorf("milestone = %v left %v width %v, want true/5/0", m.IsMilestone, m.Left, m.Width)
	}
}

func TestTaskBounds(t *testing.T) {
	g := newGantt(t, firstWeek)
	_ = g.AddData([]RowData{{ID: "r", Tasks: []TaskData{{
		ID:   "t",
		From: day(2024, 1, 3, 0), To: day(2024, 1, 4, 0),
		Est: day(2024, 1, 2, 0), Lct: day(2024, 1, 6, 0),
	}}}})
	row, _ := g.Row("r")
	task, _ := row.Task("t")
	if task.Bounds == nil || task.Bounds.Left != 2 || task.Bounds.Width != 8 {
		t.Errorf("Bounds = %+v, want left 2 width 8", task.Bounds)
	}
}

func TestAddDataRejectsMissingIDs(t *testing.T) {
	g := newGantt(t, nil)
	if err := g.AddData([]RowData{{Name: "anonymous"}}); !errors.IsInvalid(err) {
		t.Errorf("AddData(no row id) error = %v, want invalid", err)
	}
	if err := g.AddData([]RowData{{ID: "r", Tasks: []TaskData{{Name: "x"}}}}); !errors.IsInvalid(err) {
		t.Errorf("AddData(no task id) error = %v, want invalid", err)
	}
}

func TestAddDataUpserts(t *testing.T) {
	g := newGantt(t, firstWeek)
	var added, changed int
	g.Subscribe(func(e Event) {
		switch e.Kind {
		case RowAdded:
			added++
		case RowChanged:
			changed++
		}
	})

	_ = g.AddData([]RowData{{ID: "r", Name: "old", Tasks: []TaskData{
		{ID: "t", From: day(2024, 1, 2, 0), To: day(2024, 1, 3, 0)},
	}}})
	_ = g.AddData([]RowData{{ID: "r", Name: "new", Tasks: []TaskData{
		{ID: "t", From: day(2024, 1, 4, 0), To: day(2024, 1, 5, 0)},
	}}})

	if added != 1 || changed != 1 {
		t.Errorf("added/changed = %d/%d, want 1/1", added, changed)
	}
	rows := g.Rows()
	if len(rows) != 1 || rows[0].Name != "new" {
		t.Fatalf("Rows() = %v, want one row named new", rows)
	}
	tasks := rows[0].Tasks()
	if len(tasks) != 1 {
		t.Fatalf("row has %d tasks, want 1", len(tasks))
	}
	if tasks[0].Left != 6 {
		t.Errorf("task left = %v, want 6", tasks[0].Left)
	}
}

func rowNames(rows []*Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortAndSwapRows(t *testing.T) {
	g := newGantt(t, nil)
	_ = g.AddData([]RowData{
		{ID: "b", Name: "b"},
		{ID: "a", Name: "a"},
		{ID: "c", Name: "c"},
	})
	if got := rowNames(g.Rows()); !equalNames(got, []string{"a", "b", "c"}) {
		t.Errorf("rows by name = %v", got)
	}

	if !g.SwapRows("a", "c") {
		t.Fatal("SwapRows() = false")
	}
	if got := rowNames(g.Rows()); !equalNames(got, []string{"b", "c", "a"}) {
		t.Errorf("rows after swap = %v, want [b c a]", got)
	}
	if g.Options().SortMode != SortByCustom {
		t.Errorf("SortMode = %q after swap, want custom", g.Options().SortMode)
	}
	if g.SwapRows("a", "missing") {
		t.Error("SwapRows() with unknown id = true")
	}
}

func TestSortRowsByDate(t *testing.T) {
	g := newGantt(t, func(o *Options) { o.SortMode = "-date" })
	_ = g.AddData([]RowData{
		{ID: "1", Name: "early", Tasks: []TaskData{{ID: "t", From: day(2024, 1, 1, 0), To: day(2024, 1, 2, 0)}}},
		{ID: "2", Name: "empty"},
		{ID: "3", Name: "late", Tasks: []TaskData{{ID: "t", From: day(2024, 1, 5, 0), To: day(2024, 1, 6, 0)}}},
	})
	if got := rowNames(g.Rows()); !equalNames(got, []string{"empty", "late", "early"}) {
		t.Errorf("rows by -date = %v, want [empty late early]", got)
	}
}

func TestExplicitOrder(t *testing.T) {
	g := newGantt(t, func(o *Options) { o.SortMode = SortByCustom })
	_ = g.AddData([]RowData{
		{ID: "x", Name: "x", Order: intPtr(5)},
		{ID: "y", Name: "y"},
		{ID: "z", Name: "z", Order: intPtr(1)},
	})
	if got := rowNames(g.Rows()); !equalNames(got, []string{"z", "x", "y"}) {
		t.Errorf("rows by order = %v, want [z x y]", got)
	}
	y, _ := g.Row("y")
	if y.Order != 6 {
		t.Errorf("y.Order = %d, want 6", y.Order)
	}
}

func TestRemoveData(t *testing.T) {
	g := newGantt(t, firstWeek)
	_ = g.AddData([]RowData{
		{ID: "a", Tasks: []TaskData{
			{ID: "t1", From: day(2024, 1, 1, 0), To: day(2024, 1, 2, 0)},
			{ID: "t2", From: day(2024, 1, 4, 0), To: day(2024, 1, 5, 0)},
		}},
		{ID: "b"},
	})

	g.RemoveData([]RowData{{ID: "a", Tasks: []TaskData{{ID: "t1"}}}, {ID: "b"}, {ID: "missing"}})

	if _, ok := g.Row("b"); ok {
		t.Error("row b still present")
	}
	a, _ := g.Row("a")
	if len(a.Tasks()) != 1 {
		t.Errorf("row a has %d tasks, want 1", len(a.Tasks()))
	}
	if !a.From.Equal(day(2024, 1, 4, 0)) {
		t.Errorf("a.From = %v, want Jan 4", a.From)
	}

	g.RemoveAllRows()
	if len(g.Rows()) != 0 || len(g.Columns()) != 0 {
		t.Error("RemoveAllRows() left rows or columns")
	}
	if _, ok := g.DateRange(); ok {
		t.Error("DateRange() still defined after RemoveAllRows()")
	}
}

func TestTaskEditing(t *testing.T) {
	g := newGantt(t, firstWeek)
	_ = g.AddData([]RowData{{ID: "r", Tasks: []TaskData{
		{ID: "t", From: day(2024, 1, 2, 0), To: day(2024, 1, 4, 0)},
	}}})
	row, _ := g.Row("r")
	task, _ := row.Task("t")

	if !task.SetFrom(4) || !task.From.Equal(day(2024, 1, 3, 0)) || task.Left != 4 {
		t.Errorf("SetFrom(4) = %v left %v, want Jan 3 left 4", task.From, task.Left)
	}
	if !task.SetTo(10) || !task.To.Equal(day(2024, 1, 6, 0)) || task.Width != 6 {
		t.Errorf("SetTo(10) = %v width %v, want Jan 6 width 6", task.To, task.Width)
	}
	if !task.MoveTo(0) {
		t.Fatal("MoveTo(0) = false")
	}
	if !task.From.Equal(day(2024, 1, 1, 0)) || !task.To.Equal(day(2024, 1, 4, 0)) {
		t.Errorf("MoveTo(0) = %v..%v, want Jan 1..Jan 4", task.From, task.To)
	}
	if task.Left != 0 || task.Width != 6 {
		t.Errorf("MoveTo(0) geometry = %v/%v, want 0/6", task.Left, task.Width)
	}
	if !row.From.Equal(day(2024, 1, 1, 0)) {
		t.Errorf("row.From = %v, want Jan 1", row.From)
	}
}

func TestMoveTask(t *testing.T) {
	g := newGantt(t, firstWeek)
	_ = g.AddData([]RowData{
		{ID: "a", Tasks: []TaskData{{ID: "t", From: day(2024, 1, 2, 0), To: day(2024, 1, 3, 0)}}},
		{ID: "b"},
	})
	a, _ := g.Row("a")
	b, _ := g.Row("b")
	task, _ := a.Task("t")

	b.MoveTask(task)

	if len(a.Tasks()) != 0 || !a.From.IsZero() {
		t.Errorf("source row keeps %d tasks, from %v", len(a.Tasks()), a.From)
	}
	if got, ok := b.Task("t"); !ok || got.Row() != b {
		t.Error("task not owned by target row")
	}
	if !b.From.Equal(day(2024, 1, 2, 0)) {
		t.Errorf("b.From = %v, want Jan 2", b.From)
	}
}

func TestMoveTaskReplacesSameID(t *testing.T) {
	g := newGantt(t, firstWeek)
	_ = g.AddData([]RowData{
		{ID: "a", Tasks: []TaskData{{ID: "t", From: day(2024, 1, 2, 0), To: day(2024, 1, 3, 0)}}},
		{ID: "b", Tasks: []TaskData{{ID: "t", From: day(2024, 1, 5, 0), To: day(2024, 1, 6, 0)}}},
	})
	a, _ := g.Row("a")
	b, _ := g.Row("b")
	moved, _ := a.Task("t")

	var removed []*Task
	g.Subscribe(func(e Event) {
		if e.Kind == TaskRemoved {
			removed = append(removed, e.Task)
		}
	})
	b.MoveTask(moved)

	if n := len(b.Tasks()); n != 1 || b.Tasks()[0] != moved {
		t.Fatalf("b holds %d tasks, want only the moved one", n)
	}
	if got, _ := b.Task("t"); got != moved {
		t.Error("b.Task(t) is not the moved task")
	}
	if len(removed) != 2 {
		t.Errorf("TaskRemoved events = %d, want 2", len(removed))
	}
	if !b.From.Equal(day(2024, 1, 2, 0)) || !b.To.Equal(day(2024, 1, 3, 0)) {
		t.Errorf("b range = %v..%v, want Jan 2..Jan 3", b.From, b.To)
	}
}

// =============================================================================
// Timespans
// =============================================================================

func TestTimespans(t *testing.T) {
	g := newGantt(t, firstWeek)
	err := g.AddTimespans([]TimespanData{
		{ID: "freeze", Name: "Freeze", From: day(2024, 1, 3, 0), To: day(2024, 1, 5, 0)},
		{ID: "release", From: day(2024, 1, 10, 0), To: day(2024, 1, 11, 0)},
	})
	if err != nil {
		t.Fatalf("AddTimespans() error = %v", err)
	}

	freeze, _ := g.Timespan("freeze")
	if freeze.Left != 4 || freeze.Width != 4 {
		t.Errorf("freeze = %v/%v, want 4/4", freeze.Left, freeze.Width)
	}
	release, _ := g.Timespan("release")
	if release.Left != 18 || release.Width != 2 {
		t.Errorf("release = %v/%v, want 18/2", release.Left, release.Width)
	}
	if got := len(g.Columns()); got != 10 {
		t.Errorf("len(Columns()) = %d, want 10", got)
	}

	if !freeze.MoveTo(0) || !freeze.From.Equal(day(2024, 1, 1, 0)) || !freeze.To.Equal(day(2024, 1, 3, 0)) {
		t.Errorf("MoveTo(0) = %v..%v, want Jan 1..Jan 3", freeze.From, freeze.To)
	}

	g.RemoveTimespans("freeze", "missing")
	if got := len(g.Timespans()); got != 1 {
		t.Errorf("len(Timespans()) = %d, want 1", got)
	}
	g.RemoveAllTimespans()
	if got := len(g.Timespans()); got != 0 {
		t.Errorf("len(Timespans()) = %d after RemoveAllTimespans", got)
	}
}

func TestTimespansDoNotWidenUnderTruncate(t *testing.T) {
	g := newGantt(t, func(o *Options) {
		o.OutOfRange = OutOfRangeTruncate
		firstWeek(o)
	})
	_ = g.AddTimespans([]TimespanData{{ID: "x", From: day(2024, 1, 10, 0), To: day(2024, 1, 11, 0)}})
	if got := len(g.Columns()); got != 7 {
		t.Errorf("len(Columns()) = %d, want 7", got)
	}
}

// =============================================================================
// Events and snapshot
// =============================================================================

func TestUnsubscribe(t *testing.T) {
	g := newGantt(t, nil)
	var kinds []EventKind
	stop := g.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })

	_ = g.AddData([]RowData{{ID: "r"}})
	stop()
	_ = g.AddData([]RowData{{ID: "s"}})

	if len(kinds) != 1 || kinds[0] != RowAdded {
		t.Errorf("events = %v, want [row.added]", kinds)
	}
	if RowAdded.String() != "row.added" || EventKind(99).String() != "unknown" {
		t.Error("EventKind.String() mismatch")
	}
}

func TestSnapshot(t *testing.T) {
	g := newGantt(t, workWeek)
	_ = g.AddData([]RowData{{ID: "r", Name: "Row", Tasks: []TaskData{
		{ID: "t", Name: "Task", From: day(2024, 1, 2, 0), To: day(2024, 1, 3, 0)},
	}}})

	s := g.Snapshot()
	if s.Scale != "day" || s.Width != 10 || len(s.Columns) != 5 {
		t.Errorf("Snapshot() = scale %q width %v columns %d", s.Scale, s.Width, len(s.Columns))
	}
	if s.Range == nil || !s.Range.From.Equal(day(2024, 1, 1, 0)) {
		t.Errorf("Snapshot().Range = %v", s.Range)
	}
	if len(s.Headers) != 1 || s.Headers[0].Unit != "day" {
		t.Errorf("Snapshot().Headers = %v, want one day band", s.Headers)
	}
	if len(s.Rows) != 1 || len(s.Rows[0].Tasks) != 1 || s.Rows[0].Tasks[0].Left != 2 {
		t.Errorf("Snapshot().Rows = %+v", s.Rows)
	}
}
