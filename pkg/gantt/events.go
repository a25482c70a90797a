package gantt

// EventKind identifies a change notification.
type EventKind int

const (
	RowAdded EventKind = iota
	RowChanged
	RowRemoved
	TaskChanged
	TaskRemoved
	TimespanAdded
	TimespanChanged
	TimespanRemoved
	ColumnsGenerated
)

var eventNames = [...]string{
	RowAdded:         "row.added",
	RowChanged:       "row.changed",
	RowRemoved:       "row.removed",
	TaskChanged:      "task.changed",
	TaskRemoved:      "task.removed",
	TimespanAdded:    "timespan.added",
	TimespanChanged:  "timespan.changed",
	TimespanRemoved:  "timespan.removed",
	ColumnsGenerated: "columns.generated",
}

func (k EventKind) String() string {
	if int(k) >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event describes one change. Only the fields relevant to Kind are set.
type Event struct {
	Kind     EventKind
	Row      *Row
	Task     *Task
	Timespan *Timespan
}

type observer struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it. Observers run synchronously in registration order.
func (g *Gantt) Subscribe(fn func(Event)) (unsubscribe func()) {
	g.nextObserver++
	id := g.nextObserver
	g.observers = append(g.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range g.observers {
			if o.id == id {
				g.observers = append(g.observers[:i:i], g.observers[i+1:]...)
				return
			}
		}
	}
}

func (g *Gantt) emit(e Event) {
	for _, o := range g.observers {
		o.fn(e)
	}
}
