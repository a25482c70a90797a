package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ganttgrid/pkg/errors"
	"github.com/matzehuels/ganttgrid/pkg/gantt"
)

// Format is a serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want json or yaml)", s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Dataset is the file representation of rows, tasks and timespans.
type Dataset struct {
	Range     *RangeData     `json:"range,omitempty" yaml:"range,omitempty"`
	Rows      []RowData      `json:"rows" yaml:"rows"`
	Timespans []TimespanData `json:"timespans,omitempty" yaml:"timespans,omitempty"`
}

// RangeData is a date range with textual bounds.
type RangeData struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// RowData is a row in a dataset file.
type RowData struct {
	ID    string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string         `json:"name" yaml:"name"`
	Order *int           `json:"order,omitempty" yaml:"order,omitempty"`
	Data  map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	Tasks []ItemData     `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// ItemData is a task in a dataset file.
type ItemData struct {
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string         `json:"name" yaml:"name"`
	Color    string         `json:"color,omitempty" yaml:"color,omitempty"`
	Classes  []string       `json:"classes,omitempty" yaml:"classes,omitempty"`
	Priority int            `json:"priority,omitempty" yaml:"priority,omitempty"`
	From     string         `json:"from" yaml:"from"`
	To       string         `json:"to" yaml:"to"`
	Est      string         `json:"est,omitempty" yaml:"est,omitempty"`
	Lct      string         `json:"lct,omitempty" yaml:"lct,omitempty"`
	Data     map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// TimespanData is a timespan in a dataset file. It has the same fields as
// a task.
type TimespanData = ItemData

// ReadDataset decodes a dataset from r and assigns ids where missing.
// ReadDataset does not close r.
func ReadDataset(r io.Reader, format Format) (*Dataset, error) {
	var d Dataset
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&d)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&d)
		if err == io.EOF {
			err = nil
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s dataset", format)
	}
	d.Normalize()
	return &d, nil
}

// ImportDataset reads the dataset file at path.
func ImportDataset(path string) (*Dataset, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDataset(f, format)
}

// Normalize assigns random ids to rows, tasks and timespans without one.
func (d *Dataset) Normalize() {
	for i := range d.Rows {
		row := &d.Rows[i]
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		for j := range row.Tasks {
			if row.Tasks[j].ID == "" {
				row.Tasks[j].ID = uuid.NewString()
			}
		}
	}
	for i := range d.Timespans {
		if d.Timespans[i].ID == "" {
			d.Timespans[i].ID = uuid.NewString()
		}
	}
}

// DateRange parses the range section. ok is false when the dataset has none.
func (d *Dataset) DateRange(loc *time.Location) (r gantt.Range, ok bool, err error) {
	if d.Range == nil {
		return gantt.Range{}, false, nil
	}
	if r.From, err = ParseTime(d.Range.From, loc); err != nil {
		return gantt.Range{}, false, errors.Wrap(errors.ErrCodeInvalidDate, err, "range from")
	}
	if r.To, err = ParseTime(d.Range.To, loc); err != nil {
		return gantt.Range{}, false, errors.Wrap(errors.ErrCodeInvalidDate, err, "range to")
	}
	if err := errors.ValidateRange(r.From, r.To); err != nil {
		return gantt.Range{}, false, err
	}
	return r, true, nil
}

// RowData converts the rows into coordinator payloads.
func (d *Dataset) RowData(loc *time.Location) ([]gantt.RowData, error) {
	out := make([]gantt.RowData, 0, len(d.Rows))
	for _, row := range d.Rows {
		rd := gantt.RowData{ID: row.ID, Name: row.Name, Order: row.Order, Data: row.Data}
		for _, it := range row.Tasks {
			td, err := it.task(loc)
			if err != nil {
				return nil, fmt.Errorf("row %s: %w", row.ID, err)
			}
			rd.Tasks = append(rd.Tasks, td)
		}
		out = append(out, rd)
	}
	return out, nil
}

// TimespanData converts the timespans into coordinator payloads.
func (d *Dataset) TimespanData(loc *time.Location) ([]gantt.TimespanData, error) {
	out := make([]gantt.TimespanData, 0, len(d.Timespans))
	for _, it := range d.Timespans {
		td, err := it.task(loc)
		if err != nil {
			return nil, err
		}
		out = append(out, gantt.TimespanData(td))
	}
	return out, nil
}

func (it ItemData) task(loc *time.Location) (gantt.TaskData, error) {
	td := gantt.TaskData{
		ID:       it.ID,
		Name:     it.Name,
		Color:    it.Color,
		Classes:  it.Classes,
		Priority: it.Priority,
		Data:     it.Data,
	}
	var err error
	if td.From, err = ParseTime(it.From, loc); err != nil {
		return td, errors.Wrap(errors.ErrCodeInvalidDate, err, "%s from", it.ID)
	}
	if td.To, err = ParseTime(it.To, loc); err != nil {
		return td, errors.Wrap(errors.ErrCodeInvalidDate, err, "%s to", it.ID)
	}
	if td.To.Before(td.From) {
		return td, errors.New(errors.ErrCodeInvalidDate, "%s ends before it starts", it.ID)
	}
	if it.Est != "" || it.Lct != "" {
		if td.Est, err = ParseTime(it.Est, loc); err != nil {
			return td, errors.Wrap(errors.ErrCodeInvalidDate, err, "%s est", it.ID)
		}
		if td.Lct, err = ParseTime(it.Lct, loc); err != nil {
			return td, errors.Wrap(errors.ErrCodeInvalidDate, err, "%s lct", it.ID)
		}
	}
	return td, nil
}

// Load builds a coordinator payload from the dataset: range first, then
// rows and timespans in one batch.
func (d *Dataset) Load(g *gantt.Gantt, loc *time.Location) error {
	r, ok, err := d.DateRange(loc)
	if err != nil {
		return err
	}
	rows, err := d.RowData(loc)
	if err != nil {
		return err
	}
	spans, err := d.TimespanData(loc)
	if err != nil {
		return err
	}
	g.Batch(func() {
		if ok {
			g.RequestDateRange(r.From, r.To)
		}
		if err = g.AddData(rows); err != nil {
			return
		}
		err = g.AddTimespans(spans)
	})
	return err
}
