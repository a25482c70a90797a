package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ganttgrid/pkg/errors"
	"github.com/matzehuels/ganttgrid/pkg/gantt"
)

const sampleYAML = `
range:
  from: 2024-01-01
  to: 2024-01-08
rows:
  - id: backend
    name: Backend
    order: 2
    tasks:
      - id: schema
        name: Schema
        from: 2024-01-02 06:00
        to: 2024-01-03
        est: 2024-01-02
        lct: 2024-01-05
  - name: Frontend
    tasks:
      - name: Layout
        from: "2024-01-04T00:00:00Z"
        to: "2024-01-05T12:00:00Z"
timespans:
  - name: Freeze
    from: 2024-01-05
    to: 2024-01-06
`

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2024-01-02 09:30", time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)},
		{"2024-01-02 09:30:15", time.Date(2024, 1, 2, 9, 30, 15, 0, time.UTC)},
		{"2024-01-02T09:30", time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)},
		{"2024-01-02T09:30:15", time.Date(2024, 1, 2, 9, 30, 15, 0, time.UTC)},
		{" 2024-01-02T09:30:15Z ", time.Date(2024, 1, 2, 9, 30, 15, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in, nil)
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(tt.want), "ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
	}

	_, err := ParseTime("next tuesday", nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDate))
	_, err = ParseTime("", nil)
	assert.Error(t, err)
}

func TestParseTimeLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got, err := ParseTime("2024-01-02 10:00", loc)
	require.NoError(t, err)
	assert.Equal(t, 8, got.UTC().Hour())

	got, err = ParseTime("2024-01-02T10:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, 10, got.UTC().Hour())
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 12, got.Hour())
}

func TestParseTimeOffsetPlacement(t *testing.T) {
	g, err := gantt.New(func() gantt.Options {
		o := gantt.DefaultOptions()
		o.From = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		o.To = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
		return o
	}())
	require.NoError(t, err)

	utc, err := ParseTime("2024-01-03T12:00:00Z", time.UTC)
	require.NoError(t, err)
	offset, err := ParseTime("2024-01-03T14:00:00+02:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, offset.Location())

	want, ok := g.PositionByDate(utc)
	require.True(t, ok)
	got, ok := g.PositionByDate(offset)
	require.True(t, ok)
	assert.Equal(t, 5.0, want)
	assert.Equal(t, want, got)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, ".yml": FormatYAML, "YAML": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := FormatFromPath("plan.csv")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestReadDatasetYAML(t *testing.T) {
	d, err := ReadDataset(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, d.Rows, 2)

	front := d.Rows[1]
	_, err = uuid.Parse(front.ID)
	assert.NoError(t, err, "row without id gets a uuid")
	_, err = uuid.Parse(front.Tasks[0].ID)
	assert.NoError(t, err, "task without id gets a uuid")
	_, err = uuid.Parse(d.Timespans[0].ID)
	assert.NoError(t, err, "timespan without id gets a uuid")

	r, ok, err := d.DateRange(time.UTC)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), r.To)

	rows, err := d.RowData(time.UTC)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, *rows[0].Order)
	schema := rows[0].Tasks[0]
	assert.Equal(t, time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC), schema.From)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), schema.Lct)
}

func TestReadDatasetJSON(t *testing.T) {
	in := `{"rows":[{"id":"r","name":"R","tasks":[{"id":"t","name":"T","from":"2024-01-01","to":"2024-01-02"}]}]}`
	d, err := ReadDataset(strings.NewReader(in), FormatJSON)
	require.NoError(t, err)
	_, ok, err := d.DateRange(nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "t", d.Rows[0].Tasks[0].ID)

	_, err = ReadDataset(strings.NewReader("{"), FormatJSON)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestRowDataRejectsBadDates(t *testing.T) {
	tests := []struct {
		name string
		item ItemData
	}{
		{"unparseable", ItemData{ID: "t", From: "soon", To: "2024-01-02"}},
		{"reversed", ItemData{ID: "t", From: "2024-01-03", To: "2024-01-02"}},
		{"half bounds", ItemData{ID: "t", From: "2024-01-01", To: "2024-01-02", Est: "2024-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Dataset{Rows: []RowData{{ID: "r", Tasks: []ItemData{tt.item}}}}
			_, err := d.RowData(time.UTC)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidDate), "error = %v", err)
		})
	}

	d := &Dataset{Range: &RangeData{From: "2024-01-08", To: "2024-01-01"}}
	_, _, err := d.DateRange(time.UTC)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDate))
}

func TestLoad(t *testing.T) {
	d, err := ReadDataset(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)

	g, err := gantt.New(gantt.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, d.Load(g, time.UTC))

	assert.Len(t, g.Columns(), 7)
	assert.Len(t, g.Rows(), 2)
	assert.Len(t, g.Timespans(), 1)

	row, ok := g.Row("backend")
	require.True(t, ok)
	task, ok := row.Task("schema")
	require.True(t, ok)
	assert.Equal(t, 2.5, task.Left)
	assert.Equal(t, 1.5, task.Width)
	require.NotNil(t, task.Bounds)
	assert.Equal(t, 2.0, task.Bounds.Left)
}

func TestImportDataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	d, err := ImportDataset(path)
	require.NoError(t, err)
	assert.Len(t, d.Rows, 2)

	_, err = ImportDataset(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestSnapshotRoundTrip(t *testing.T) {
	opts := gantt.DefaultOptions()
	opts.From = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	opts.To = time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	g, err := gantt.New(opts)
	require.NoError(t, err)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		require.NoError(t, WriteSnapshot(&buf, g.Snapshot(), format))
		s, err := ReadSnapshot(&buf, format)
		require.NoError(t, err)
		assert.Equal(t, "day", s.Scale)
		assert.Len(t, s.Columns, 3)
		assert.True(t, s.Columns[1].Date.Equal(opts.From.AddDate(0, 0, 1)))
	}

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, ExportSnapshot(g.Snapshot(), path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scale": "day"`)
}
