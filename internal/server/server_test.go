package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ganttgrid/pkg/cache"
	"github.com/matzehuels/ganttgrid/pkg/config"
	"github.com/matzehuels/ganttgrid/pkg/observability"
	"github.com/matzehuels/ganttgrid/pkg/pipeline"
)

const dataset = `{
  "rows": [
    {"id": "backend", "name": "Backend", "tasks": [
      {"id": "schema", "name": "Schema", "from": "2024-01-02", "to": "2024-01-04"}
    ]},
    {"id": "frontend", "name": "Frontend", "tasks": [
      {"id": "layout", "name": "Layout", "from": "2024-01-04", "to": "2024-01-05"}
    ]}
  ]
}`

func newTestServer(t *testing.T, c cache.Cache) *Server {
	t.Helper()
	runner := pipeline.NewRunner(c, nil, log.New(&bytes.Buffer{}))
	t.Cleanup(func() { _ = runner.Close() })
	return New(runner, config.DefaultView(), log.New(&bytes.Buffer{}))
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type recordingHTTPHooks struct {
	mu     sync.Mutex
	routes []string
	status []int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
	h.status = append(h.status, status)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestPostColumns(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/v1/columns", `{"from": "2024-01-01", "to": "2024-01-08"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Columns []struct {
			Left    float64 `json:"left"`
			Weekend bool    `json:"weekend"`
		} `json:"columns"`
		Headers []struct {
			Unit string `json:"unit"`
		} `json:"headers"`
		Width  float64 `json:"width"`
		Cached bool    `json:"cached"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Columns, 7)
	assert.Equal(t, 14.0, body.Width)
	assert.True(t, body.Columns[5].Weekend)
	require.Len(t, body.Headers, 1)
	assert.Equal(t, "day", body.Headers[0].Unit)
}

func TestPostColumnsViewOverride(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/v1/columns",
		`{"view": {"columns": {"show_weekends": false}}, "from": "2024-01-01", "to": "2024-01-08"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Columns []json.RawMessage `json:"columns"`
		Width   float64           `json:"width"`
	}
	decodeBody(t, rec, &body)
	assert.Len(t, body.Columns, 5)
	assert.Equal(t, 10.0, body.Width, "column width should keep the configured default")
}

func TestPostColumnsErrors(t *testing.T) {
	s := newTestServer(t, nil)
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{"from":`, http.StatusBadRequest},
		{"unknown field", `{"from": "2024-01-01", "to": "2024-01-08", "colour": 1}`, http.StatusBadRequest},
		{"bad date", `{"from": "soon", "to": "2024-01-08"}`, http.StatusBadRequest},
		{"unbounded", `{"from": "2024-01-01"}`, http.StatusBadRequest},
		{"unsupported scale", `{"view": {"columns": {"scale": "year"}}, "from": "2024-01-01", "to": "2024-01-08"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/columns", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			var body errorResponse
			decodeBody(t, rec, &body)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestPostLayout(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/v1/layout",
		`{"from": "2024-01-01", "to": "2024-01-08", "dataset": `+dataset+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body layoutResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, 2, body.Rows)
	assert.Equal(t, 2, body.Tasks)
	assert.Len(t, body.Snapshot.Columns, 7)
	assert.False(t, body.Cached)

	schema := -1.0
	for _, row := range body.Snapshot.Rows {
		for _, task := range row.Tasks {
			if task.ID == "schema" {
				schema = task.Left
			}
		}
	}
	assert.Equal(t, 2.0, schema)
}

func TestPostLayoutErrors(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/layout", `{"from": "2024-01-01", "to": "2024-01-08"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/layout", `{"dataset": {"rows": [{"id": "a", "tasks": [{"from": "2024-01-05", "to": "2024-01-01"}]}]}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/v1/layout", `{"from": "2024-01-01", "dataset": `+dataset+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "half range")
}

func TestPostLayoutCachedInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.NewRedisCache(context.Background(), "redis://"+mr.Addr(), "ganttgrid:")
	require.NoError(t, err)
	s := newTestServer(t, c)

	body := `{"dataset": ` + dataset + `}`
	first := do(t, s, http.MethodPost, "/v1/layout", body)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := do(t, s, http.MethodPost, "/v1/layout", body)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b layoutResponse
	decodeBody(t, first, &a)
	decodeBody(t, second, &b)
	assert.False(t, a.Cached)
	assert.True(t, b.Cached)
	assert.Equal(t, len(a.Snapshot.Columns), len(b.Snapshot.Columns))
	assert.Len(t, mr.Keys(), 1)
}

func TestPostPositionAndDate(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/position",
		`{"from": "2024-01-01", "to": "2024-01-08", "date": "2024-01-03 12:00"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var pos lookupResponse
	decodeBody(t, rec, &pos)
	assert.Equal(t, 5.0, pos.Position)
	assert.True(t, pos.Column.Date.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))

	rec = do(t, s, http.MethodPost, "/v1/date",
		`{"from": "2024-01-01", "to": "2024-01-08", "position": 5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var date lookupResponse
	decodeBody(t, rec, &date)
	assert.True(t, date.Date.Equal(time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)), "date = %v", date.Date)
}

func TestPostDateErrors(t *testing.T) {
	s := newTestServer(t, nil)
	tests := []struct {
		name string
		body string
	}{
		{"missing position", `{"from": "2024-01-01", "to": "2024-01-08"}`},
		{"missing range", `{"position": 3}`},
		{"bad snap", `{"from": "2024-01-01", "to": "2024-01-08", "position": 3, "snap": "up"}`},
	}
	for _, tt := range tests {
		rec := do(t, s, http.MethodPost, "/v1/date", tt.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.name)
	}
}

func TestObserveReportsRoutePattern(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t, nil)
	do(t, s, http.MethodGet, "/healthz", "")
	do(t, s, http.MethodPost, "/v1/columns", `{"from": "bad"}`)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []string{"/healthz", "/v1/columns"}, hooks.routes)
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.status)
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t, nil)
	big := `{"from": "` + strings.Repeat("x", maxBodyBytes) + `"}`
	rec := do(t, s, http.MethodPost, "/v1/columns", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRunShutsDown(t *testing.T) {
	s := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, config.Server{Addr: "127.0.0.1:0"})
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
