package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/matzehuels/ganttgrid/pkg/buildinfo"
	"github.com/matzehuels/ganttgrid/pkg/column"
	"github.com/matzehuels/ganttgrid/pkg/config"
	"github.com/matzehuels/ganttgrid/pkg/errors"
	"github.com/matzehuels/ganttgrid/pkg/gantt"
	"github.com/matzehuels/ganttgrid/pkg/io"
	"github.com/matzehuels/ganttgrid/pkg/pipeline"
)

// =============================================================================
// Request and response types
// =============================================================================

// gridRequest is the part shared by all requests: view overrides and an
// optional range. Dates accept the dataset layouts.
type gridRequest struct {
	View config.View `json:"view"`
	From string      `json:"from"`
	To   string      `json:"to"`
}

type columnsRequest struct {
	gridRequest
	MaxWidth   float64 `json:"max_width"`
	LeftOffset float64 `json:"left_offset"`
	Reverse    bool    `json:"reverse"`
}

type layoutRequest struct {
	gridRequest
	CurrentDate string          `json:"current_date"`
	Dataset     json.RawMessage `json:"dataset"`
}

type positionRequest struct {
	gridRequest
	Date string `json:"date"`
}

type dateRequest struct {
	gridRequest
	Position *float64 `json:"position"`
	Snap     string   `json:"snap"`
}

type layoutResponse struct {
	Snapshot gantt.Snapshot `json:"snapshot"`
	Cached   bool           `json:"cached"`
	Rows     int            `json:"rows"`
	Tasks    int            `json:"tasks"`
}

type columnsResponse struct {
	*pipeline.ColumnsResult
	Cached bool `json:"cached"`
}

type lookupResponse struct {
	Date     time.Time        `json:"date"`
	Position float64          `json:"position"`
	Column   gantt.ColumnView `json:"column"`
}

type errorResponse struct {
	Error string     `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Current()})
}

func (s *Server) postColumns(w http.ResponseWriter, r *http.Request) {
	req := columnsRequest{gridRequest: gridRequest{View: s.view}}
	if !s.decode(w, r, &req) {
		return
	}
	from, err := parseDate("from", req.From, req.View)
	if err != nil {
		s.writeError(w, err)
		return
	}
	to, err := parseDate("to", req.To, req.View)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.Columns(r.Context(), pipeline.ColumnsRequest{
		View:       req.View,
		From:       from,
		To:         to,
		MaxWidth:   req.MaxWidth,
		LeftOffset: req.LeftOffset,
		Reverse:    req.Reverse,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, columnsResponse{ColumnsResult: res, Cached: res.CacheHit})
}

func (s *Server) postLayout(w http.ResponseWriter, r *http.Request) {
	req := layoutRequest{gridRequest: gridRequest{View: s.view}}
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Dataset) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "dataset is required"))
		return
	}
	opts, err := req.options()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if opts.CurrentDate, err = parseDate("current_date", req.CurrentDate, req.View); err != nil {
		s.writeError(w, err)
		return
	}

	in, err := s.runner.LoadBytes(r.Context(), req.Dataset, io.FormatJSON, "request")
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Layout(r.Context(), in, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Snapshot: res.Snapshot,
		Cached:   res.CacheHit,
		Rows:     res.Stats.RowCount,
		Tasks:    res.Stats.TaskCount,
	})
}

func (s *Server) postPosition(w http.ResponseWriter, r *http.Request) {
	req := positionRequest{gridRequest: gridRequest{View: s.view}}
	if !s.decode(w, r, &req) {
		return
	}
	g, err := s.grid(req.gridRequest)
	if err != nil {
		s.writeError(w, err)
		return
	}
	date, err := parseDate("date", req.Date, req.View)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if date.IsZero() {
		s.writeError(w, errors.New(errors.ErrCodeInvalidArgument, "date is required"))
		return
	}

	pos, ok := g.PositionByDate(date)
	col, found := g.ColumnByDate(date)
	if !ok || !found {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no column for %s", io.FormatTime(date)))
		return
	}
	writeJSON(w, http.StatusOK, lookupResponse{
		Date:     date,
		Position: pos,
		Column:   gantt.ColumnViews([]column.Column{col})[0],
	})
}

func (s *Server) postDate(w http.ResponseWriter, r *http.Request) {
	req := dateRequest{gridRequest: gridRequest{View: s.view}}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Position == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidArgument, "position is required"))
		return
	}
	snap, err := column.ParseSnap(req.Snap)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g, err := s.grid(req.gridRequest)
	if err != nil {
		s.writeError(w, err)
		return
	}

	x := *req.Position
	date, ok := g.DateByPosition(x, snap)
	col, found := g.ColumnByPosition(x)
	if !ok || !found {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no column at %v", x))
		return
	}
	writeJSON(w, http.StatusOK, lookupResponse{
		Date:     date,
		Position: x,
		Column:   gantt.ColumnViews([]column.Column{col})[0],
	})
}

// =============================================================================
// Helpers
// =============================================================================

// options converts the shared request part into pipeline options.
func (req gridRequest) options() (pipeline.Options, error) {
	opts := pipeline.Options{View: req.View}
	var err error
	if opts.From, err = parseDate("from", req.From, req.View); err != nil {
		return opts, err
	}
	if opts.To, err = parseDate("to", req.To, req.View); err != nil {
		return opts, err
	}
	return opts, opts.Validate()
}

// grid builds a coordinator over the requested range, which is required.
func (s *Server) grid(req gridRequest) (*gantt.Gantt, error) {
	opts, err := req.options()
	if err != nil {
		return nil, err
	}
	if opts.From.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "from and to are required")
	}
	return opts.NewGantt(s.logger)
}

func parseDate(field, s string, v config.View) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	loc, err := v.Location()
	if err != nil {
		return time.Time{}, err
	}
	t, err := io.ParseTime(s, loc)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeInvalidArgument, err, "%s", field)
	}
	return t, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return false
		}
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return false
	}
	return true
}

// writeError maps error codes to HTTP statuses. Internal errors are logged
// and hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	switch {
	case errors.IsInvalid(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: code})
	case code == errors.ErrCodeUnsupportedScale, code == errors.ErrCodeUnsupported:
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: code})
	case code == errors.ErrCodeNotFound:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errors.UserMessage(err), Code: code})
	default:
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: errors.ErrCodeInternal})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
