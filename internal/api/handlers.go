// Package api exposes the time-series engine's query surface over HTTP.
// The engine itself has no notion of a "current" position; all navigation
// state belongs to the client.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/pulseview/pulseview/internal/ingest"
	"github.com/pulseview/pulseview/internal/series"
)

// Handler serves the viewer API backed by one ingest service.
type Handler struct {
	svc *ingest.Service
}

// NewHandler creates an API handler.
func NewHandler(svc *ingest.Service) *Handler {
	return &Handler{svc: svc}
}

// HandleHealth reports liveness plus basic ingest counters.
func (h *Handler) HandleHealth(c echo.Context) error {
	resp := map[string]any{
		"status":  "ok",
		"records": h.svc.Records(),
	}
	h.svc.WithSynced(func(ts *series.TimeSeries) {
		resp["segments"] = ts.Len()
	})
	return c.JSON(http.StatusOK, resp)
}

// seriesSummary is the GET /api/series payload.
type seriesSummary struct {
	StartTime        int64    `json:"startTime"`
	EndTime          int64    `json:"endTime"`
	SegmentDuration  int64    `json:"segmentDuration"`
	SegmentCount     int      `json:"segmentCount"`
	RecordCount      int      `json:"recordCount"`
	RecordCountLabel string   `json:"recordCountLabel"`
	Targets          []string `json:"targets"`
	Keys             []string `json:"keys"`
}

// HandleSeries returns the engine's summary: time range, segment width,
// and the observed target and metric-key universes.
func (h *Handler) HandleSeries(c echo.Context) error {
	var resp seriesSummary
	records := h.svc.Records()
	h.svc.WithSynced(func(ts *series.TimeSeries) {
		resp = seriesSummary{
			StartTime:        ts.StartTime(),
			EndTime:          ts.EndTime(),
			SegmentDuration:  ts.SegmentDuration(),
			SegmentCount:     ts.Len(),
			RecordCount:      records,
			RecordCountLabel: FormatInt(int64(records)),
			Targets:          ts.Targets(),
			Keys:             ts.MetricKeys(),
		}
	})
	return c.JSON(http.StatusOK, resp)
}

// HandleTargets lists every target name seen so far.
func (h *Handler) HandleTargets(c echo.Context) error {
	var targets []string
	h.svc.WithSynced(func(ts *series.TimeSeries) {
		targets = ts.Targets()
	})
	if targets == nil {
		targets = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"targets": targets})
}

// HandleKeys lists every flattened metric key seen so far.
func (h *Handler) HandleKeys(c echo.Context) error {
	var keys []string
	h.svc.WithSynced(func(ts *series.TimeSeries) {
		keys = ts.MetricKeys()
	})
	if keys == nil {
		keys = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"keys": keys})
}

// HandleSegments returns synced segments, optionally windowed by the
// from/to query parameters (segment start times, inclusive/exclusive).
func (h *Handler) HandleSegments(c echo.Context) error {
	payload, err := h.segmentsPayload(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(http.StatusOK, payload)
}

// HandleSegmentsMsgpack is the compact-encoding variant of HandleSegments
// for clients pulling large windows.
func (h *Handler) HandleSegmentsMsgpack(c echo.Context) error {
	payload, err := h.segmentsPayload(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	// Round-trip through JSON so the msgpack payload carries the same
	// field names and representative encodings as the JSON endpoint.
	generic, err := jsonShape(payload)
	if err != nil {
		return internalError(c, "failed to shape payload")
	}
	data, err := msgpack.Marshal(generic)
	if err != nil {
		return internalError(c, "failed to encode msgpack")
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

func (h *Handler) segmentsPayload(c echo.Context) (map[string]any, error) {
	from, err := optionalInt64(c.QueryParam("from"))
	if err != nil {
		return nil, err
	}
	to, err := optionalInt64(c.QueryParam("to"))
	if err != nil {
		return nil, err
	}

	var (
		payload map[string]any
		encErr  error
	)
	h.svc.WithSynced(func(ts *series.TimeSeries) {
		segments := []*series.Segment{}
		for _, seg := range ts.Segments() {
			if from != nil && seg.StartTime < *from {
				continue
			}
			if to != nil && seg.StartTime >= *to {
				continue
			}
			segments = append(segments, seg)
		}
		// Serialize while still holding the lock: a concurrent tail keeps
		// mutating these segments once the closure returns.
		raw, err := json.Marshal(segments)
		if err != nil {
			encErr = err
			return
		}
		payload = map[string]any{
			"startTime":       ts.StartTime(),
			"endTime":         ts.EndTime(),
			"segmentDuration": ts.SegmentDuration(),
			"segments":        json.RawMessage(raw),
		}
	})
	if encErr != nil {
		return nil, encErr
	}
	return payload, nil
}

func optionalInt64(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// jsonShape re-encodes v through encoding/json so custom marshalers apply
// before the value goes to another codec.
func jsonShape(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
