package receiver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/slackrelay/slackrelay/internal/messages"
	"github.com/slackrelay/slackrelay/internal/metrics"
	"github.com/slackrelay/slackrelay/pkg/types"
)

const maxBodyBytes = 4 << 20

// Relay is the pipeline the receiver feeds. *reactor.Reactor satisfies it.
type Relay interface {
	On(ctx context.Context, evt *types.Event) (bool, error)
	Render(evt *types.Event) *messages.Message
}

// Handler is the HTTP handler for the inbound API.
type Handler struct {
	relay   func() Relay
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
	mux     *http.ServeMux
}

// New creates a Handler and registers all routes. relay is called once per
// request so that a reloaded pipeline takes effect without restarting.
func New(relay func() Relay, m *metrics.Metrics, auth Auth) http.Handler {
	h := &Handler{
		relay:   relay,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.NewString() },
		mux:     http.NewServeMux(),
	}

	h.mux.Handle("/api/v1/events", RequireAPIKey(auth, http.HandlerFunc(h.events)))
	h.mux.Handle("/api/v1/render", RequireAPIKey(auth, http.HandlerFunc(h.render)))
	h.mux.HandleFunc("/healthz", h.health)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// events handles POST /api/v1/events.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	evts, err := h.decodeEvents(r)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	relay := h.relay()
	resp := EventsResponse{Accepted: len(evts), IDs: make([]string, 0, len(evts))}
	for _, evt := range evts {
		resp.IDs = append(resp.IDs, evt.ID)
		sent, err := relay.On(r.Context(), evt)
		switch {
		case err != nil:
			resp.Failed++
			resp.Errors = append(resp.Errors, err.Error())
		case sent:
			resp.Sent++
		default:
			resp.Suppressed++
		}
	}

	if resp.Failed > 0 {
		jsonResp(w, http.StatusBadGateway, resp)
		return
	}
	jsonResp(w, http.StatusOK, resp)
}

// render handles POST /api/v1/render.
func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	evts, err := h.decodeEvents(r)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(evts) != 1 {
		jsonErr(w, http.StatusBadRequest, "render takes exactly one event")
		return
	}
	jsonResp(w, http.StatusOK, h.relay().Render(evts[0]))
}

// health handles GET /healthz.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	totals, err := h.metrics.Totals()
	if err != nil {
		slog.Warn("receiver: read metrics", "err", err)
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Received:   totals[metrics.EventsReceived],
		Suppressed: totals[metrics.EventsSuppressed],
		Sent:       totals[metrics.MessagesSent],
	})
}

// --- decoding ---------------------------------------------------------------

// decodeEvents reads one event object or an array of them from the body.
func (h *Handler) decodeEvents(r *http.Request) ([]*types.Event, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	var reqs []eventRequest
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &reqs); err != nil {
			return nil, fmt.Errorf("decode events: %w", err)
		}
	} else {
		var one eventRequest
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		reqs = []eventRequest{one}
	}

	out := make([]*types.Event, 0, len(reqs))
	for i, req := range reqs {
		evt, err := h.toEvent(req)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		out = append(out, evt)
	}
	return out, nil
}

func (h *Handler) toEvent(req eventRequest) (*types.Event, error) {
	level, err := types.ParseLevel(req.Level)
	if err != nil {
		return nil, err
	}

	evt := &types.Event{
		ID:              req.ID,
		EventType:       req.EventType,
		Level:           level,
		RenderedMessage: req.RenderedMessage,
		Exception:       req.Exception,
		Properties:      req.Properties,
	}
	if evt.ID == "" {
		evt.ID = h.newID()
	}
	if req.Timestamp != nil {
		evt.Timestamp = *req.Timestamp
	} else {
		evt.Timestamp = h.now()
	}
	return evt, nil
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
