// Package keypad exposes calculator sessions over HTTP and WebSocket.
package keypad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
)

const maxBodyBytes = 64 << 10

var tracer = otel.Tracer("calculator")

// Handler serves the keypad endpoints for one session store.
type Handler struct {
	store *session.Store
}

func NewHandler(store *session.Store) *Handler {
	return &Handler{store: store}
}

// CreateSession handles POST /calculator/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "calculator.session.create")
	defer span.End()

	s, err := h.store.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create_session", "session limit reached", err, http.StatusServiceUnavailable, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.session.id", s.ID))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", s.ID),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, SessionResponse{
		SessionID: s.ID,
		Display:   s.Snapshot().Display,
	})
}

// GetSession handles GET /calculator/sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "calculator.session.get")
	defer span.End()

	s, ok := h.lookup(ctx, span, logger, w, "get_session", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, newStateResponse(s.ID, s.Snapshot()))
}

// DeleteSession handles DELETE /calculator/sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "calculator.session.delete")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	if !h.store.Delete(id) {
		observability.RecordError(ctx, span, logger, errorCounter, "delete_session", "session not found", fmt.Errorf("%w: %s", session.ErrNotFound, id), http.StatusNotFound, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session deleted", zap.String("session_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /calculator/sessions/{id}/keys.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "calculator.session.keys")
	defer span.End()

	s, ok := h.lookup(ctx, span, logger, w, "press_keys", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req KeysRequest
	if err := decodeBody(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press_keys", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	var run func() (session.Result, error)
	switch {
	case len(req.Keys) > 0 && req.Input != "":
		observability.RecordError(ctx, span, logger, errorCounter, "press_keys", "set either keys or input, not both", errors.New("ambiguous request"), http.StatusBadRequest, w)
		return
	case len(req.Keys) > 0:
		run = func() (session.Result, error) { return s.Press(req.Keys...) }
	case req.Input != "":
		run = func() (session.Result, error) { return s.PressInput(req.Input) }
	default:
		observability.RecordError(ctx, span, logger, errorCounter, "press_keys", "no keys provided", errors.New("keys and input are empty"), http.StatusBadRequest, w)
		return
	}

	res, err := press(ctx, span, run)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press_keys", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	logger.Info("calculator keys applied",
		zap.String("session_id", s.ID),
		zap.Int("keys", len(res.Steps)),
		zap.String("display", res.Display),
		zap.Bool("division_by_zero", res.DivisionByZero()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusOK, newPressResponse(s.ID, res))
}

// Evaluate handles POST /calculator/evaluate on a throwaway calculator.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "calculator.evaluate")
	defer span.End()

	var req EvaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	if req.Input == "" {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "no keys provided", errors.New("input is empty"), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.input", req.Input))

	res, err := press(ctx, span, func() (session.Result, error) {
		return session.Evaluate(req.Input)
	})
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	logger.Info("calculator input evaluated",
		zap.String("input", req.Input),
		zap.String("display", res.Display),
		zap.Bool("division_by_zero", res.DivisionByZero()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusOK, newPressResponse("", res))
}

func startSpan(r *http.Request, name string) (context.Context, trace.Span, *zap.Logger) {
	ctx := r.Context()
	ctx, span := tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String("request.id", observability.RequestIDFromContext(ctx))),
	)
	return ctx, span, observability.LoggerWithTrace(ctx)
}

func (h *Handler) lookup(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, op, id string) (*session.Session, bool) {
	span.SetAttributes(attribute.String("calculator.session.id", id))

	s, err := h.store.Get(id)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, op, "session not found", err, http.StatusNotFound, w)
		return nil, false
	}
	return s, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// press runs one batch of keys and records its telemetry: a child span per
// key, the key and division-by-zero counters, and the batch duration.
func press(ctx context.Context, span trace.Span, run func() (session.Result, error)) (session.Result, error) {
	start := time.Now()
	res, err := run()
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		return res, err
	}

	pressHistogram.Record(ctx, elapsed)

	for i, step := range res.Steps {
		kind := step.Key.Kind().String()

		_, stepSpan := tracer.Start(ctx, "calculator.key",
			trace.WithAttributes(
				attribute.Int("calculator.step.index", i),
				attribute.String("calculator.key", string(step.Key)),
				attribute.String("calculator.key.kind", kind),
				attribute.String("calculator.display", step.Display),
			),
		)

		keysCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))

		if step.DivisionByZero {
			divZeroCounter.Add(ctx, 1)
			stepSpan.AddEvent("division_by_zero")
		}
		if step.OutOfRange {
			stepSpan.AddEvent("result_out_of_range")
		}
		stepSpan.End()
	}

	span.AddEvent("keys.applied", trace.WithAttributes(
		attribute.Int("keys", len(res.Steps)),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(
		attribute.String("calculator.display", res.Display),
		attribute.Bool("calculator.division_by_zero", res.DivisionByZero()),
	)
	span.SetStatus(codes.Ok, "")

	return res, nil
}
