package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/linehook/internal/config"
	"github.com/gyaneshwarpardhi/linehook/internal/engine"
	"github.com/gyaneshwarpardhi/linehook/internal/event"
	"github.com/gyaneshwarpardhi/linehook/internal/metrics"
	"github.com/gyaneshwarpardhi/linehook/internal/signature"
)

// ApplyFunc validates a freshly loaded config and installs its handler set.
type ApplyFunc func(*config.BotConfig) error

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng      *engine.Engine
	loader   *config.Loader
	verifier *signature.Verifier
	apply    ApplyFunc
	mux      *http.ServeMux
}

// New creates an HTTP handler and registers all routes. The webhook path is
// taken from the config at construction time.
func New(eng *engine.Engine, loader *config.Loader, verifier *signature.Verifier, apply ApplyFunc) http.Handler {
	h := &Handler{eng: eng, loader: loader, verifier: verifier, apply: apply, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST "+loader.Config().Server.WebhookPath, h.webhook)
	h.mux.HandleFunc("GET /v1/commands", h.listCommands)
	h.mux.HandleFunc("POST /v1/commands/reload", h.reloadCommands)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

type webhookResponse struct {
	RequestID   string                `json:"request_id"`
	Destination string                `json:"destination,omitempty"`
	Events      int                   `json:"events"`
	Results     []*engine.EventResult `json:"results"`
}

// POST /callback: verify, decode, then process every event before answering.
func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	log := slog.With("request_id", RequestID(r.Context()))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.loader.Config().Server.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = fmt.Errorf("body exceeds %d bytes", tooLarge.Limit)
		}
		metrics.WebhookRequests.WithLabelValues("malformed").Inc()
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read body: %s", err))
		return
	}

	if !h.verifier.VerifyRequest(body, r.Header.Get(signature.Header)) {
		metrics.WebhookRequests.WithLabelValues("unauthorized").Inc()
		log.Warn("webhook signature rejected", "remote", r.RemoteAddr)
		writeError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	batch, err := event.Decode(body)
	if err != nil {
		metrics.WebhookRequests.WithLabelValues("malformed").Inc()
		log.Warn("webhook body rejected", "err", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := h.eng.ProcessBatch(r.Context(), batch)
	metrics.WebhookRequests.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, webhookResponse{
		RequestID:   RequestID(r.Context()),
		Destination: batch.Destination,
		Events:      len(batch.Events),
		Results:     results,
	})
}

type commandView struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Keywords []string `json:"keywords"`
}

// GET /v1/commands: list loaded text commands.
func (h *Handler) listCommands(w http.ResponseWriter, r *http.Request) {
	cfg := h.loader.Config()
	cmds := make([]commandView, 0, len(cfg.Commands))
	for _, c := range cfg.Commands {
		cmds = append(cmds, commandView{ID: c.ID, Type: c.Reply.Type, Keywords: c.Keywords})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":  cfg.Version,
		"commands": cmds,
	})
}

// POST /v1/commands/reload: re-read the config and swap the handler set.
func (h *Handler) reloadCommands(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.apply(cfg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":       true,
		"commands_count": len(cfg.Commands),
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 if event queue >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}
