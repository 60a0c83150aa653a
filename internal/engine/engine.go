// Package engine runs every event of a webhook batch through dispatch and
// delivery, isolating failures to the event that caused them.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/gyaneshwarpardhi/linehook/internal/config"
	"github.com/gyaneshwarpardhi/linehook/internal/delivery"
	"github.com/gyaneshwarpardhi/linehook/internal/dispatch"
	"github.com/gyaneshwarpardhi/linehook/internal/event"
	"github.com/gyaneshwarpardhi/linehook/internal/handler"
	"github.com/gyaneshwarpardhi/linehook/internal/metrics"
	"github.com/gyaneshwarpardhi/linehook/internal/platform"
)

// EventResult is the outcome of processing a single event.
type EventResult struct {
	Index          int           `json:"index"`
	WebhookEventID string        `json:"webhook_event_id,omitempty"`
	Kind           event.Kind    `json:"kind"`
	Route          handler.Route `json:"route,omitempty"`
	Replied        bool          `json:"replied"`
	Pushed         bool          `json:"pushed"`
	Skipped        bool          `json:"skipped,omitempty"`
	Error          string        `json:"error,omitempty"`
	DurationMs     int64         `json:"duration_ms"`
}

// Deliverer sends a handler's message for an event.
type Deliverer interface {
	Deliver(ctx context.Context, replyToken, to string, msg messaging_api.MessageInterface) delivery.Result
}

// ProfileLookup fetches the sender's profile.
type ProfileLookup interface {
	Profile(ctx context.Context, userID string) (*platform.Profile, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithProfileLookup makes the engine fetch and log the sender's profile
// before dispatch. Lookup failures never block the event.
func WithProfileLookup(p ProfileLookup) Option {
	return func(e *Engine) { e.profiles = p }
}

// Engine processes webhook batches.
type Engine struct {
	dispatcher *dispatch.Dispatcher
	channel    Deliverer
	profiles   ProfileLookup
	timeout    time.Duration
	pool       *workerPool[*eventWork]
}

type eventWork struct {
	ctx    context.Context
	index  int
	ev     *event.Event
	result **EventResult
	done   *sync.WaitGroup
}

// New creates an Engine using conf and starts its worker pool.
func New(ctx context.Context, d *dispatch.Dispatcher, ch Deliverer, conf config.EngineConf, opts ...Option) *Engine {
	e := &Engine{
		dispatcher: d,
		channel:    ch,
		timeout:    time.Duration(conf.EventTimeoutMs) * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.pool = newWorkerPool[*eventWork](ctx, conf.EventWorkers, conf.QueueDepth, func(_ context.Context, w *eventWork) {
		e.run(w)
	})
	return e
}

// SwapHandlers atomically replaces the handler set (used on hot-reload).
func (e *Engine) SwapHandlers(reg *handler.Registry) {
	e.dispatcher.Swap(reg)
}

// ProcessBatch handles every event in b and returns once all of them are
// finished, with results in batch order. Each event gets exactly one
// dispatch attempt; events that do not fit the queue run inline.
// Processing is not cancelled when ctx is; each event is bounded by the
// configured event timeout instead.
func (e *Engine) ProcessBatch(ctx context.Context, b event.Batch) []*EventResult {
	ctx = context.WithoutCancel(ctx)
	results := make([]*EventResult, len(b.Events))

	var wg sync.WaitGroup
	for i := range b.Events {
		w := &eventWork{ctx: ctx, index: i, ev: &b.Events[i], result: &results[i], done: &wg}
		wg.Add(1)
		if !e.pool.Submit(w) {
			metrics.EventsInline.Inc()
			e.run(w)
		}
	}
	wg.Wait()
	metrics.QueueUtilization.Set(e.QueueUtilization())
	return results
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

// Shutdown drains the pool gracefully.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}

func (e *Engine) run(w *eventWork) {
	defer w.done.Done()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event processing panicked", "event_id", w.ev.WebhookEventID, "panic", r)
			*w.result = &EventResult{
				Index:          w.index,
				WebhookEventID: w.ev.WebhookEventID,
				Kind:           w.ev.Kind(),
				Error:          fmt.Sprintf("event processing panicked: %v", r),
			}
		}
	}()

	ctx := w.ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	*w.result = e.processEvent(ctx, w.index, w.ev)
}

func (e *Engine) processEvent(ctx context.Context, idx int, ev *event.Event) *EventResult {
	start := time.Now()
	result := &EventResult{
		Index:          idx,
		WebhookEventID: ev.WebhookEventID,
		Kind:           ev.Kind(),
	}
	metrics.EventsReceived.WithLabelValues(string(result.Kind)).Inc()
	log := slog.With("event_id", ev.WebhookEventID, "kind", result.Kind)

	if u, ok := ev.Payload.(*event.Unknown); ok {
		log.Debug("unhandled event", "type", u.Type, "reason", u.Reason)
	}
	e.lookupProfile(ctx, log, ev)

	out, err := e.dispatcher.Dispatch(ctx, ev)
	result.Route = out.Route
	switch {
	case err != nil:
		metrics.Dispatches.WithLabelValues(string(out.Route), "fault").Inc()
		log.Error("handler failed", "route", out.Route, "err", err)
		result.Error = err.Error()
	case !out.Dispatched:
		result.Skipped = true
	default:
		metrics.Dispatches.WithLabelValues(string(out.Route), "ok").Inc()
	}

	if out.Message != nil {
		res := e.channel.Deliver(ctx, ev.ReplyToken, ev.Source.ID(), out.Message)
		for _, a := range res.Attempts {
			status := "ok"
			if a.Err != nil {
				status = "error"
			}
			metrics.Deliveries.WithLabelValues(string(a.Method), status).Inc()
		}
		result.Replied = res.Via() == delivery.MethodReply
		result.Pushed = res.Via() == delivery.MethodPush
		if err := res.Err(); err != nil {
			log.Error("delivery failed", "route", out.Route, "err", err)
			result.Error = err.Error()
		}
	}

	result.DurationMs = time.Since(start).Milliseconds()
	metrics.EventProcessingDuration.Observe(float64(result.DurationMs))
	return result
}

func (e *Engine) lookupProfile(ctx context.Context, log *slog.Logger, ev *event.Event) {
	if e.profiles == nil || ev.Source.UserID == "" {
		return
	}
	p, err := e.profiles.Profile(ctx, ev.Source.UserID)
	if err != nil {
		log.Warn("profile lookup failed", "user_id", ev.Source.UserID, "err", err)
		return
	}
	log.Info("profile", "user_id", p.UserID, "display_name", p.DisplayName, "language", p.Language)
}
