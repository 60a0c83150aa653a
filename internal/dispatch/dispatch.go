// Package dispatch routes decoded events to their handler.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/gyaneshwarpardhi/linehook/internal/event"
	"github.com/gyaneshwarpardhi/linehook/internal/handler"
)

// ErrHandlerFault marks a handler that returned an error or panicked.
var ErrHandlerFault = errors.New("handler fault")

// Outcome describes what a single dispatch did.
type Outcome struct {
	Route      handler.Route
	Message    messaging_api.MessageInterface
	Dispatched bool
}

// Dispatcher maps events to routes and invokes the registered handler.
// The handler set can be replaced while events are in flight.
type Dispatcher struct {
	handlers atomic.Pointer[handler.Registry]
}

// New returns a Dispatcher over reg.
func New(reg *handler.Registry) *Dispatcher {
	d := &Dispatcher{}
	d.handlers.Store(reg)
	return d
}

// Swap atomically replaces the handler set (used on hot-reload).
func (d *Dispatcher) Swap(reg *handler.Registry) {
	d.handlers.Store(reg)
}

// Handlers returns the active handler set.
func (d *Dispatcher) Handlers() *handler.Registry {
	return d.handlers.Load()
}

// Route returns the route for ev. The second result is false for events
// that have no handler: unknown event types and unknown message subtypes.
func Route(ev *event.Event) (handler.Route, bool) {
	switch p := ev.Payload.(type) {
	case *event.Beacon:
		return handler.RouteBeacon, true
	case *event.Follow:
		return handler.RouteFollow, true
	case *event.Join:
		return handler.RouteJoin, true
	case *event.Leave:
		return handler.RouteLeave, true
	case *event.Postback:
		return handler.RoutePostback, true
	case *event.Unfollow:
		return handler.RouteUnfollow, true
	case *event.Message:
		return messageRoute(p.Content)
	}
	return "", false
}

func messageRoute(c event.Content) (handler.Route, bool) {
	switch c.(type) {
	case *event.Text:
		return handler.RouteText, true
	case *event.Image, *event.Video, *event.Audio:
		return handler.RouteMedia, true
	case *event.Sticker:
		return handler.RouteSticker, true
	case *event.Location:
		return handler.RouteLocation, true
	}
	return "", false
}

// Dispatch runs the handler for ev. Events without a route are a silent
// no-op. Handler errors and panics are returned wrapped in ErrHandlerFault.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *event.Event) (out Outcome, err error) {
	route, ok := Route(ev)
	if !ok {
		return Outcome{}, nil
	}
	out.Route = route

	h, err := d.handlers.Load().Get(route)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrHandlerFault, err)
	}

	defer func() {
		if r := recover(); r != nil {
			out.Message = nil
			err = fmt.Errorf("%w: %s panicked: %v", ErrHandlerFault, route, r)
		}
	}()
	out.Dispatched = true
	msg, err := h.Handle(ctx, ev)
	if err != nil {
		return out, fmt.Errorf("%w: %s: %w", ErrHandlerFault, route, err)
	}
	out.Message = msg
	return out, nil
}
