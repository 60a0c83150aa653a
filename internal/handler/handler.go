// Package handler holds the per-route strategies that turn an event into at
// most one outbound message, and the registry the dispatcher looks them up in.
package handler

import (
	"context"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/gyaneshwarpardhi/linehook/internal/event"
)

// Route names the handler slot an event is dispatched to.
type Route string

const (
	RouteBeacon   Route = "beacon"
	RouteFollow   Route = "follow"
	RouteJoin     Route = "join"
	RouteLeave    Route = "leave"
	RoutePostback Route = "postback"
	RouteUnfollow Route = "unfollow"
	RouteText     Route = "message.text"
	RouteMedia    Route = "message.media" // image, video and audio
	RouteSticker  Route = "message.sticker"
	RouteLocation Route = "message.location"
)

// Routes lists every route a complete handler set covers.
var Routes = []Route{
	RouteBeacon, RouteFollow, RouteJoin, RouteLeave, RoutePostback, RouteUnfollow,
	RouteText, RouteMedia, RouteSticker, RouteLocation,
}

// Handler is the interface all route implementations satisfy.
type Handler interface {
	// Route returns the slot this handler is registered under.
	Route() Route
	// Handle builds the reply for ev. A nil message means "no reply".
	// Handlers keep no state between calls and make at most one call
	// that reads platform data.
	Handle(ctx context.Context, ev *event.Event) (messaging_api.MessageInterface, error)
}

// Func adapts a function to the Handler interface.
func Func(route Route, fn func(ctx context.Context, ev *event.Event) (messaging_api.MessageInterface, error)) Handler {
	return &funcHandler{route: route, fn: fn}
}

type funcHandler struct {
	route Route
	fn    func(ctx context.Context, ev *event.Event) (messaging_api.MessageInterface, error)
}

func (h *funcHandler) Route() Route { return h.route }

func (h *funcHandler) Handle(ctx context.Context, ev *event.Event) (messaging_api.MessageInterface, error) {
	return h.fn(ctx, ev)
}
