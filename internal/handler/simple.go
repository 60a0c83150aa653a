package handler

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/gyaneshwarpardhi/linehook/internal/config"
	"github.com/gyaneshwarpardhi/linehook/internal/event"
)

// FixedText answers every event of its route with the same text.
// An empty text makes the route silent.
type FixedText struct {
	route Route
	text  string
}

// NewFixedText returns a FixedText answering route with text.
func NewFixedText(route Route, text string) *FixedText {
	return &FixedText{route: route, text: text}
}

func (h *FixedText) Route() Route { return h.route }

func (h *FixedText) Handle(context.Context, *event.Event) (messaging_api.MessageInterface, error) {
	if h.text == "" {
		return nil, nil
	}
	return &messaging_api.TextMessage{Text: h.text}, nil
}

// Postback echoes a date/time picker selection, or the postback data otherwise.
type Postback struct{}

// NewPostback returns the postback handler.
func NewPostback() *Postback { return &Postback{} }

func (*Postback) Route() Route { return RoutePostback }

func (*Postback) Handle(_ context.Context, ev *event.Event) (messaging_api.MessageInterface, error) {
	pb, ok := ev.Payload.(*event.Postback)
	if !ok {
		return nil, fmt.Errorf("postback handler: unexpected payload %T", ev.Payload)
	}
	if p := pb.Params; p != nil {
		return &messaging_api.TextMessage{
			Text: fmt.Sprintf("DateTime: %s, Date: %s, Time: %s", p.Datetime, p.Date, p.Time),
		}, nil
	}
	if pb.Data == "" {
		return nil, nil
	}
	return &messaging_api.TextMessage{Text: pb.Data}, nil
}

// Sticker replies with a configured sticker whatever the user sent.
type Sticker struct {
	packageID string
	stickerID string
}

// NewSticker returns a Sticker replying with def.
func NewSticker(def config.StickerDef) *Sticker {
	return &Sticker{packageID: def.PackageID, stickerID: def.StickerID}
}

func (*Sticker) Route() Route { return RouteSticker }

func (h *Sticker) Handle(context.Context, *event.Event) (messaging_api.MessageInterface, error) {
	return &messaging_api.StickerMessage{PackageId: h.packageID, StickerId: h.stickerID}, nil
}

// Location sends the received location back.
type Location struct{}

// NewLocation returns the location echo handler.
func NewLocation() *Location { return &Location{} }

func (*Location) Route() Route { return RouteLocation }

func (*Location) Handle(_ context.Context, ev *event.Event) (messaging_api.MessageInterface, error) {
	loc, ok := messageContent[*event.Location](ev)
	if !ok {
		return nil, fmt.Errorf("location handler: unexpected payload %T", ev.Payload)
	}
	return &messaging_api.LocationMessage{
		Title:     loc.Title,
		Address:   loc.Address,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}, nil
}

// messageContent extracts typed message content from ev.
func messageContent[T event.Content](ev *event.Event) (T, bool) {
	var zero T
	msg, ok := ev.Payload.(*event.Message)
	if !ok || msg.Content == nil {
		return zero, false
	}
	c, ok := msg.Content.(T)
	return c, ok
}
