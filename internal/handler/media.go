package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/gyaneshwarpardhi/linehook/internal/config"
	"github.com/gyaneshwarpardhi/linehook/internal/event"
)

// Media handles image, video and audio messages identically: it retrieves
// the content from the platform, then replies with a configured image.
type Media struct {
	content ContentFetcher
	reply   config.ImageDef
}

// NewMedia returns a Media handler fetching through content and replying with reply.
func NewMedia(content ContentFetcher, reply config.ImageDef) *Media {
	return &Media{content: content, reply: reply}
}

func (*Media) Route() Route { return RouteMedia }

func (h *Media) Handle(ctx context.Context, ev *event.Event) (messaging_api.MessageInterface, error) {
	msg, ok := ev.Payload.(*event.Message)
	if !ok {
		return nil, fmt.Errorf("media handler: unexpected payload %T", ev.Payload)
	}
	if h.content == nil {
		return nil, errors.New("media handler: no content fetcher configured")
	}
	if _, err := h.content.MessageContent(ctx, msg.ID); err != nil {
		return nil, fmt.Errorf("media handler: %w", err)
	}
	return &messaging_api.ImageMessage{
		OriginalContentUrl: h.reply.OriginalContentURL,
		PreviewImageUrl:    h.reply.PreviewImageURL,
	}, nil
}
