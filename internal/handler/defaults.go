package handler

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/gyaneshwarpardhi/linehook/internal/config"
	"github.com/gyaneshwarpardhi/linehook/internal/platform"
)

// ContentFetcher retrieves the binary content of a media message.
type ContentFetcher interface {
	MessageContent(ctx context.Context, messageID string) (*platform.Content, error)
}

// RichMenuManager is the rich-menu surface of the platform.
type RichMenuManager interface {
	CreateRichMenu(ctx context.Context, menu *messaging_api.RichMenuRequest) (string, error)
	UploadRichMenuImage(ctx context.Context, richMenuID, contentType string, image io.Reader) error
	LinkRichMenu(ctx context.Context, userID, richMenuID string) error
	UserRichMenu(ctx context.Context, userID string) (string, error)
	UnlinkRichMenu(ctx context.Context, userID string) error
	DeleteRichMenu(ctx context.Context, richMenuID string) error
	ListRichMenus(ctx context.Context) ([]string, error)
}

// Deps are the platform capabilities the default handlers call.
type Deps struct {
	Content   ContentFetcher
	RichMenus RichMenuManager
	// OpenFile opens rich-menu images; defaults to os.Open.
	OpenFile func(name string) (io.ReadCloser, error)
}

// Build creates a registry with the default handler for every route,
// configured from cfg.
func Build(cfg *config.BotConfig, deps Deps) (*Registry, error) {
	if deps.OpenFile == nil {
		deps.OpenFile = func(name string) (io.ReadCloser, error) { return os.Open(name) }
	}
	text, err := NewText(cfg.Commands, deps.RichMenus, deps.OpenFile)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()
	reg.Register(NewFixedText(RouteBeacon, cfg.Replies.Beacon))
	reg.Register(NewFixedText(RouteFollow, cfg.Replies.Follow))
	reg.Register(NewFixedText(RouteJoin, cfg.Replies.Join))
	reg.Register(NewFixedText(RouteLeave, cfg.Replies.Leave))
	reg.Register(NewFixedText(RouteUnfollow, cfg.Replies.Unfollow))
	reg.Register(NewPostback())
	reg.Register(text)
	reg.Register(NewMedia(deps.Content, cfg.Replies.Media))
	reg.Register(NewSticker(cfg.Replies.Sticker))
	reg.Register(NewLocation())

	if missing := reg.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("handler set incomplete: missing %v", missing)
	}
	return reg, nil
}
