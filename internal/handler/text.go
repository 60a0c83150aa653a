package handler

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/gyaneshwarpardhi/linehook/internal/config"
	"github.com/gyaneshwarpardhi/linehook/internal/content"
	"github.com/gyaneshwarpardhi/linehook/internal/event"
)

type textCommand struct {
	id    string
	reply config.Reply
	msg   messaging_api.MessageInterface
	menu  *messaging_api.RichMenuRequest
}

// Text matches the message text against command keywords. Unmatched text
// gets no reply.
type Text struct {
	commands map[string]*textCommand // normalized keyword → command
	menus    RichMenuManager
	openFile func(name string) (io.ReadCloser, error)
}

// NewText prebuilds every command's message so configuration errors surface
// when the handler set is built, not when a user types the keyword.
func NewText(cmds []config.Command, menus RichMenuManager, openFile func(string) (io.ReadCloser, error)) (*Text, error) {
	h := &Text{
		commands: make(map[string]*textCommand),
		menus:    menus,
		openFile: openFile,
	}
	for _, c := range cmds {
		tc := &textCommand{id: c.ID, reply: c.Reply}
		switch {
		case c.Reply.Type == config.ReplyRichMenuLink:
			if c.Reply.RichMenu == nil {
				return nil, fmt.Errorf("command %s: rich_menu is required", c.ID)
			}
			menu, err := content.RichMenu(*c.Reply.RichMenu)
			if err != nil {
				return nil, fmt.Errorf("command %s: %w", c.ID, err)
			}
			tc.menu = menu
		case c.Reply.IsRichMenu():
		default:
			msg, err := content.Message(c.Reply)
			if err != nil {
				return nil, fmt.Errorf("command %s: %w", c.ID, err)
			}
			tc.msg = msg
		}
		for _, kw := range c.Keywords {
			h.commands[config.NormalizeKeyword(kw)] = tc
		}
	}
	return h, nil
}

// Route implements Handler.
func (*Text) Route() Route { return RouteText }

// Handle replies with the matched command's message, or runs its rich-menu
// operation and replies nothing.
func (h *Text) Handle(ctx context.Context, ev *event.Event) (messaging_api.MessageInterface, error) {
	text, ok := messageContent[*event.Text](ev)
	if !ok {
		return nil, fmt.Errorf("text handler: unexpected payload %T", ev.Payload)
	}
	cmd, ok := h.commands[config.NormalizeKeyword(text.Text)]
	if !ok {
		return nil, nil
	}
	if !cmd.reply.IsRichMenu() {
		return cmd.msg, nil
	}

	if h.menus == nil {
		return nil, fmt.Errorf("command %s: no rich menu manager configured", cmd.id)
	}
	userID := ev.Source.UserID
	switch cmd.reply.Type {
	case config.ReplyRichMenuLink:
		if userID == "" {
			return nil, fmt.Errorf("command %s: event has no user id", cmd.id)
		}
		return nil, h.linkRichMenu(ctx, cmd, userID)
	case config.ReplyRichMenuUnlink:
		if userID == "" {
			return nil, fmt.Errorf("command %s: event has no user id", cmd.id)
		}
		return nil, h.unlinkRichMenu(ctx, userID)
	default:
		return nil, h.deleteAllRichMenus(ctx)
	}
}

// linkRichMenu creates the menu, uploads its image and links it to the user.
// A menu that was created but could not be set up is deleted again.
func (h *Text) linkRichMenu(ctx context.Context, cmd *textCommand, userID string) error {
	def := cmd.reply.RichMenu
	img, err := h.openFile(def.ImagePath)
	if err != nil {
		return fmt.Errorf("open rich menu image: %w", err)
	}
	defer img.Close()

	id, err := h.menus.CreateRichMenu(ctx, cmd.menu)
	if err != nil {
		return err
	}
	contentType := def.ImageContentType
	if contentType == "" {
		contentType = "image/png"
	}
	err = h.menus.UploadRichMenuImage(ctx, id, contentType, img)
	if err == nil {
		err = h.menus.LinkRichMenu(ctx, userID, id)
	}
	if err != nil {
		if derr := h.menus.DeleteRichMenu(ctx, id); derr != nil {
			return errors.Join(err, fmt.Errorf("clean up rich menu %s: %w", id, derr))
		}
		return err
	}
	return nil
}

func (h *Text) unlinkRichMenu(ctx context.Context, userID string) error {
	id, err := h.menus.UserRichMenu(ctx, userID)
	if err != nil {
		return err
	}
	if err := h.menus.UnlinkRichMenu(ctx, userID); err != nil {
		return err
	}
	return h.menus.DeleteRichMenu(ctx, id)
}

func (h *Text) deleteAllRichMenus(ctx context.Context) error {
	ids, err := h.menus.ListRichMenus(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range ids {
		if err := h.menus.DeleteRichMenu(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
