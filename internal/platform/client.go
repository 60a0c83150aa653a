// Package platform adapts the LINE Messaging API SDK to the narrow
// interfaces the rest of the service consumes. Every method takes a
// context and is an independent remote call.
package platform

import (
	"context"
	"fmt"
	"io"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// maxContentBytes bounds how much of a media message is read.
const maxContentBytes = 50 << 20

// Profile is the subset of a user profile the service logs.
type Profile struct {
	UserID      string
	DisplayName string
	PictureURL  string
	Language    string
}

// Content describes binary content retrieved for a media message.
type Content struct {
	MessageID   string
	ContentType string
	Size        int64
}

// Client talks to the Messaging API with a channel access token.
type Client struct {
	api  *messaging_api.MessagingApiAPI
	blob *messaging_api.MessagingApiBlobAPI
}

// New creates a Client for the channel access token.
func New(channelToken string) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("messaging api client: %w", err)
	}
	blob, err := messaging_api.NewMessagingApiBlobAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("messaging api blob client: %w", err)
	}
	return &Client{api: api, blob: blob}, nil
}

// Reply answers an event with its reply token.
func (c *Client) Reply(ctx context.Context, replyToken string, msgs ...messaging_api.MessageInterface) error {
	_, err := c.api.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   msgs,
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

// Push sends an unsolicited message to a user, group or room.
func (c *Client) Push(ctx context.Context, to string, msgs ...messaging_api.MessageInterface) error {
	_, err := c.api.WithContext(ctx).PushMessage(&messaging_api.PushMessageRequest{
		To:       to,
		Messages: msgs,
	}, "")
	if err != nil {
		return fmt.Errorf("push message to %s: %w", to, err)
	}
	return nil
}

// Profile looks up a user's profile.
func (c *Client) Profile(ctx context.Context, userID string) (*Profile, error) {
	p, err := c.api.WithContext(ctx).GetProfile(userID)
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	return &Profile{
		UserID:      p.UserId,
		DisplayName: p.DisplayName,
		PictureURL:  p.PictureUrl,
		Language:    p.Language,
	}, nil
}

// MessageContent downloads the binary content of a media message.
func (c *Client) MessageContent(ctx context.Context, messageID string) (*Content, error) {
	resp, err := c.blob.WithContext(ctx).GetMessageContent(messageID)
	if err != nil {
		return nil, fmt.Errorf("get message content %s: %w", messageID, err)
	}
	defer resp.Body.Close()

	n, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxContentBytes))
	if err != nil {
		return nil, fmt.Errorf("read message content %s: %w", messageID, err)
	}
	return &Content{
		MessageID:   messageID,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        n,
	}, nil
}

// CreateRichMenu creates a rich menu and returns its id.
func (c *Client) CreateRichMenu(ctx context.Context, menu *messaging_api.RichMenuRequest) (string, error) {
	res, err := c.api.WithContext(ctx).CreateRichMenu(menu)
	if err != nil {
		return "", fmt.Errorf("create rich menu: %w", err)
	}
	return res.RichMenuId, nil
}

// UploadRichMenuImage sets the image of a rich menu.
func (c *Client) UploadRichMenuImage(ctx context.Context, richMenuID, contentType string, image io.Reader) error {
	if _, err := c.blob.WithContext(ctx).SetRichMenuImage(richMenuID, contentType, image); err != nil {
		return fmt.Errorf("upload rich menu image %s: %w", richMenuID, err)
	}
	return nil
}

// LinkRichMenu links a rich menu to a user.
func (c *Client) LinkRichMenu(ctx context.Context, userID, richMenuID string) error {
	if _, err := c.api.WithContext(ctx).LinkRichMenuIdToUser(userID, richMenuID); err != nil {
		return fmt.Errorf("link rich menu %s to %s: %w", richMenuID, userID, err)
	}
	return nil
}

// UserRichMenu returns the id of the rich menu linked to a user.
func (c *Client) UserRichMenu(ctx context.Context, userID string) (string, error) {
	res, err := c.api.WithContext(ctx).GetRichMenuIdOfUser(userID)
	if err != nil {
		return "", fmt.Errorf("get rich menu of %s: %w", userID, err)
	}
	return res.RichMenuId, nil
}

// UnlinkRichMenu removes the rich menu linked to a user.
func (c *Client) UnlinkRichMenu(ctx context.Context, userID string) error {
	if _, err := c.api.WithContext(ctx).UnlinkRichMenuIdFromUser(userID); err != nil {
		return fmt.Errorf("unlink rich menu from %s: %w", userID, err)
	}
	return nil
}

// DeleteRichMenu deletes a rich menu.
func (c *Client) DeleteRichMenu(ctx context.Context, richMenuID string) error {
	if _, err := c.api.WithContext(ctx).DeleteRichMenu(richMenuID); err != nil {
		return fmt.Errorf("delete rich menu %s: %w", richMenuID, err)
	}
	return nil
}

// ListRichMenus returns the ids of all rich menus of the channel.
func (c *Client) ListRichMenus(ctx context.Context) ([]string, error) {
	res, err := c.api.WithContext(ctx).GetRichMenuList()
	if err != nil {
		return nil, fmt.Errorf("list rich menus: %w", err)
	}
	ids := make([]string, 0, len(res.Richmenus))
	for _, m := range res.Richmenus {
		ids = append(ids, m.RichMenuId)
	}
	return ids, nil
}
