package content_test

import (
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/linehook/internal/config"
	"github.com/gyaneshwarpardhi/linehook/internal/content"
)

func commandReply(t *testing.T, id string) config.Reply {
	t.Helper()
	for _, c := range config.Default().Commands {
		if c.ID == id {
			return c.Reply
		}
	}
	t.Fatalf("command %q not in default config", id)
	return config.Reply{}
}

func TestMessage_Confirm(t *testing.T) {
	msg, err := content.Message(commandReply(t, "confirm_reservation"))
	require.NoError(t, err)

	tm, ok := msg.(*messaging_api.TemplateMessage)
	require.True(t, ok, "expected template message, got %T", msg)
	assert.Equal(t, "Confirm", tm.AltText)

	confirm, ok := tm.Template.(*messaging_api.ConfirmTemplate)
	require.True(t, ok, "expected confirm template, got %T", tm.Template)
	assert.Equal(t, "こんにちは！テニスコートを予約しますか？", confirm.Text)
	assert.Equal(t, []messaging_api.ActionInterface{
		&messaging_api.MessageAction{Label: "はい", Text: "yes"},
		&messaging_api.MessageAction{Label: "いいえ", Text: "no"},
	}, confirm.Actions)
}

func TestMessage_Buttons(t *testing.T) {
	msg, err := content.Message(commandReply(t, "buttons"))
	require.NoError(t, err)

	buttons := msg.(*messaging_api.TemplateMessage).Template.(*messaging_api.ButtonsTemplate)
	assert.Equal(t, "Sample Title", buttons.Title)
	assert.Equal(t, "https://github.com/apple-touch-icon.png", buttons.ThumbnailImageUrl)
	require.Len(t, buttons.Actions, 3)
	assert.Equal(t, &messaging_api.PostbackAction{Label: "Postback Label", Data: "sample data", DisplayText: "sample data"}, buttons.Actions[1])
	assert.Equal(t, &messaging_api.UriAction{Label: "Uri Label", Uri: "https://github.com/kenakamu"}, buttons.Actions[2])
}

func TestMessage_Carousels(t *testing.T) {
	msg, err := content.Message(commandReply(t, "court_carousel"))
	require.NoError(t, err)
	carousel := msg.(*messaging_api.TemplateMessage).Template.(*messaging_api.CarouselTemplate)
	require.Len(t, carousel.Columns, 2)
	assert.Equal(t, "長命ヶ丘庭球場", carousel.Columns[0].Title)
	assert.Len(t, carousel.Columns[1].Actions, 3)

	msg, err = content.Message(commandReply(t, "image_carousel"))
	require.NoError(t, err)
	images := msg.(*messaging_api.TemplateMessage).Template.(*messaging_api.ImageCarouselTemplate)
	assert.Len(t, images.Columns, 5)
}

func TestMessage_Imagemap(t *testing.T) {
	msg, err := content.Message(commandReply(t, "imagemap"))
	require.NoError(t, err)

	im, ok := msg.(*messaging_api.ImagemapMessage)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/images/githubicon", im.BaseUrl)
	assert.Equal(t, &messaging_api.ImagemapBaseSize{Width: 1040, Height: 1040}, im.BaseSize)
	require.Len(t, im.Actions, 2)
	assert.Equal(t, &messaging_api.MessageImagemapAction{
		Text: "I love LINE!",
		Area: &messaging_api.ImagemapArea{X: 520, Y: 0, Width: 520, Height: 1040},
	}, im.Actions[1])
}

func TestMessage_Text(t *testing.T) {
	msg, err := content.Message(config.Reply{Type: config.ReplyText, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, &messaging_api.TextMessage{Text: "hello"}, msg)
}

func TestMessage_RejectsOperations(t *testing.T) {
	_, err := content.Message(config.Reply{Type: config.ReplyRichMenuUnlink})
	assert.EqualError(t, err, `reply type "rich_menu_unlink" is not a message`)

	_, err = content.Message(config.Reply{
		Type:    config.ReplyButtons,
		Text:    "x",
		Actions: []config.ActionDef{{Type: "camera"}},
	})
	assert.EqualError(t, err, `action 0: unknown action type "camera"`)
}

func TestAction_DatetimePicker(t *testing.T) {
	a, err := content.Action(config.ActionDef{Type: config.ActionDatetimePicker, Label: "Date", Data: "Date", Mode: "date", Initial: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, &messaging_api.DatetimePickerAction{
		Label:   "Date",
		Data:    "Date",
		Mode:    messaging_api.DatetimePickerActionMODE_DATE,
		Initial: "2024-01-01",
	}, a)
}

func TestRichMenu(t *testing.T) {
	r := commandReply(t, "add_rich_menu")
	req, err := content.RichMenu(*r.RichMenu)
	require.NoError(t, err)

	assert.Equal(t, "nice richmenu", req.Name)
	assert.Equal(t, "touch me", req.ChatBarText)
	assert.Equal(t, &messaging_api.RichMenuSize{Width: 2500, Height: 1686}, req.Size)
	require.Len(t, req.Areas, 1)
	assert.Equal(t, &messaging_api.RichMenuBounds{X: 0, Y: 0, Width: 2500, Height: 1686}, req.Areas[0].Bounds)
	assert.Equal(t, &messaging_api.PostbackAction{Data: "action=buy&itemid=123"}, req.Areas[0].Action)
}
