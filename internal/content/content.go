// Package content turns reply definitions from the config into LINE
// Messaging API message values.
package content

import (
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/gyaneshwarpardhi/linehook/internal/config"
)

// Message builds the outbound message for a reply definition.
// Rich-menu replies are operations, not messages, and are rejected here.
func Message(r config.Reply) (messaging_api.MessageInterface, error) {
	switch r.Type {
	case config.ReplyText:
		return &messaging_api.TextMessage{Text: r.Text}, nil
	case config.ReplyButtons:
		actions, err := Actions(r.Actions)
		if err != nil {
			return nil, err
		}
		return &messaging_api.TemplateMessage{
			AltText: altText(r, "Buttons"),
			Template: &messaging_api.ButtonsTemplate{
				ThumbnailImageUrl: r.ThumbnailImageURL,
				Title:             r.Title,
				Text:              r.Text,
				Actions:           actions,
			},
		}, nil
	case config.ReplyConfirm:
		actions, err := Actions(r.Actions)
		if err != nil {
			return nil, err
		}
		return &messaging_api.TemplateMessage{
			AltText: altText(r, "Confirm"),
			Template: &messaging_api.ConfirmTemplate{
				Text:    r.Text,
				Actions: actions,
			},
		}, nil
	case config.ReplyCarousel:
		columns := make([]messaging_api.CarouselColumn, 0, len(r.Columns))
		for i, col := range r.Columns {
			actions, err := Actions(col.Actions)
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
			columns = append(columns, messaging_api.CarouselColumn{
				ThumbnailImageUrl: col.ThumbnailImageURL,
				Title:             col.Title,
				Text:              col.Text,
				Actions:           actions,
			})
		}
		return &messaging_api.TemplateMessage{
			AltText:  altText(r, "Carousel"),
			Template: &messaging_api.CarouselTemplate{Columns: columns},
		}, nil
	case config.ReplyImageCarousel:
		columns := make([]messaging_api.ImageCarouselColumn, 0, len(r.Columns))
		for i, col := range r.Columns {
			if col.Action == nil {
				return nil, fmt.Errorf("column %d: action is required", i)
			}
			action, err := Action(*col.Action)
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
			columns = append(columns, messaging_api.ImageCarouselColumn{
				ImageUrl: col.ImageURL,
				Action:   action,
			})
		}
		return &messaging_api.TemplateMessage{
			AltText:  altText(r, "Carousel"),
			Template: &messaging_api.ImageCarouselTemplate{Columns: columns},
		}, nil
	case config.ReplyImagemap:
		actions := make([]messaging_api.ImagemapActionInterface, 0, len(r.Areas))
		for i, a := range r.Areas {
			area := &messaging_api.ImagemapArea{
				X:      int32(a.Area.X),
				Y:      int32(a.Area.Y),
				Width:  int32(a.Area.Width),
				Height: int32(a.Area.Height),
			}
			switch a.Type {
			case config.ActionURI:
				actions = append(actions, &messaging_api.UriImagemapAction{LinkUri: a.LinkURI, Area: area})
			case config.ActionMessage:
				actions = append(actions, &messaging_api.MessageImagemapAction{Text: a.Text, Area: area})
			default:
				return nil, fmt.Errorf("area %d: unknown imagemap action %q", i, a.Type)
			}
		}
		return &messaging_api.ImagemapMessage{
			BaseUrl: r.BaseURL,
			AltText: altText(r, "Imagemap"),
			BaseSize: &messaging_api.ImagemapBaseSize{
				Width:  int32(r.BaseSize.Width),
				Height: int32(r.BaseSize.Height),
			},
			Actions: actions,
		}, nil
	default:
		return nil, fmt.Errorf("reply type %q is not a message", r.Type)
	}
}

// Actions builds template actions.
func Actions(defs []config.ActionDef) ([]messaging_api.ActionInterface, error) {
	out := make([]messaging_api.ActionInterface, 0, len(defs))
	for i, d := range defs {
		a, err := Action(d)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Action builds a single template action.
func Action(d config.ActionDef) (messaging_api.ActionInterface, error) {
	switch d.Type {
	case config.ActionMessage:
		return &messaging_api.MessageAction{Label: d.Label, Text: d.Text}, nil
	case config.ActionPostback:
		return &messaging_api.PostbackAction{Label: d.Label, Data: d.Data, DisplayText: d.DisplayText}, nil
	case config.ActionURI:
		return &messaging_api.UriAction{Label: d.Label, Uri: d.URI}, nil
	case config.ActionDatetimePicker:
		return &messaging_api.DatetimePickerAction{
			Label:   d.Label,
			Data:    d.Data,
			Mode:    messaging_api.DatetimePickerActionMODE(d.Mode),
			Initial: d.Initial,
		}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", d.Type)
	}
}

// RichMenu builds the create request for a rich-menu definition.
func RichMenu(d config.RichMenuDef) (*messaging_api.RichMenuRequest, error) {
	areas := make([]messaging_api.RichMenuArea, 0, len(d.Areas))
	for i, a := range d.Areas {
		action, err := Action(a.Action)
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", i, err)
		}
		areas = append(areas, messaging_api.RichMenuArea{
			Bounds: &messaging_api.RichMenuBounds{
				X:      int64(a.Bounds.X),
				Y:      int64(a.Bounds.Y),
				Width:  int64(a.Bounds.Width),
				Height: int64(a.Bounds.Height),
			},
			Action: action,
		})
	}
	return &messaging_api.RichMenuRequest{
		Size: &messaging_api.RichMenuSize{
			Width:  int64(d.Size.Width),
			Height: int64(d.Size.Height),
		},
		Selected:    d.Selected,
		Name:        d.Name,
		ChatBarText: d.ChatBarText,
		Areas:       areas,
	}, nil
}

func altText(r config.Reply, fallback string) string {
	if r.AltText != "" {
		return r.AltText
	}
	return fallback
}
