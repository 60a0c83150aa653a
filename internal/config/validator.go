package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for:
//   - Required fields
//   - Duplicate command IDs and keywords (keywords compare case-insensitively)
//   - Unknown reply and action types, and fields each type needs
func Validate(cfg *BotConfig) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string
	if !strings.HasPrefix(cfg.Server.WebhookPath, "/") {
		errs = append(errs, fmt.Sprintf("server.webhook_path %q must start with /", cfg.Server.WebhookPath))
	}
	if cfg.Engine.EventWorkers < 0 {
		errs = append(errs, "engine.event_workers must not be negative")
	}
	if cfg.Engine.EventTimeoutMs < 0 {
		errs = append(errs, "engine.event_timeout_ms must not be negative")
	}
	if cfg.Replies.Sticker.PackageID == "" || cfg.Replies.Sticker.StickerID == "" {
		errs = append(errs, "replies.sticker: package_id and sticker_id are required")
	}
	if cfg.Replies.Media.OriginalContentURL == "" || cfg.Replies.Media.PreviewImageURL == "" {
		errs = append(errs, "replies.media: original_content_url and preview_image_url are required")
	}

	ids := make(map[string]bool)
	keywords := make(map[string]string) // keyword → command id
	for i, c := range cfg.Commands {
		if c.ID == "" {
			errs = append(errs, fmt.Sprintf("commands[%d]: id is required", i))
			continue
		}
		if ids[c.ID] {
			errs = append(errs, fmt.Sprintf("duplicate command id %q", c.ID))
		}
		ids[c.ID] = true
		if len(c.Keywords) == 0 {
			errs = append(errs, fmt.Sprintf("command %s: keywords must not be empty", c.ID))
		}
		for _, kw := range c.Keywords {
			norm := NormalizeKeyword(kw)
			if strings.TrimSpace(norm) == "" {
				errs = append(errs, fmt.Sprintf("command %s: empty keyword", c.ID))
				continue
			}
			if prev, ok := keywords[norm]; ok {
				errs = append(errs, fmt.Sprintf("keyword %q used by %s and %s", kw, prev, c.ID))
				continue
			}
			keywords[norm] = c.ID
		}
		validateReply(c.Reply, "command "+c.ID, &errs)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// NormalizeKeyword is the form text commands are matched in: case-folded,
// otherwise exact. Surrounding whitespace is significant.
func NormalizeKeyword(s string) string {
	return strings.ToLower(s)
}

func validateReply(r Reply, loc string, errs *[]string) {
	switch r.Type {
	case ReplyText:
		if r.Text == "" {
			*errs = append(*errs, fmt.Sprintf("%s: text reply needs text", loc))
		}
	case ReplyButtons, ReplyConfirm:
		if r.Text == "" {
			*errs = append(*errs, fmt.Sprintf("%s: %s template needs text", loc, r.Type))
		}
		if len(r.Actions) == 0 {
			*errs = append(*errs, fmt.Sprintf("%s: %s template needs actions", loc, r.Type))
		}
		if r.Type == ReplyConfirm && len(r.Actions) != 2 {
			*errs = append(*errs, fmt.Sprintf("%s: confirm template needs exactly 2 actions", loc))
		}
		validateActions(r.Actions, loc, errs)
	case ReplyCarousel:
		if len(r.Columns) == 0 {
			*errs = append(*errs, fmt.Sprintf("%s: carousel needs columns", loc))
		}
		for j, col := range r.Columns {
			if col.Text == "" {
				*errs = append(*errs, fmt.Sprintf("%s.columns[%d]: text is required", loc, j))
			}
			validateActions(col.Actions, fmt.Sprintf("%s.columns[%d]", loc, j), errs)
		}
	case ReplyImageCarousel:
		if len(r.Columns) == 0 {
			*errs = append(*errs, fmt.Sprintf("%s: image carousel needs columns", loc))
		}
		for j, col := range r.Columns {
			if col.ImageURL == "" || col.Action == nil {
				*errs = append(*errs, fmt.Sprintf("%s.columns[%d]: image_url and action are required", loc, j))
				continue
			}
			validateActions([]ActionDef{*col.Action}, fmt.Sprintf("%s.columns[%d]", loc, j), errs)
		}
	case ReplyImagemap:
		if r.BaseURL == "" || r.BaseSize.Width <= 0 || r.BaseSize.Height <= 0 {
			*errs = append(*errs, fmt.Sprintf("%s: imagemap needs base_url and base_size", loc))
		}
		for j, a := range r.Areas {
			switch a.Type {
			case ActionURI:
				if a.LinkURI == "" {
					*errs = append(*errs, fmt.Sprintf("%s.areas[%d]: link_uri is required", loc, j))
				}
			case ActionMessage:
				if a.Text == "" {
					*errs = append(*errs, fmt.Sprintf("%s.areas[%d]: text is required", loc, j))
				}
			default:
				*errs = append(*errs, fmt.Sprintf("%s.areas[%d]: unknown area type %q", loc, j, a.Type))
			}
		}
	case ReplyRichMenuLink:
		if r.RichMenu == nil {
			*errs = append(*errs, fmt.Sprintf("%s: rich_menu is required", loc))
			return
		}
		if r.RichMenu.Name == "" || r.RichMenu.Size.Width <= 0 || r.RichMenu.Size.Height <= 0 {
			*errs = append(*errs, fmt.Sprintf("%s: rich_menu needs name and size", loc))
		}
		if r.RichMenu.ImagePath == "" {
			*errs = append(*errs, fmt.Sprintf("%s: rich_menu needs image_path", loc))
		}
		for j, a := range r.RichMenu.Areas {
			validateActions([]ActionDef{a.Action}, fmt.Sprintf("%s.rich_menu.areas[%d]", loc, j), errs)
		}
	case ReplyRichMenuUnlink, ReplyRichMenuDeleteAll:
	default:
		*errs = append(*errs, fmt.Sprintf("%s: unknown reply type %q", loc, r.Type))
	}
}

func validateActions(actions []ActionDef, loc string, errs *[]string) {
	for k, a := range actions {
		switch a.Type {
		case ActionMessage:
			if a.Text == "" {
				*errs = append(*errs, fmt.Sprintf("%s.actions[%d]: message action needs text", loc, k))
			}
		case ActionPostback:
			if a.Data == "" {
				*errs = append(*errs, fmt.Sprintf("%s.actions[%d]: postback action needs data", loc, k))
			}
		case ActionURI:
			if a.URI == "" {
				*errs = append(*errs, fmt.Sprintf("%s.actions[%d]: uri action needs uri", loc, k))
			}
		case ActionDatetimePicker:
			switch a.Mode {
			case "date", "time", "datetime":
			default:
				*errs = append(*errs, fmt.Sprintf("%s.actions[%d]: datetimepicker mode %q is invalid", loc, k, a.Mode))
			}
		default:
			*errs = append(*errs, fmt.Sprintf("%s.actions[%d]: unknown action type %q", loc, k, a.Type))
		}
	}
}
