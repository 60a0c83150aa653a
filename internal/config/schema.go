package config

// BotConfig is the top-level YAML structure.
type BotConfig struct {
	Version  string     `yaml:"version"`
	Server   ServerConf `yaml:"server"`
	Engine   EngineConf `yaml:"engine"`
	Replies  ReplyConf  `yaml:"replies"`
	Commands []Command  `yaml:"commands"`
}

// ServerConf holds HTTP settings for the webhook endpoint.
type ServerConf struct {
	WebhookPath  string `yaml:"webhook_path"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// EngineConf holds tunable concurrency settings.
type EngineConf struct {
	EventWorkers   int  `yaml:"event_workers"` // 0 = process events inline
	QueueDepth     int  `yaml:"queue_depth"`
	EventTimeoutMs int  `yaml:"event_timeout_ms"` // bounds dispatch plus delivery of one event
	LookupProfile  bool `yaml:"lookup_profile"`
}

// ReplyConf holds the fixed replies of events that always answer the same way.
type ReplyConf struct {
	Beacon   string     `yaml:"beacon"`
	Follow   string     `yaml:"follow"`
	Join     string     `yaml:"join"`
	Leave    string     `yaml:"leave"`
	Unfollow string     `yaml:"unfollow"`
	Sticker  StickerDef `yaml:"sticker"`
	Media    ImageDef   `yaml:"media"`
}

// StickerDef names a sticker by package and sticker id.
type StickerDef struct {
	PackageID string `yaml:"package_id"`
	StickerID string `yaml:"sticker_id"`
}

// ImageDef is an image message: full-size and preview URLs.
type ImageDef struct {
	OriginalContentURL string `yaml:"original_content_url"`
	PreviewImageURL    string `yaml:"preview_image_url"`
}

// Command binds text keywords to a reply.
type Command struct {
	ID       string   `yaml:"id"`
	Keywords []string `yaml:"keywords"`
	Reply    Reply    `yaml:"reply"`
}

// Reply types.
const (
	ReplyText              = "text"
	ReplyButtons           = "buttons"
	ReplyConfirm           = "confirm"
	ReplyCarousel          = "carousel"
	ReplyImageCarousel     = "image_carousel"
	ReplyImagemap          = "imagemap"
	ReplyRichMenuLink      = "rich_menu_link"
	ReplyRichMenuUnlink    = "rich_menu_unlink"
	ReplyRichMenuDeleteAll = "rich_menu_delete_all"
)

// Reply is a discriminated union keyed by Type; only the fields that type
// uses are read.
type Reply struct {
	Type              string        `yaml:"type"`
	AltText           string        `yaml:"alt_text"`
	Text              string        `yaml:"text"`
	Title             string        `yaml:"title"`
	ThumbnailImageURL string        `yaml:"thumbnail_image_url"`
	Actions           []ActionDef   `yaml:"actions"`
	Columns           []ColumnDef   `yaml:"columns"`
	BaseURL           string        `yaml:"base_url"`
	BaseSize          SizeDef       `yaml:"base_size"`
	Areas             []ImagemapDef `yaml:"areas"`
	RichMenu          *RichMenuDef  `yaml:"rich_menu"`
}

// IsRichMenu reports whether the reply is a rich-menu operation rather than a message.
func (r Reply) IsRichMenu() bool {
	switch r.Type {
	case ReplyRichMenuLink, ReplyRichMenuUnlink, ReplyRichMenuDeleteAll:
		return true
	}
	return false
}

// Action types.
const (
	ActionMessage        = "message"
	ActionPostback       = "postback"
	ActionURI            = "uri"
	ActionDatetimePicker = "datetimepicker"
)

// ActionDef describes a template action; which fields apply depends on Type.
type ActionDef struct {
	Type        string `yaml:"type"`
	Label       string `yaml:"label"`
	Text        string `yaml:"text"`
	Data        string `yaml:"data"`
	DisplayText string `yaml:"display_text"`
	URI         string `yaml:"uri"`
	Mode        string `yaml:"mode"` // date, time, datetime
	Initial     string `yaml:"initial"`
}

// ColumnDef is a carousel column. Image carousels use ImageURL and Action.
type ColumnDef struct {
	Title             string      `yaml:"title"`
	Text              string      `yaml:"text"`
	ThumbnailImageURL string      `yaml:"thumbnail_image_url"`
	Actions           []ActionDef `yaml:"actions"`
	ImageURL          string      `yaml:"image_url"`
	Action            *ActionDef  `yaml:"action"`
}

// SizeDef is a width and height in pixels.
type SizeDef struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RectDef is a tappable area in pixels, relative to the image origin.
type RectDef struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ImagemapDef is a tappable imagemap area: type "uri" opens LinkURI, "message" sends Text.
type ImagemapDef struct {
	Type    string  `yaml:"type"`
	LinkURI string  `yaml:"link_uri"`
	Text    string  `yaml:"text"`
	Area    RectDef `yaml:"area"`
}

// RichMenuDef describes a rich menu and the image uploaded for it.
type RichMenuDef struct {
	Name             string            `yaml:"name"`
	ChatBarText      string            `yaml:"chat_bar_text"`
	Selected         bool              `yaml:"selected"`
	Size             SizeDef           `yaml:"size"`
	Areas            []RichMenuAreaDef `yaml:"areas"`
	ImagePath        string            `yaml:"image_path"`
	ImageContentType string            `yaml:"image_content_type"`
}

// RichMenuAreaDef binds an action to a region of the rich menu.
type RichMenuAreaDef struct {
	Bounds RectDef   `yaml:"bounds"`
	Action ActionDef `yaml:"action"`
}
