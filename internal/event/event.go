package event

import "time"

// Kind is the top-level tag of a webhook event.
type Kind string

const (
	KindBeacon   Kind = "beacon"
	KindFollow   Kind = "follow"
	KindJoin     Kind = "join"
	KindLeave    Kind = "leave"
	KindMessage  Kind = "message"
	KindPostback Kind = "postback"
	KindUnfollow Kind = "unfollow"
	KindUnknown  Kind = "unknown"
)

// Batch is the decoded body of one webhook call. Events keep their wire order.
type Batch struct {
	Destination string
	Events      []Event
}

// Event is the canonical model for one user or platform interaction.
// The kind is derived from Payload, so the two can never disagree.
type Event struct {
	WebhookEventID string
	ReplyToken     string
	Mode           string
	Redelivery     bool
	Timestamp      time.Time
	Source         Source
	Payload        Payload
}

// Kind returns the tag of the event's payload.
func (e Event) Kind() Kind {
	if e.Payload == nil {
		return KindUnknown
	}
	return e.Payload.Kind()
}

// SourceType is "user", "group" or "room".
type SourceType string

const (
	SourceUser  SourceType = "user"
	SourceGroup SourceType = "group"
	SourceRoom  SourceType = "room"
)

// Source identifies who the event came from.
type Source struct {
	Type    SourceType
	UserID  string
	GroupID string
	RoomID  string
}

// ID returns the id a push message should target: the group or room for
// multi-person chats, the user otherwise.
func (s Source) ID() string {
	switch s.Type {
	case SourceGroup:
		if s.GroupID != "" {
			return s.GroupID
		}
	case SourceRoom:
		if s.RoomID != "" {
			return s.RoomID
		}
	}
	if s.UserID != "" {
		return s.UserID
	}
	if s.GroupID != "" {
		return s.GroupID
	}
	return s.RoomID
}

// Payload is the sealed set of event variants.
type Payload interface {
	Kind() Kind
	isPayload()
}

// Beacon is sent when a user enters or stays in range of a LINE Beacon.
type Beacon struct {
	Hwid string
	Type string // enter, banner, stay
	DM   string
}

// Follow is sent when a user adds the bot as a friend or unblocks it.
type Follow struct{}

// Join is sent when the bot joins a group or room.
type Join struct{}

// Leave is sent when the bot is removed from a group or room.
type Leave struct{}

// Unfollow is sent when a user blocks the bot.
type Unfollow struct{}

// Message carries a user message; Content is never nil.
type Message struct {
	ID         string
	QuoteToken string
	Content    Content
}

// Postback is sent when a user triggers a postback action.
// Params is nil unless a date/time picker produced a selection.
type Postback struct {
	Data   string
	Params *PostbackParams
}

// PostbackParams holds a date/time picker selection.
type PostbackParams struct {
	Date     string
	Time     string
	Datetime string
}

// Unknown stands in for any record the decoder could not map to a known variant.
type Unknown struct {
	Type   string
	Reason string
}

func (*Beacon) Kind() Kind   { return KindBeacon }
func (*Follow) Kind() Kind   { return KindFollow }
func (*Join) Kind() Kind     { return KindJoin }
func (*Leave) Kind() Kind    { return KindLeave }
func (*Message) Kind() Kind  { return KindMessage }
func (*Postback) Kind() Kind { return KindPostback }
func (*Unfollow) Kind() Kind { return KindUnfollow }
func (*Unknown) Kind() Kind  { return KindUnknown }

func (*Beacon) isPayload()   {}
func (*Follow) isPayload()   {}
func (*Join) isPayload()     {}
func (*Leave) isPayload()    {}
func (*Message) isPayload()  {}
func (*Postback) isPayload() {}
func (*Unfollow) isPayload() {}
func (*Unknown) isPayload()  {}

// ContentType is the subtype tag of a message.
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentImage    ContentType = "image"
	ContentVideo    ContentType = "video"
	ContentAudio    ContentType = "audio"
	ContentSticker  ContentType = "sticker"
	ContentLocation ContentType = "location"
)

// Content is the sealed set of message subtypes.
type Content interface {
	Type() ContentType
	isContent()
}

// Text is a plain text message.
type Text struct {
	Text string
}

// ContentProvider says where binary content lives: "line" or "external".
type ContentProvider struct {
	Type               string
	OriginalContentURL string
	PreviewImageURL    string
}

// Image, Video and Audio are media messages whose binary content lives on
// the platform and is fetched by message id.
type Image struct {
	Provider ContentProvider
}

// Video carries its playback length.
type Video struct {
	Duration time.Duration
	Provider ContentProvider
}

// Audio carries its playback length.
type Audio struct {
	Duration time.Duration
	Provider ContentProvider
}

// Sticker identifies a sticker by package and sticker id.
type Sticker struct {
	PackageID string
	StickerID string
}

// Location is a shared map location.
type Location struct {
	Title     string
	Address   string
	Latitude  float64
	Longitude float64
}

// UnknownContent is a message subtype this service does not handle (file, etc.).
type UnknownContent struct {
	Kind string
}

func (*Text) Type() ContentType     { return ContentText }
func (*Image) Type() ContentType    { return ContentImage }
func (*Video) Type() ContentType    { return ContentVideo }
func (*Audio) Type() ContentType    { return ContentAudio }
func (*Sticker) Type() ContentType  { return ContentSticker }
func (*Location) Type() ContentType { return ContentLocation }

func (c *UnknownContent) Type() ContentType { return ContentType(c.Kind) }

func (*Text) isContent()           {}
func (*Image) isContent()          {}
func (*Video) isContent()          {}
func (*Audio) isContent()          {}
func (*Sticker) isContent()        {}
func (*Location) isContent()       {}
func (*UnknownContent) isContent() {}
