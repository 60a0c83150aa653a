package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// ErrDecode is matched by every envelope-level decoding failure.
var ErrDecode = errors.New("decode webhook batch")

// DecodeError reports a malformed batch envelope.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrDecode, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrDecode, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Decode parses a webhook body into a Batch.
//
// Only the envelope can fail: a body that is not a JSON object with an
// "events" array yields a *DecodeError. Individual records that cannot be
// mapped to a known variant become Unknown events so siblings still run.
func Decode(raw []byte) (Batch, error) {
	if !gjson.ValidBytes(raw) {
		return Batch{}, &DecodeError{Reason: "invalid JSON"}
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return Batch{}, &DecodeError{Reason: "envelope is not an object"}
	}
	events := root.Get("events")
	if !events.IsArray() {
		return Batch{}, &DecodeError{Reason: "events array is missing"}
	}

	items := events.Array()
	b := Batch{
		Destination: root.Get("destination").String(),
		Events:      make([]Event, 0, len(items)),
	}
	for _, item := range items {
		b.Events = append(b.Events, decodeEvent(item))
	}
	return b, nil
}

type wireSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
	RoomID  string `json:"roomId"`
}

type wireEvent struct {
	Type            string      `json:"type"`
	Mode            string      `json:"mode"`
	Timestamp       int64       `json:"timestamp"`
	WebhookEventID  string      `json:"webhookEventId"`
	ReplyToken      string      `json:"replyToken"`
	Source          *wireSource `json:"source"`
	DeliveryContext struct {
		IsRedelivery bool `json:"isRedelivery"`
	} `json:"deliveryContext"`
	Beacon   *wireBeacon   `json:"beacon"`
	Message  *wireMessage  `json:"message"`
	Postback *wirePostback `json:"postback"`
}

type wireBeacon struct {
	Hwid string `json:"hwid"`
	Type string `json:"type"`
	DM   string `json:"dm"`
}

type wireContentProvider struct {
	Type               string `json:"type"`
	OriginalContentURL string `json:"originalContentUrl"`
	PreviewImageURL    string `json:"previewImageUrl"`
}

type wireMessage struct {
	ID              string               `json:"id"`
	Type            string               `json:"type"`
	QuoteToken      string               `json:"quoteToken"`
	Text            string               `json:"text"`
	Duration        int64                `json:"duration"`
	ContentProvider *wireContentProvider `json:"contentProvider"`
	PackageID       string               `json:"packageId"`
	StickerID       string               `json:"stickerId"`
	Title           string               `json:"title"`
	Address         string               `json:"address"`
	Latitude        float64              `json:"latitude"`
	Longitude       float64              `json:"longitude"`
}

type wirePostback struct {
	Data   string `json:"data"`
	Params *struct {
		Date     string `json:"date"`
		Time     string `json:"time"`
		Datetime string `json:"datetime"`
	} `json:"params"`
}

func decodeEvent(item gjson.Result) Event {
	typ := item.Get("type").String()
	if !item.IsObject() {
		return Event{Payload: &Unknown{Type: typ, Reason: "event is not an object"}}
	}

	var w wireEvent
	if err := json.Unmarshal([]byte(item.Raw), &w); err != nil {
		return Event{Payload: &Unknown{Type: typ, Reason: fmt.Sprintf("unmarshal event: %v", err)}}
	}

	ev := Event{
		WebhookEventID: w.WebhookEventID,
		ReplyToken:     w.ReplyToken,
		Mode:           w.Mode,
		Redelivery:     w.DeliveryContext.IsRedelivery,
	}
	if w.Timestamp > 0 {
		ev.Timestamp = time.UnixMilli(w.Timestamp).UTC()
	}
	if w.Source != nil {
		ev.Source = Source{
			Type:    SourceType(w.Source.Type),
			UserID:  w.Source.UserID,
			GroupID: w.Source.GroupID,
			RoomID:  w.Source.RoomID,
		}
	}

	ev.Payload = decodePayload(Kind(typ), &w)
	if ev.Kind() != KindUnknown && ev.Source.ID() == "" {
		ev.Payload = &Unknown{Type: typ, Reason: "event has no source identity"}
	}
	return ev
}

func decodePayload(kind Kind, w *wireEvent) Payload {
	switch kind {
	case KindBeacon:
		if w.Beacon == nil {
			return &Unknown{Type: string(kind), Reason: "beacon payload is missing"}
		}
		return &Beacon{Hwid: w.Beacon.Hwid, Type: w.Beacon.Type, DM: w.Beacon.DM}
	case KindFollow:
		return &Follow{}
	case KindJoin:
		return &Join{}
	case KindLeave:
		return &Leave{}
	case KindUnfollow:
		return &Unfollow{}
	case KindMessage:
		if w.Message == nil {
			return &Unknown{Type: string(kind), Reason: "message payload is missing"}
		}
		return &Message{
			ID:         w.Message.ID,
			QuoteToken: w.Message.QuoteToken,
			Content:    decodeContent(w.Message),
		}
	case KindPostback:
		if w.Postback == nil {
			return &Unknown{Type: string(kind), Reason: "postback payload is missing"}
		}
		pb := &Postback{Data: w.Postback.Data}
		if p := w.Postback.Params; p != nil && (p.Date != "" || p.Time != "" || p.Datetime != "") {
			pb.Params = &PostbackParams{Date: p.Date, Time: p.Time, Datetime: p.Datetime}
		}
		return pb
	default:
		return &Unknown{Type: string(kind), Reason: "unrecognized event type"}
	}
}

func decodeContent(m *wireMessage) Content {
	switch ContentType(m.Type) {
	case ContentText:
		return &Text{Text: m.Text}
	case ContentImage:
		return &Image{Provider: provider(m.ContentProvider)}
	case ContentVideo:
		return &Video{Duration: time.Duration(m.Duration) * time.Millisecond, Provider: provider(m.ContentProvider)}
	case ContentAudio:
		return &Audio{Duration: time.Duration(m.Duration) * time.Millisecond, Provider: provider(m.ContentProvider)}
	case ContentSticker:
		return &Sticker{PackageID: m.PackageID, StickerID: m.StickerID}
	case ContentLocation:
		return &Location{Title: m.Title, Address: m.Address, Latitude: m.Latitude, Longitude: m.Longitude}
	default:
		return &UnknownContent{Kind: m.Type}
	}
}

func provider(p *wireContentProvider) ContentProvider {
	if p == nil {
		return ContentProvider{}
	}
	return ContentProvider{
		Type:               p.Type,
		OriginalContentURL: p.OriginalContentURL,
		PreviewImageURL:    p.PreviewImageURL,
	}
}
