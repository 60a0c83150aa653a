package event_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gyaneshwarpardhi/linehook/internal/event"
)

const sampleBatch = `{
	"destination": "Uxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
	"events": [
		{
			"type": "message",
			"mode": "active",
			"timestamp": 1462629479859,
			"webhookEventId": "01FZ74A0TDDPYRVKNK77XKC3ZR",
			"deliveryContext": {"isRedelivery": false},
			"replyToken": "nHuyWiB7yP5Zw52FIkcQobQuGDXCTA",
			"source": {"type": "user", "userId": "U4af4980629"},
			"message": {"id": "325708", "type": "text", "text": "こんにちは", "quoteToken": "q3Plxr4AgKd"}
		},
		{
			"type": "message",
			"timestamp": 1462629479860,
			"replyToken": "r2",
			"source": {"type": "group", "groupId": "Ca56f94637c", "userId": "U4af4980629"},
			"message": {"id": "325709", "type": "image", "contentProvider": {"type": "line"}}
		},
		{
			"type": "message",
			"replyToken": "r3",
			"source": {"type": "room", "roomId": "Ra8dbf4673c", "userId": "U4af4980629"},
			"message": {"id": "325710", "type": "video", "duration": 60000, "contentProvider": {"type": "external", "originalContentUrl": "https://example.com/v.mp4", "previewImageUrl": "https://example.com/v.jpg"}}
		},
		{
			"type": "message",
			"replyToken": "r4",
			"source": {"type": "user", "userId": "U1"},
			"message": {"id": "325711", "type": "audio", "duration": 1500, "contentProvider": {"type": "line"}}
		},
		{
			"type": "message",
			"replyToken": "r5",
			"source": {"type": "user", "userId": "U1"},
			"message": {"id": "325712", "type": "sticker", "packageId": "1", "stickerId": "2"}
		},
		{
			"type": "message",
			"replyToken": "r6",
			"source": {"type": "user", "userId": "U1"},
			"message": {"id": "325713", "type": "location", "title": "my location", "address": "Tokyo", "latitude": 35.65910807942215, "longitude": 139.70372892916203}
		},
		{"type": "follow", "replyToken": "r7", "source": {"type": "user", "userId": "U1"}},
		{"type": "unfollow", "source": {"type": "user", "userId": "U1"}},
		{"type": "join", "replyToken": "r8", "source": {"type": "group", "groupId": "C1"}},
		{"type": "leave", "source": {"type": "group", "groupId": "C1"}},
		{"type": "beacon", "replyToken": "r9", "source": {"type": "user", "userId": "U1"}, "beacon": {"hwid": "d41d8cd98f", "type": "enter"}},
		{"type": "postback", "replyToken": "r10", "source": {"type": "user", "userId": "U1"}, "postback": {"data": "sample data"}},
		{"type": "postback", "replyToken": "r11", "source": {"type": "user", "userId": "U1"}, "postback": {"data": "DateTime", "params": {"date": "2024-01-01", "time": "13:00"}}}
	]
}`

type DecodeSuite struct {
	suite.Suite
	batch event.Batch
}

func TestDecodeSuite(t *testing.T) {
	suite.Run(t, new(DecodeSuite))
}

func (s *DecodeSuite) SetupTest() {
	var err error
	s.batch, err = event.Decode([]byte(sampleBatch))
	s.Require().NoError(err)
	s.Require().Len(s.batch.Events, 13)
}

func (s *DecodeSuite) TestEnvelope() {
	s.Equal("Uxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx", s.batch.Destination)
}

func (s *DecodeSuite) TestPreservesOrder() {
	want := []event.Kind{
		event.KindMessage, event.KindMessage, event.KindMessage, event.KindMessage,
		event.KindMessage, event.KindMessage, event.KindFollow, event.KindUnfollow,
		event.KindJoin, event.KindLeave, event.KindBeacon, event.KindPostback, event.KindPostback,
	}
	got := make([]event.Kind, 0, len(s.batch.Events))
	for _, ev := range s.batch.Events {
		got = append(got, ev.Kind())
	}
	s.Equal(want, got)
}

func (s *DecodeSuite) TestTextMessage() {
	ev := s.batch.Events[0]
	s.Equal("nHuyWiB7yP5Zw52FIkcQobQuGDXCTA", ev.ReplyToken)
	s.Equal("01FZ74A0TDDPYRVKNK77XKC3ZR", ev.WebhookEventID)
	s.Equal("active", ev.Mode)
	s.Equal(time.UnixMilli(1462629479859).UTC(), ev.Timestamp)
	s.Equal("U4af4980629", ev.Source.ID())

	msg, ok := ev.Payload.(*event.Message)
	s.Require().True(ok)
	s.Equal("325708", msg.ID)
	s.Equal("q3Plxr4AgKd", msg.QuoteToken)
	s.Equal(&event.Text{Text: "こんにちは"}, msg.Content)
}

func (s *DecodeSuite) TestMediaMessages() {
	img := s.batch.Events[1].Payload.(*event.Message)
	s.Equal(&event.Image{Provider: event.ContentProvider{Type: "line"}}, img.Content)
	s.Equal("Ca56f94637c", s.batch.Events[1].Source.ID())

	vid := s.batch.Events[2].Payload.(*event.Message)
	s.Equal(&event.Video{
		Duration: time.Minute,
		Provider: event.ContentProvider{
			Type:               "external",
			OriginalContentURL: "https://example.com/v.mp4",
			PreviewImageURL:    "https://example.com/v.jpg",
		},
	}, vid.Content)
	s.Equal("Ra8dbf4673c", s.batch.Events[2].Source.ID())

	aud := s.batch.Events[3].Payload.(*event.Message)
	s.Equal(&event.Audio{Duration: 1500 * time.Millisecond, Provider: event.ContentProvider{Type: "line"}}, aud.Content)
}

func (s *DecodeSuite) TestStickerAndLocation() {
	s.Equal(&event.Sticker{PackageID: "1", StickerID: "2"}, s.batch.Events[4].Payload.(*event.Message).Content)
	s.Equal(&event.Location{
		Title:     "my location",
		Address:   "Tokyo",
		Latitude:  35.65910807942215,
		Longitude: 139.70372892916203,
	}, s.batch.Events[5].Payload.(*event.Message).Content)
}

func (s *DecodeSuite) TestBeaconAndPostback() {
	s.Equal(&event.Beacon{Hwid: "d41d8cd98f", Type: "enter"}, s.batch.Events[10].Payload)
	s.Equal(&event.Postback{Data: "sample data"}, s.batch.Events[11].Payload)
	s.Equal(&event.Postback{
		Data:   "DateTime",
		Params: &event.PostbackParams{Date: "2024-01-01", Time: "13:00"},
	}, s.batch.Events[12].Payload)
}

func (s *DecodeSuite) TestIdempotent() {
	again, err := event.Decode([]byte(sampleBatch))
	s.Require().NoError(err)
	s.Equal(s.batch, again)
}

func TestDecode_EnvelopeErrors(t *testing.T) {
	cases := map[string]string{
		"invalid json":     `{"events": [`,
		"empty body":       ``,
		"array envelope":   `[{"type":"follow"}]`,
		"missing events":   `{"destination":"U1"}`,
		"events not array": `{"events": {"type":"follow"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := event.Decode([]byte(body))
			if err == nil {
				t.Fatalf("expected decode error")
			}
			if !errors.Is(err, event.ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", err)
			}
			var de *event.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
		})
	}
}

func TestDecode_MalformedEventsBecomeUnknown(t *testing.T) {
	body := `{"events": [
		{"type": "things", "source": {"type": "user", "userId": "U1"}},
		{"type": "message", "source": {"type": "user", "userId": "U1"}, "message": {"id": "1", "type": "file", "fileName": "a.pdf"}},
		{"type": "message", "source": {"type": "user", "userId": "U1"}, "timestamp": "not-a-number"},
		{"type": "follow", "replyToken": "r"},
		{"type": "postback", "source": {"type": "user", "userId": "U1"}},
		"just a string",
		{"type": "follow", "replyToken": "ok", "source": {"type": "user", "userId": "U9"}}
	]}`

	b, err := event.Decode([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(b.Events) != 7 {
		t.Fatalf("expected 7 events, got %d", len(b.Events))
	}

	if u, ok := b.Events[0].Payload.(*event.Unknown); !ok || u.Type != "things" {
		t.Fatalf("event 0: expected unknown 'things', got %#v", b.Events[0].Payload)
	}

	// Unhandled message subtypes stay messages with unknown content.
	msg, ok := b.Events[1].Payload.(*event.Message)
	if !ok {
		t.Fatalf("event 1: expected message, got %#v", b.Events[1].Payload)
	}
	if msg.Content.Type() != "file" {
		t.Fatalf("event 1: expected file content, got %q", msg.Content.Type())
	}

	for _, i := range []int{2, 3, 4, 5} {
		if b.Events[i].Kind() != event.KindUnknown {
			t.Fatalf("event %d: expected unknown kind, got %q", i, b.Events[i].Kind())
		}
	}
	if u := b.Events[3].Payload.(*event.Unknown); u.Reason != "event has no source identity" {
		t.Fatalf("event 3: unexpected reason %q", u.Reason)
	}

	if b.Events[6].Kind() != event.KindFollow || b.Events[6].ReplyToken != "ok" {
		t.Fatalf("event 6: sibling after malformed records must decode normally, got %#v", b.Events[6])
	}
}

func TestSource_ID(t *testing.T) {
	cases := []struct {
		name string
		src  event.Source
		want string
	}{
		{"user", event.Source{Type: event.SourceUser, UserID: "U1"}, "U1"},
		{"group prefers group", event.Source{Type: event.SourceGroup, GroupID: "C1", UserID: "U1"}, "C1"},
		{"room prefers room", event.Source{Type: event.SourceRoom, RoomID: "R1", UserID: "U1"}, "R1"},
		{"group without id falls back", event.Source{Type: event.SourceGroup, UserID: "U1"}, "U1"},
		{"untyped", event.Source{GroupID: "C2"}, "C2"},
		{"empty", event.Source{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.src.ID(); got != tc.want {
				t.Fatalf("ID() = %q, want %q", got, tc.want)
			}
		})
	}
}
