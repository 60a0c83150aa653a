// Package delivery sends a handler's reply: first through the event's reply
// token, then as a push to the event source if the reply did not go through.
package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

var (
	// ErrNoReplyToken is the reply failure for events that carry no token.
	ErrNoReplyToken = errors.New("no reply token")
	// ErrNoPushTarget is the push failure for events without a source id.
	ErrNoPushTarget = errors.New("no push target")
	// ErrDeliveryFailed matches a *Failure.
	ErrDeliveryFailed = errors.New("delivery failed")
)

// Replier answers an event through its one-shot reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken string, msgs ...messaging_api.MessageInterface) error
}

// Pusher sends a message to a user, group or room.
type Pusher interface {
	Push(ctx context.Context, to string, msgs ...messaging_api.MessageInterface) error
}

// Method names a delivery attempt.
type Method string

const (
	MethodReply Method = "reply"
	MethodPush  Method = "push"
)

// Attempt records one call to the platform.
type Attempt struct {
	Method Method
	Err    error
}

// Result lists the attempts made for one message, in order.
type Result struct {
	Attempts []Attempt
}

// Delivered reports whether the last attempt succeeded.
func (r Result) Delivered() bool {
	return len(r.Attempts) > 0 && r.Attempts[len(r.Attempts)-1].Err == nil
}

// Via returns the method that delivered the message, or "" if none did.
func (r Result) Via() Method {
	if !r.Delivered() {
		return ""
	}
	return r.Attempts[len(r.Attempts)-1].Method
}

// Err returns nil when nothing was attempted or the message was delivered,
// otherwise a *Failure carrying every cause.
func (r Result) Err() error {
	if len(r.Attempts) == 0 || r.Delivered() {
		return nil
	}
	f := &Failure{}
	for _, a := range r.Attempts {
		switch a.Method {
		case MethodReply:
			f.Reply = a.Err
		case MethodPush:
			f.Push = a.Err
		}
	}
	return f
}

// OrElse runs next only if r has not delivered yet, appending its attempt.
func (r Result) OrElse(next func() Attempt) Result {
	if r.Delivered() {
		return r
	}
	r.Attempts = append(r.Attempts, next())
	return r
}

// Failure is returned when both reply and push failed.
type Failure struct {
	Reply error
	Push  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("delivery failed: reply: %v; push: %v", f.Reply, f.Push)
}

func (f *Failure) Is(target error) bool { return target == ErrDeliveryFailed }

func (f *Failure) Unwrap() []error {
	var errs []error
	if f.Reply != nil {
		errs = append(errs, f.Reply)
	}
	if f.Push != nil {
		errs = append(errs, f.Push)
	}
	return errs
}

// Channel delivers messages with reply-then-push semantics.
type Channel struct {
	replier Replier
	pusher  Pusher
}

// NewChannel returns a Channel. The platform client satisfies both interfaces.
func NewChannel(r Replier, p Pusher) *Channel {
	return &Channel{replier: r, pusher: p}
}

// Deliver sends msg. A nil msg attempts nothing. The push is only made when
// the reply failed; at most two platform calls happen.
func (c *Channel) Deliver(ctx context.Context, replyToken, to string, msg messaging_api.MessageInterface) Result {
	if msg == nil {
		return Result{}
	}
	return c.reply(ctx, replyToken, msg).OrElse(func() Attempt {
		return c.push(ctx, to, msg)
	})
}

func (c *Channel) reply(ctx context.Context, token string, msg messaging_api.MessageInterface) Result {
	a := Attempt{Method: MethodReply}
	if token == "" {
		a.Err = ErrNoReplyToken
	} else {
		a.Err = c.replier.Reply(ctx, token, msg)
	}
	return Result{Attempts: []Attempt{a}}
}

func (c *Channel) push(ctx context.Context, to string, msg messaging_api.MessageInterface) Attempt {
	a := Attempt{Method: MethodPush}
	if to == "" {
		a.Err = ErrNoPushTarget
		return a
	}
	a.Err = c.pusher.Push(ctx, to, msg)
	return a
}
