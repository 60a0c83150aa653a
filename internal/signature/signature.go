// Package signature authenticates webhook callbacks with the channel secret.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// Header is the request header carrying the base64 HMAC-SHA256 digest of the body.
const Header = "X-Line-Signature"

// Verify reports whether header is the base64 HMAC-SHA256 of body keyed with secret.
// It never panics; an empty header or secret is a mismatch.
func Verify(body []byte, header string, secret []byte) bool {
	if header == "" || len(secret) == 0 {
		return false
	}
	return webhook.ValidateSignature(string(secret), header, body)
}

// Sign returns the header value the platform attaches to body.
func Sign(body, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verifier binds Verify to a channel secret.
type Verifier struct {
	secret []byte
}

// NewVerifier returns a Verifier for secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// VerifyRequest checks body against the signature header value.
func (v *Verifier) VerifyRequest(body []byte, header string) bool {
	if v == nil {
		return false
	}
	return Verify(body, header, v.secret)
}
