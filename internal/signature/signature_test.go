package signature_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gyaneshwarpardhi/linehook/internal/signature"
)

func TestVerify(t *testing.T) {
	secret := []byte("channel-secret")
	body := []byte(`{"destination":"U0","events":[]}`)
	good := signature.Sign(body, secret)

	cases := []struct {
		name   string
		body   []byte
		header string
		secret []byte
		want   bool
	}{
		{name: "valid", body: body, header: good, secret: secret, want: true},
		{name: "tampered body", body: []byte(`{"destination":"U1","events":[]}`), header: good, secret: secret},
		{name: "wrong secret", body: body, header: good, secret: []byte("other")},
		{name: "missing header", body: body, header: "", secret: secret},
		{name: "empty secret", body: body, header: good, secret: nil},
		{name: "not base64", body: body, header: "%%%not-base64%%%", secret: secret},
		{name: "truncated digest", body: body, header: base64.StdEncoding.EncodeToString([]byte("short")), secret: secret},
		{name: "empty body", body: []byte{}, header: signature.Sign([]byte{}, secret), secret: secret, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, signature.Verify(tc.body, tc.header, tc.secret))
		})
	}
}

func TestVerifier_VerifyRequest(t *testing.T) {
	v := signature.NewVerifier("s3cret")
	body := []byte("payload")

	assert.True(t, v.VerifyRequest(body, signature.Sign(body, []byte("s3cret"))))
	assert.False(t, v.VerifyRequest(body, signature.Sign(body, []byte("nope"))))

	var nilVerifier *signature.Verifier
	assert.False(t, nilVerifier.VerifyRequest(body, "anything"))
}

func TestSign_AcceptedByVerify(t *testing.T) {
	body := []byte("{}")
	got := signature.Sign(body, []byte("testsecret"))

	raw, err := base64.StdEncoding.DecodeString(got)
	assert.NoError(t, err)
	assert.Len(t, raw, 32)
	assert.True(t, signature.Verify(body, got, []byte("testsecret")))
}
