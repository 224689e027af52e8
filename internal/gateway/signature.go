package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader carries the gateway's HMAC over the raw callback body.
const SignatureHeader = "X-Webhook-Signature"

// VerifySignature checks the hex-encoded HMAC-SHA256 of body against the
// shared secret. Callbacks with a missing or wrong signature are rejected
// before any business logic runs. An empty secret disables the check (local
// dev only; production must set WEBHOOK_SECRET).
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" {
		return true
	}
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the signature for a body; used by tests and by the gateway
// simulator script.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
