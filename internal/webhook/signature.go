package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const signaturePrefix = "sha256="

// ValidSignature reports whether header carries a valid HMAC-SHA256 of
// payload under secret. The header is the raw X-Hub-Signature-256 value,
// "sha256=<hex>". Comparison is constant-time and the secret is never
// exposed through errors or logs.
func ValidSignature(secret string, payload []byte, header string) bool {
	if header == "" || !strings.HasPrefix(header, signaturePrefix) {
		return false
	}
	provided, err := hex.DecodeString(strings.TrimPrefix(header, signaturePrefix))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), provided)
}

// VerifySubscription answers the provider's webhook validation handshake.
// It returns the challenge to echo back and whether the handshake is
// acceptable. Mode must be "subscribe" and token must match verifyToken.
func VerifySubscription(mode, token, challenge, verifyToken string) (string, bool) {
	if mode != "subscribe" {
		return "", false
	}
	if token != verifyToken {
		return "", false
	}
	return challenge, true
}
