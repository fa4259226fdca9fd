// Package webhook verifies and normalizes inbound email provider callbacks.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature checks a provider signature header of the form
// "t=<unix-timestamp>,v1=<hex-hmac>" against the raw request body. The
// expected value is HMAC-SHA256 over "{timestamp}.{body}" keyed by the
// shared webhook secret. Comparison is constant-time and every malformed
// input rejects rather than erroring.
//
// The timestamp is only used as signing input; no staleness window is
// enforced, so replayed deliveries verify again.
func VerifySignature(secret string, body []byte, header string) bool {
	if secret == "" || header == "" {
		return false
	}

	timestamp, provided := parseSignatureHeader(header)
	if timestamp == "" || provided == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal is constant-time and handles length mismatches
	return hmac.Equal([]byte(expected), []byte(provided))
}

// parseSignatureHeader extracts the t= and v1= fields; other fields are
// ignored
func parseSignatureHeader(header string) (timestamp, signature string) {
	for _, field := range strings.Split(header, ",") {
		field = strings.TrimSpace(field)
		switch {
		case strings.HasPrefix(field, "t="):
			timestamp = field[len("t="):]
		case strings.HasPrefix(field, "v1="):
			signature = field[len("v1="):]
		}
	}
	return timestamp, signature
}
