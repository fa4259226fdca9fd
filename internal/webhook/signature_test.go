package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

// signHeader builds a valid signature header for the given body
func signHeader(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "."))
	mac.Write(body)
	return "t=" + timestamp + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test_secret"
	body := []byte(`{"from":"customer@example.com","text":"hello"}`)

	tests := []struct {
		name     string
		secret   string
		body     []byte
		header   string
		expected bool
	}{
		{
			name:     "valid signature",
			secret:   secret,
			body:     body,
			header:   signHeader(secret, "1714000000", body),
			expected: true,
		},
		{
			name:     "valid signature with extra fields",
			secret:   secret,
			body:     body,
			header:   "v0=ignored," + signHeader(secret, "1714000000", body),
			expected: true,
		},
		{
			name:     "valid signature with spaces between fields",
			secret:   secret,
			body:     body,
			header:   "t=1714000000, v1=" + signHeader(secret, "1714000000", body)[len("t=1714000000,v1="):],
			expected: true,
		},
		{
			name:     "wrong secret",
			secret:   secret,
			body:     body,
			header:   signHeader("whsec_other_secret", "1714000000", body),
			expected: false,
		},
		{
			name:     "tampered body",
			secret:   secret,
			body:     []byte(`{"from":"attacker@example.com","text":"hello"}`),
			header:   signHeader(secret, "1714000000", body),
			expected: false,
		},
		{
			name:     "tampered timestamp",
			secret:   secret,
			body:     body,
			header:   "t=1714999999,v1=" + signHeader(secret, "1714000000", body)[len("t=1714000000,v1="):],
			expected: false,
		},
		{
			name:     "missing header",
			secret:   secret,
			body:     body,
			header:   "",
			expected: false,
		},
		{
			name:     "missing timestamp field",
			secret:   secret,
			body:     body,
			header:   "v1=deadbeef",
			expected: false,
		},
		{
			name:     "missing signature field",
			secret:   secret,
			body:     body,
			header:   "t=1714000000",
			expected: false,
		},
		{
			name:     "garbage header",
			secret:   secret,
			body:     body,
			header:   "not a signature at all",
			expected: false,
		},
		{
			name:     "signature not hex",
			secret:   secret,
			body:     body,
			header:   "t=1714000000,v1=zzzz",
			expected: false,
		},
		{
			name:     "no secret configured rejects everything",
			secret:   "",
			body:     body,
			header:   signHeader(secret, "1714000000", body),
			expected: false,
		},
		{
			name:     "empty body still verifies",
			secret:   secret,
			body:     []byte{},
			header:   signHeader(secret, "1714000000", []byte{}),
			expected: true,
		},
		{
			name:     "replayed header verifies again",
			secret:   secret,
			body:     body,
			header:   signHeader(secret, "1", body),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := VerifySignature(tt.secret, tt.body, tt.header)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseSignatureHeader(t *testing.T) {
	tests := []struct {
		name              string
		header            string
		expectedTimestamp string
		expectedSignature string
	}{
		{
			name:              "well formed",
			header:            "t=1714000000,v1=abc123",
			expectedTimestamp: "1714000000",
			expectedSignature: "abc123",
		},
		{
			name:              "reversed field order",
			header:            "v1=abc123,t=1714000000",
			expectedTimestamp: "1714000000",
			expectedSignature: "abc123",
		},
		{
			name:              "unknown fields ignored",
			header:            "v0=old,t=1714000000,v1=abc123,extra=1",
			expectedTimestamp: "1714000000",
			expectedSignature: "abc123",
		},
		{
			name:              "empty header",
			header:            "",
			expectedTimestamp: "",
			expectedSignature: "",
		},
		{
			name:              "last occurrence wins",
			header:            "t=1,t=2,v1=abc",
			expectedTimestamp: "2",
			expectedSignature: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timestamp, signature := parseSignatureHeader(tt.header)
			assert.Equal(t, tt.expectedTimestamp, timestamp)
			assert.Equal(t, tt.expectedSignature, signature)
		})
	}
}
