package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayVerifyWebhookSignature(t *testing.T) {
	provider := NewRazorpayProvider("key", "secret", "whsec")
	payload := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1"}}}}`)

	assert.True(t, provider.VerifyWebhookSignature(payload, signPayload("whsec", payload)))
}

func TestRazorpayVerifyWebhookSignatureRejects(t *testing.T) {
	provider := NewRazorpayProvider("key", "secret", "whsec")
	payload := []byte(`{"event":"payment.captured"}`)

	tests := []struct {
		name      string
		payload   []byte
		signature string
	}{
		{"wrong secret", payload, signPayload("other", payload)},
		{"tampered payload", []byte(`{"event":"payment.failed"}`), signPayload("whsec", payload)},
		{"empty signature", payload, ""},
		{"garbage signature", payload, "not-hex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, provider.VerifyWebhookSignature(tt.payload, tt.signature))
		})
	}
}

func TestRazorpayVerifyWithoutSecret(t *testing.T) {
	provider := NewRazorpayProvider("key", "secret", "")
	payload := []byte(`{}`)

	// A missing webhook secret must fail closed.
	assert.False(t, provider.VerifyWebhookSignature(payload, signPayload("", payload)))
}
