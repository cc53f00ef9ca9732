package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client        *razorpay.Client
	webhookSecret string
}

func NewRazorpayProvider(keyID, keySecret, webhookSecret string) *RazorpayProvider {
	client := razorpay.NewClient(keyID, keySecret)

	return &RazorpayProvider{
		client:        client,
		webhookSecret: webhookSecret,
	}
}

func (r *RazorpayProvider) Name() string {
	return "razorpay"
}

func (r *RazorpayProvider) CreateOrder(ctx context.Context, request *OrderRequest) (*OrderResponse, error) {
	notes := make(map[string]interface{}, len(request.Notes))
	for k, v := range request.Notes {
		notes[k] = v
	}

	orderData := map[string]interface{}{
		"amount":   request.Amount,
		"currency": request.Currency,
		"receipt":  request.Receipt,
		"notes":    notes,
	}

	order, err := r.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	resp := &OrderResponse{
		Status:   "created",
		Currency: request.Currency,
		Amount:   request.Amount,
	}
	if id, ok := order["id"].(string); ok {
		resp.OrderID = id
	}
	if created, ok := order["created_at"].(float64); ok {
		resp.CreatedAt = int64(created)
	}

	return resp, nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature HMAC-SHA256
// over the raw webhook body.
func (r *RazorpayProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	if r.webhookSecret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(r.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
