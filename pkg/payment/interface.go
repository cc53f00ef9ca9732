package payment

import "context"

// Provider creates donation orders and verifies payment callbacks.
// Amounts are in the smallest currency unit (paise for INR).
type Provider interface {
	CreateOrder(ctx context.Context, request *OrderRequest) (*OrderResponse, error)
	VerifyWebhookSignature(payload []byte, signature string) bool
	Name() string
}

type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

type OrderResponse struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	CreatedAt int64  `json:"created_at"`
}
