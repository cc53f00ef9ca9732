package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeProvider struct {
	client        *client.API
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeProvider{
		client:        sc,
		webhookSecret: webhookSecret,
	}
}

func (s *StripeProvider) Name() string {
	return "stripe"
}

func (s *StripeProvider) CreateOrder(ctx context.Context, request *OrderRequest) (*OrderResponse, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(request.Amount),
		Currency:    stripe.String(request.Currency),
		Description: stripe.String("CleanWave donation"),
	}

	for key, value := range request.Notes {
		params.AddMetadata(key, value)
	}

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &OrderResponse{
		OrderID:   pi.ID,
		Status:    string(pi.Status),
		Amount:    pi.Amount,
		Currency:  string(pi.Currency),
		CreatedAt: pi.Created,
	}, nil
}

func (s *StripeProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	_, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	return err == nil
}
