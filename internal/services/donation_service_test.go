package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/mongodb"
	"cleanwave/internal/utils"
	"cleanwave/pkg/logger"
	"cleanwave/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const webhookSecret = "whsec_test"

type fakeDonationRepo struct {
	donations map[primitive.ObjectID]*models.Donation
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{donations: make(map[primitive.ObjectID]*models.Donation)}
}

func (r *fakeDonationRepo) Create(ctx context.Context, donation *models.Donation) error {
	donation.ID = primitive.NewObjectID()
	copied := *donation
	r.donations[donation.ID] = &copied
	return nil
}

func (r *fakeDonationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	donation, ok := r.donations[id]
	if !ok {
		return nil, mongodb.ErrDonationNotFound
	}
	copied := *donation
	return &copied, nil
}

func (r *fakeDonationRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Donation, error) {
	for _, donation := range r.donations {
		if donation.OrderID == orderID {
			copied := *donation
			return &copied, nil
		}
	}
	return nil, mongodb.ErrDonationNotFound
}

func (r *fakeDonationRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	donation, ok := r.donations[id]
	if !ok {
		return mongodb.ErrDonationNotFound
	}
	if status, ok := updates["status"].(models.DonationStatus); ok {
		donation.Status = status
	}
	if orderID, ok := updates["order_id"].(string); ok {
		donation.OrderID = orderID
	}
	return nil
}

func (r *fakeDonationRepo) MarkPaid(ctx context.Context, orderID, paymentID string) error {
	for _, donation := range r.donations {
		if donation.OrderID == orderID {
			donation.Status = models.DonationStatusPaid
			donation.PaymentID = paymentID
			return nil
		}
	}
	return mongodb.ErrDonationNotFound
}

func (r *fakeDonationRepo) MarkFailed(ctx context.Context, orderID string) error {
	for _, donation := range r.donations {
		if donation.OrderID == orderID {
			donation.Status = models.DonationStatusFailed
			return nil
		}
	}
	return mongodb.ErrDonationNotFound
}

func (r *fakeDonationRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Donation, int64, error) {
	donations := make([]*models.Donation, 0, len(r.donations))
	for _, donation := range r.donations {
		copied := *donation
		donations = append(donations, &copied)
	}
	return donations, int64(len(donations)), nil
}

func (r *fakeDonationRepo) TotalPaid(ctx context.Context) (int64, error) {
	var total int64
	for _, donation := range r.donations {
		if donation.Status == models.DonationStatusPaid {
			total += donation.Amount
		}
	}
	return total, nil
}

// fakePaymentProvider verifies signatures the same way the razorpay
// provider does so webhook tests exercise real HMAC checking.
type fakePaymentProvider struct {
	failOrders bool
	orders     int
}

func (p *fakePaymentProvider) Name() string { return "razorpay" }

func (p *fakePaymentProvider) CreateOrder(ctx context.Context, request *payment.OrderRequest) (*payment.OrderResponse, error) {
	if p.failOrders {
		return nil, fmt.Errorf("gateway down")
	}
	p.orders++
	return &payment.OrderResponse{
		OrderID:  fmt.Sprintf("order_%d", p.orders),
		Status:   "created",
		Amount:   request.Amount,
		Currency: request.Currency,
	}, nil
}

func (p *fakePaymentProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func signWebhook(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func newDonationServiceForTest(repo *fakeDonationRepo, provider payment.Provider) DonationService {
	return NewDonationService(repo, provider, "INR", logger.Default())
}

func createTestDonation(t *testing.T, svc DonationService) *models.CreateDonationResponse {
	t.Helper()

	response, err := svc.CreateDonation(context.Background(), "donor@x.com", &models.CreateDonationRequest{
		Amount:  50000,
		Purpose: "beach cleanup",
	})
	require.NoError(t, err)
	return response
}

func TestCreateDonation(t *testing.T) {
	repo := newFakeDonationRepo()
	svc := newDonationServiceForTest(repo, &fakePaymentProvider{})

	response := createTestDonation(t, svc)

	assert.Equal(t, "order_1", response.OrderID)
	assert.Equal(t, int64(50000), response.Amount)
	assert.Equal(t, "INR", response.Currency)
	assert.Equal(t, "razorpay", response.Provider)

	stored, err := repo.GetByOrderID(context.Background(), "order_1")
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusCreated, stored.Status)
	assert.Equal(t, "donor@x.com", stored.Donor)
}

func TestCreateDonationAmountOutOfRange(t *testing.T) {
	svc := newDonationServiceForTest(newFakeDonationRepo(), &fakePaymentProvider{})

	_, err := svc.CreateDonation(context.Background(), "donor@x.com", &models.CreateDonationRequest{
		Amount: utils.MinDonationAmount - 1,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.CreateDonation(context.Background(), "donor@x.com", &models.CreateDonationRequest{
		Amount: utils.MaxDonationAmount + 1,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateDonationGatewayFailureMarksFailed(t *testing.T) {
	repo := newFakeDonationRepo()
	svc := newDonationServiceForTest(repo, &fakePaymentProvider{failOrders: true})

	_, err := svc.CreateDonation(context.Background(), "donor@x.com", &models.CreateDonationRequest{
		Amount: 50000,
	})
	require.Error(t, err)

	require.Len(t, repo.donations, 1)
	for _, donation := range repo.donations {
		assert.Equal(t, models.DonationStatusFailed, donation.Status)
	}
}

func TestHandleWebhookPaymentCaptured(t *testing.T) {
	repo := newFakeDonationRepo()
	svc := newDonationServiceForTest(repo, &fakePaymentProvider{})
	response := createTestDonation(t, svc)

	payload := []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":%q,"status":"captured"}}}}`,
		response.OrderID,
	))
	err := svc.HandleWebhook(context.Background(), payload, signWebhook(payload))
	require.NoError(t, err)

	stored, err := repo.GetByOrderID(context.Background(), response.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusPaid, stored.Status)
	assert.Equal(t, "pay_1", stored.PaymentID)

	total, err := svc.TotalRaised(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(50000), total)
}

func TestHandleWebhookPaymentFailed(t *testing.T) {
	repo := newFakeDonationRepo()
	svc := newDonationServiceForTest(repo, &fakePaymentProvider{})
	response := createTestDonation(t, svc)

	payload := []byte(fmt.Sprintf(
		`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":%q,"status":"failed"}}}}`,
		response.OrderID,
	))
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, signWebhook(payload)))

	stored, err := repo.GetByOrderID(context.Background(), response.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusFailed, stored.Status)
}

func TestHandleWebhookBadSignature(t *testing.T) {
	repo := newFakeDonationRepo()
	svc := newDonationServiceForTest(repo, &fakePaymentProvider{})
	response := createTestDonation(t, svc)

	payload := []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":%q}}}}`,
		response.OrderID,
	))
	err := svc.HandleWebhook(context.Background(), payload, "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	stored, err := repo.GetByOrderID(context.Background(), response.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusCreated, stored.Status)
}

func TestHandleWebhookUnknownOrder(t *testing.T) {
	svc := newDonationServiceForTest(newFakeDonationRepo(), &fakePaymentProvider{})

	payload := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_missing"}}}}`)
	err := svc.HandleWebhook(context.Background(), payload, signWebhook(payload))
	assert.ErrorIs(t, err, ErrDonationNotFound)
}

func TestHandleWebhookIgnoresOtherEvents(t *testing.T) {
	svc := newDonationServiceForTest(newFakeDonationRepo(), &fakePaymentProvider{})

	payload := []byte(`{"event":"order.paid","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1"}}}}`)
	assert.NoError(t, svc.HandleWebhook(context.Background(), payload, signWebhook(payload)))
}
