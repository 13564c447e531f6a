package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/models"
)

type fakeCreator struct {
	calls  int
	params SessionParams
	err    error
}

func (f *fakeCreator) CreateSession(_ context.Context, p SessionParams) (string, error) {
	f.calls++
	f.params = p
	return "cs_secret", f.err
}

func amount(v float64) *float64 { return &v }

func newService(c SessionCreator) *Service {
	return NewService(c, "https://roofingfriend.test/", "https://portal.roofingfriend.test")
}

func TestCreateCheckout(t *testing.T) {
	fc := &fakeCreator{}
	svc := newService(fc)

	secret, err := svc.CreateCheckout(context.Background(), Request{
		ChangeOrderID:    "0f8e7d6c-1111-2222-3333-444455556666",
		Amount:           amount(1234.565),
		CustomerEmail:    "  client@example.com ",
		ProjectSlug:      "smith-reroof",
		IsPartialPayment: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_secret", secret)

	p := fc.params
	assert.Equal(t, int64(123457), p.AmountCents)
	assert.Equal(t, "usd", p.Currency)
	assert.Equal(t, "Change Order 0f8e7d6c", p.ProductName)
	assert.Equal(t, "Change order payment", p.Description)
	assert.Equal(t, "client@example.com", p.CustomerEmail)
	assert.Equal(t, "https://portal.roofingfriend.test/portal/smith-reroof/change-order-complete?session_id={CHECKOUT_SESSION_ID}", p.ReturnURL)
	assert.Equal(t, map[string]string{
		"change_order_id":    "0f8e7d6c-1111-2222-3333-444455556666",
		"type":               "change_order",
		"is_partial_payment": "true",
	}, p.Metadata)
}

func TestBuildDefaults(t *testing.T) {
	svc := newService(&fakeCreator{})

	p, err := svc.Build(Request{ChangeOrderID: "abc", Amount: amount(10), CONumber: "7", Description: "Extra flashing", CustomerEmail: "   "})
	require.NoError(t, err)
	assert.Equal(t, "Change Order 7", p.ProductName)
	assert.Equal(t, "Extra flashing", p.Description)
	assert.Empty(t, p.CustomerEmail)
	assert.Equal(t, "https://roofingfriend.test/change-order-complete?session_id={CHECKOUT_SESSION_ID}", p.ReturnURL)
	assert.Equal(t, "false", p.Metadata["is_partial_payment"])
	assert.Equal(t, int64(1000), p.AmountCents)
}

func TestInvalidRequestsNeverReachStripe(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		msg  string
	}{
		{"missing id", Request{Amount: amount(10)}, "Missing required fields"},
		{"missing amount", Request{ChangeOrderID: "co"}, "Missing required fields"},
		{"zero amount", Request{ChangeOrderID: "co", Amount: amount(0)}, "Missing required fields"},
		{"negative amount", Request{ChangeOrderID: "co", Amount: amount(-5)}, "Amount must be greater than zero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCreator{}
			_, err := newService(fc).CreateCheckout(context.Background(), tt.req)
			require.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.msg, apperr.Message(err))
			assert.Equal(t, 0, fc.calls)
		})
	}
}

func TestCreateCheckoutUnconfigured(t *testing.T) {
	svc := NewService(nil, "https://a.test", "https://a.test")
	_, err := svc.CreateCheckout(context.Background(), Request{ChangeOrderID: "co", Amount: amount(5)})
	require.ErrorIs(t, err, apperr.ErrInternal)
	assert.Equal(t, 500, apperr.Status(err))
}

func TestCreateCheckoutStripeError(t *testing.T) {
	fc := &fakeCreator{err: errors.New("Your card was declined.")}
	_, err := newService(fc).CreateCheckout(context.Background(), Request{ChangeOrderID: "co", Amount: amount(5)})
	require.ErrorIs(t, err, apperr.ErrInternal)
	assert.Equal(t, "Your card was declined.", apperr.Message(err))
}

func TestLabelAcceptsNumberOrString(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"changeOrderId":"x","amount":12.5,"coNumber":14}`), &req))
	assert.Equal(t, models.Label("14"), req.CONumber)

	require.NoError(t, json.Unmarshal([]byte(`{"coNumber":"CO-3"}`), &req))
	assert.Equal(t, models.Label("CO-3"), req.CONumber)

	require.NoError(t, json.Unmarshal([]byte(`{"coNumber":null}`), &req))
	assert.Equal(t, models.Label(""), req.CONumber)
}
