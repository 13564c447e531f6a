// Package checkout creates embedded Stripe checkout sessions for change order
// payments.
package checkout

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/models"
)

type Request struct {
	ChangeOrderID    string       `json:"changeOrderId"`
	Amount           *float64     `json:"amount"`
	CustomerEmail    string       `json:"customerEmail,omitempty"`
	ProjectSlug      string       `json:"projectSlug,omitempty"`
	CONumber         models.Label `json:"coNumber,omitempty"`
	Description      string       `json:"description,omitempty"`
	IsPartialPayment bool         `json:"isPartialPayment,omitempty"`
}

// SessionParams is a fully validated checkout session.
type SessionParams struct {
	AmountCents   int64
	Currency      string
	ProductName   string
	Description   string
	CustomerEmail string
	ReturnURL     string
	Metadata      map[string]string
}

// SessionCreator creates a checkout session and returns its client secret.
type SessionCreator interface {
	CreateSession(ctx context.Context, p SessionParams) (string, error)
}

type Service struct {
	creator   SessionCreator
	siteURL   string
	portalURL string
	logger    *slog.Logger
}

// NewService builds the checkout service. A nil creator means payments are
// not configured.
func NewService(creator SessionCreator, siteURL, portalURL string) *Service {
	return &Service{
		creator:   creator,
		siteURL:   strings.TrimRight(siteURL, "/"),
		portalURL: strings.TrimRight(portalURL, "/"),
		logger:    slog.Default().With("fn", "create-change-order-checkout"),
	}
}

func (s *Service) CreateCheckout(ctx context.Context, req Request) (string, error) {
	if s.creator == nil {
		return "", apperr.Internal("Stripe secret key not configured", nil)
	}

	params, err := s.Build(req)
	if err != nil {
		return "", err
	}

	s.logger.Info("creating checkout session", "change_order_id", req.ChangeOrderID, "amount_cents", params.AmountCents)
	secret, err := s.creator.CreateSession(ctx, params)
	if err != nil {
		s.logger.Error("error creating checkout session", "error", err)
		return "", apperr.Internal(err.Error(), nil)
	}
	return secret, nil
}

// Build validates req and derives the session parameters.
func (s *Service) Build(req Request) (SessionParams, error) {
	if req.ChangeOrderID == "" || req.Amount == nil || *req.Amount == 0 {
		return SessionParams{}, apperr.Validation("Missing required fields")
	}
	if *req.Amount < 0 || math.IsNaN(*req.Amount) {
		return SessionParams{}, apperr.Validation("Amount must be greater than zero")
	}

	label := string(req.CONumber)
	if label == "" {
		label = req.ChangeOrderID
		if len(label) > 8 {
			label = label[:8]
		}
	}
	desc := req.Description
	if desc == "" {
		desc = "Change order payment"
	}
	partial := "false"
	if req.IsPartialPayment {
		partial = "true"
	}

	return SessionParams{
		AmountCents:   int64(math.Round(*req.Amount * 100)),
		Currency:      "usd",
		ProductName:   "Change Order " + label,
		Description:   desc,
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		ReturnURL:     s.ReturnURL(req.ProjectSlug),
		Metadata: map[string]string{
			"change_order_id":    req.ChangeOrderID,
			"type":               "change_order",
			"is_partial_payment": partial,
		},
	}, nil
}

// ReturnURL is where Stripe sends the customer after payment. The
// {CHECKOUT_SESSION_ID} placeholder is filled in by Stripe.
func (s *Service) ReturnURL(projectSlug string) string {
	if projectSlug != "" {
		return s.portalURL + "/portal/" + projectSlug + "/change-order-complete?session_id={CHECKOUT_SESSION_ID}"
	}
	return s.siteURL + "/change-order-complete?session_id={CHECKOUT_SESSION_ID}"
}
