package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/auth"
	"github.com/fastfixai/tenantsite/internal/checkout"
	"github.com/fastfixai/tenantsite/internal/metrics"
	"github.com/fastfixai/tenantsite/internal/notify"
	"github.com/fastfixai/tenantsite/internal/parsing"
	"github.com/fastfixai/tenantsite/internal/portal"
	"github.com/fastfixai/tenantsite/internal/registration"
	"github.com/fastfixai/tenantsite/pkg/textextract"
	"github.com/fastfixai/tenantsite/pkg/tokenizer"
)

const (
	maxUploadBytes    = 20 << 20
	maxDocumentTokens = 60000
)

type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

type Registerer interface {
	Register(ctx context.Context, caller *auth.Identity, req registration.Request) (*registration.Result, error)
}

type CheckoutCreator interface {
	CreateCheckout(ctx context.Context, req checkout.Request) (string, error)
}

type ApprovalNotifier interface {
	Notify(ctx context.Context, req notify.ApprovalRequest) (*notify.ApprovalResult, error)
}

type PortalService interface {
	SendCatchup(ctx context.Context, req portal.CatchupRequest) (*portal.CatchupResult, error)
	Acknowledge(ctx context.Context, req portal.AcknowledgeRequest) (*portal.AcknowledgeResult, error)
}

type EstimateParser interface {
	Parse(ctx context.Context, rawText string) (*parsing.EstimateTotals, error)
}

type PurchaseOrderParser interface {
	Parse(ctx context.Context, pdfText string) (*parsing.MaterialsResult, error)
}

// FunctionsHandler serves the stateless /functions/v1 endpoints.
type FunctionsHandler struct {
	Verifier  TokenVerifier
	Registrar Registerer
	Checkout  CheckoutCreator
	Notifier  ApprovalNotifier
	Portal    PortalService
	Estimates EstimateParser
	Orders    PurchaseOrderParser
}

// Instrument counts invocations of fn by final status.
func Instrument(fn string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		h(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.FunctionRequests.WithLabelValues(fn, strconv.Itoa(status)).Inc()
	}
}

func (h *FunctionsHandler) RegisterTenantUser(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		writeError(w, apperr.Unauthorized("Missing authorization header"))
		return
	}
	caller, err := h.Verifier.Verify(bearerToken(r))
	if err != nil {
		writeError(w, apperr.Unauthorized("Invalid authentication"))
		return
	}

	var req registration.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Registrar.Register(r.Context(), caller, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *FunctionsHandler) CreateChangeOrderCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	secret, err := h.Checkout.CreateCheckout(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
}

func (h *FunctionsHandler) NotifyChangeOrderApproval(w http.ResponseWriter, r *http.Request) {
	var req notify.ApprovalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Notifier.Notify(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *FunctionsHandler) SendClientPortalCatchup(w http.ResponseWriter, r *http.Request) {
	var req portal.CatchupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Portal.SendCatchup(r.Context(), req)
	var de *portal.DeliveryError
	if errors.As(err, &de) {
		writeJSON(w, apperr.Status(err), map[string]string{
			"error":     apperr.Message(err),
			"portalUrl": de.PortalURL,
		})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *FunctionsHandler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	var req portal.AcknowledgeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Portal.Acknowledge(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *FunctionsHandler) ParseEstimate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RawText string `json:"rawText"`
	}
	text, err := documentText(w, r, &body, func() string { return body.RawText })
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Estimates.Parse(r.Context(), text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *FunctionsHandler) ParsePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PDFText string `json:"pdfText"`
	}
	text, err := documentText(w, r, &body, func() string { return body.PDFText })
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Orders.Parse(r.Context(), text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// documentText reads the text to parse either from a JSON body or from an
// uploaded "file" form field.
func documentText(w http.ResponseWriter, r *http.Request, body interface{}, field func() string) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := decodeJSON(r, body); err != nil {
			return "", err
		}
		return field(), nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", apperr.Validation("Invalid multipart body")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", apperr.Validation("file field is required")
	}
	defer file.Close()

	doc, err := textextract.Read(file, header.Filename, maxUploadBytes)
	if errors.Is(err, textextract.ErrUnsupported) {
		return "", apperr.Validation("Unsupported file type")
	}
	if err != nil {
		return "", apperr.Validation("Could not read document: " + err.Error())
	}
	text, cut := tokenizer.Truncate(doc.Text, maxDocumentTokens)
	if cut {
		slog.Warn("uploaded document truncated", "file", header.Filename, "pages", doc.Pages, "tokens", tokenizer.Count(doc.Text))
	}
	return text, nil
}

func bearerToken(r *http.Request) string {
	return strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
}
