package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/adminlogin"
	"github.com/fastfixai/tenantsite/internal/api/middleware"
	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/auth"
)

type LoginFlow interface {
	SendCode(ctx context.Context, phone string, origin adminlogin.Origin) (*adminlogin.Outcome, error)
	Verify(ctx context.Context, in adminlogin.VerifyInput) (*adminlogin.Outcome, error)
	CheckSession(ctx context.Context, userID uuid.UUID) (bool, error)
}

type LoginHandler struct {
	flow LoginFlow
}

func NewLoginHandler(flow LoginFlow) *LoginHandler {
	return &LoginHandler{flow: flow}
}

func (h *LoginHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	origin := adminlogin.Origin{Peer: middleware.PeerAddr(r), Host: r.Host}
	out, err := h.flow.SendCode(r.Context(), req.Phone, origin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOutcome(w, out)
}

func (h *LoginHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var in adminlogin.VerifyInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.flow.Verify(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOutcome(w, out)
}

// Session reports whether the bearer of the current token may use the admin
// dashboard.
func (h *LoginHandler) Session(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())
	if id == nil {
		writeError(w, apperr.Unauthorized("Missing authorization header"))
		return
	}
	ok, err := h.flow.CheckSession(r.Context(), id.UserID)
	if err != nil {
		writeError(w, apperr.Internal("Failed to check session", err))
		return
	}
	status := http.StatusOK
	if !ok {
		status = http.StatusForbidden
	}
	writeJSON(w, status, map[string]interface{}{"userId": id.UserID, "isAdmin": ok})
}

// Pending and denied logins are reported with 403 and the outcome body.
func writeOutcome(w http.ResponseWriter, out *adminlogin.Outcome) {
	status := http.StatusOK
	if out.Access == adminlogin.AccessPending || out.Access == adminlogin.AccessDenied {
		status = http.StatusForbidden
	}
	writeJSON(w, status, out)
}
