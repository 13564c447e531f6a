package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/audit"
	"github.com/fastfixai/tenantsite/internal/auth"
	"github.com/fastfixai/tenantsite/internal/models"
)

type MemberAdmin interface {
	ListPending(ctx context.Context, tenantID uuid.UUID) ([]models.Membership, error)
	Approve(ctx context.Context, tenantID, userID, actorID uuid.UUID) (*models.Membership, error)
	Promote(ctx context.Context, tenantID, userID, actorID uuid.UUID) (*models.Membership, error)
}

type AuditReader interface {
	List(ctx context.Context, tenantID uuid.UUID, q audit.Query) ([]models.AuditLog, error)
}

// AdminHandler serves membership administration for the configured tenant.
// Routes are expected behind auth.RBAC.
type AdminHandler struct {
	members  MemberAdmin
	audit    AuditReader
	tenantID uuid.UUID
}

// NewAdminHandler builds the handler. A nil audit reader disables the audit
// log endpoint.
func NewAdminHandler(members MemberAdmin, auditReader AuditReader, tenantID uuid.UUID) *AdminHandler {
	return &AdminHandler{members: members, audit: auditReader, tenantID: tenantID}
}

func (h *AdminHandler) PendingMembers(w http.ResponseWriter, r *http.Request) {
	pending, err := h.members.ListPending(r.Context(), h.tenantID)
	if err != nil {
		writeError(w, apperr.Internal("Failed to list members", err))
		return
	}
	if pending == nil {
		pending = []models.Membership{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": pending, "count": len(pending)})
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.memberAction(w, r, h.members.Approve)
}

func (h *AdminHandler) Promote(w http.ResponseWriter, r *http.Request) {
	h.memberAction(w, r, h.members.Promote)
}

func (h *AdminHandler) memberAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, tenantID, userID, actorID uuid.UUID) (*models.Membership, error)) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, apperr.Validation("Invalid user id"))
		return
	}
	var actorID uuid.UUID
	if id := auth.IdentityFromContext(r.Context()); id != nil {
		actorID = id.UserID
	}

	m, err := action(r.Context(), h.tenantID, userID, actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "member": m})
}

func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		writeError(w, apperr.NotFound("Audit log not available"))
		return
	}

	q := audit.Query{
		Action: r.URL.Query().Get("action"),
	}
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	q.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 50
	}
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, apperr.Validation("start_date must be RFC3339"))
			return
		}
		q.StartDate = &t
	}

	logs, err := h.audit.List(r.Context(), h.tenantID, q)
	if err != nil {
		writeError(w, apperr.Internal("Failed to load audit logs", err))
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"audit_logs": logs, "count": len(logs)})
}
