// Package notify sends SMS notifications to team members.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/metrics"
	"github.com/fastfixai/tenantsite/internal/models"
)

type ApprovalRequest struct {
	ChangeOrderID string       `json:"changeOrderId"`
	ProjectID     string       `json:"projectId"`
	ProjectName   string       `json:"projectName,omitempty"`
	ClientName    string       `json:"clientName,omitempty"`
	CONumber      models.Label `json:"coNumber,omitempty"`
	Amount        *float64     `json:"amount,omitempty"`
}

// ApprovalResult is always reported with 200; Success is false when a
// precondition for sending was not met.
type ApprovalResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	RecipientName string `json:"recipientName,omitempty"`
}

const (
	msgNoRecipient    = "No recipient found"
	msgNoMember       = "Team member not found"
	msgSMSDisabled    = "SMS notifications disabled"
	msgNoPhone        = "No phone number on file"
	msgInvalidPhone   = "Invalid phone number on file"
	msgNotConfigured  = "SMS service not configured"
	msgSendFailed     = "Failed to send SMS"
	msgNotificationOK = "Notification sent"
)

type ApprovalNotifier struct {
	store        Store
	sender       Sender
	businessName string
	logger       *slog.Logger
}

// NewApprovalNotifier builds the notifier. A nil sender means SMS is not
// configured.
func NewApprovalNotifier(store Store, sender Sender, businessName string) *ApprovalNotifier {
	return &ApprovalNotifier{
		store:        store,
		sender:       sender,
		businessName: businessName,
		logger:       slog.Default().With("fn", "notify-change-order-approval"),
	}
}

func (n *ApprovalNotifier) Notify(ctx context.Context, req ApprovalRequest) (*ApprovalResult, error) {
	if req.ChangeOrderID == "" || req.ProjectID == "" {
		return nil, apperr.Validation("Missing required parameters")
	}
	n.logger.Info("processing approval notification", "change_order_id", req.ChangeOrderID)

	coID, err := uuid.Parse(req.ChangeOrderID)
	if err != nil {
		return nil, apperr.NotFound("Change order not found")
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, apperr.NotFound("Change order not found")
	}

	co, err := n.store.ChangeOrder(ctx, coID, projectID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("Change order not found")
	}
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrInternal, Message: "Server error", Err: err}
	}

	recipient := firstID(co.CreatedBy, co.ProjectManagerID, co.ParentManagerID)
	if recipient == nil {
		n.logger.Info("no recipient found for notification")
		return skipped(msgNoRecipient), nil
	}

	member, err := n.store.TeamMemberByUser(ctx, *recipient)
	if err != nil {
		n.logger.Info("team member not found", "user_id", *recipient, "error", err)
		return skipped(msgNoMember), nil
	}
	if !member.SMSNotificationsEnabled {
		n.logger.Info("sms notifications disabled", "member", member.FullName)
		return skipped(msgSMSDisabled), nil
	}
	if member.PhoneNumber == "" {
		n.logger.Info("no phone number", "member", member.FullName)
		return skipped(msgNoPhone), nil
	}
	if !IsValidPhone(member.PhoneNumber) {
		n.logger.Warn("invalid phone number", "member", member.FullName)
		return skipped(msgInvalidPhone), nil
	}
	if n.sender == nil {
		n.logger.Error("missing twilio credentials")
		metrics.SMSSent.WithLabelValues("approval", "unconfigured").Inc()
		return skipped(msgNotConfigured), nil
	}

	client := orDefault(req.ClientName, "A client")
	coNumber := orDefault(string(req.CONumber), "N/A")
	amount := "N/A"
	if req.Amount != nil && *req.Amount != 0 {
		amount = FormatUSD(*req.Amount)
	}
	where := orDefault(co.ProjectAddress, orDefault(req.ProjectName, "your project"))

	body := fmt.Sprintf("✅ Change Order Approved!\n\n%s at %s approved Change Order #%s for %s.\n\n- %s",
		client, where, coNumber, amount, n.businessName)

	to := FormatPhoneToE164(member.PhoneNumber)
	sid, err := n.sender.Send(ctx, to, body)
	if err != nil {
		n.logger.Error("twilio error", "error", err)
		metrics.SMSSent.WithLabelValues("approval", "failed").Inc()
		return skipped(msgSendFailed), nil
	}
	metrics.SMSSent.WithLabelValues("approval", "sent").Inc()
	n.logger.Info("sms sent", "sid", sid)

	err = n.store.InsertNotification(ctx, models.TeamNotification{
		MemberID:      member.ID,
		Type:          "change_order_approved",
		Title:         "Change Order Approved",
		Message:       fmt.Sprintf("%s approved CO #%s for %s", client, coNumber, amount),
		Priority:      "high",
		ReferenceType: "change_order",
		ReferenceID:   req.ChangeOrderID,
		ActionURL:     "/admin/projects/" + req.ProjectID,
	})
	if err != nil {
		n.logger.Error("in-app notification insert failed", "error", err)
	}

	return &ApprovalResult{Success: true, Message: msgNotificationOK, RecipientName: member.FullName}, nil
}

func skipped(msg string) *ApprovalResult {
	return &ApprovalResult{Success: false, Message: msg}
}

func firstID(ids ...*uuid.UUID) *uuid.UUID {
	for _, id := range ids {
		if id != nil && *id != uuid.Nil {
			return id
		}
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
