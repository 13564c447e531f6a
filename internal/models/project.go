package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	TenantID             uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Name                 string     `json:"name" db:"name"`
	Address              string     `json:"address" db:"address"`
	ClientName           string     `json:"client_name" db:"client_name"`
	ClientPhone          string     `json:"client_phone" db:"client_phone"`
	ClientEmail          string     `json:"client_email" db:"client_email"`
	ProjectManagerID     *uuid.UUID `json:"project_manager_id,omitempty" db:"project_manager_id"`
	ClientLastNotifiedAt *time.Time `json:"client_last_notified_at,omitempty" db:"client_last_notified_at"`
}

type ChangeOrder struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	ProjectID        uuid.UUID  `json:"project_id" db:"project_id"`
	CreatedBy        *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	ProjectManagerID *uuid.UUID `json:"project_manager_id,omitempty" db:"project_manager_id"`
	// Manager of the parent project, joined in when the change order is loaded.
	ParentManagerID *uuid.UUID `json:"-" db:"-"`
	ProjectAddress  string     `json:"-" db:"-"`
}

// TeamMember is the notification-facing view of a team_directory row.
type TeamMember struct {
	ID                      uuid.UUID `json:"id" db:"id"`
	FullName                string    `json:"full_name" db:"full_name"`
	PhoneNumber             string    `json:"phone_number" db:"phone_number"`
	SMSNotificationsEnabled bool      `json:"sms_notifications_enabled" db:"sms_notifications_enabled"`
}

type TeamNotification struct {
	MemberID      uuid.UUID `json:"member_id" db:"member_id"`
	Type          string    `json:"type" db:"type"`
	Title         string    `json:"title" db:"title"`
	Message       string    `json:"message" db:"message"`
	Priority      string    `json:"priority" db:"priority"`
	ReferenceType string    `json:"reference_type" db:"reference_type"`
	ReferenceID   string    `json:"reference_id" db:"reference_id"`
	ActionURL     string    `json:"action_url" db:"action_url"`
}

// AlertKey scopes a client portal alert acknowledgement.
type AlertKey struct {
	ProjectID uuid.UUID `json:"projectId"`
	ItemType  string    `json:"itemType"`
	ItemID    string    `json:"itemId"`
}

// Label is a change order number that may arrive as a JSON string or number.
type Label string

func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("label: %w", err)
	}
	*l = Label(n.String())
	return nil
}
