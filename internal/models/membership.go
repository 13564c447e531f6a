package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the membership role within a tenant.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleOwner, RoleAdmin, RoleMember:
		return r, nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

// IsAdmin reports whether the role grants access to the admin dashboard.
func (r Role) IsAdmin() bool {
	return r == RoleOwner || r == RoleAdmin
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Status is the approval state of a membership.
type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusActive, StatusPending:
		return st, nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Membership is a row of team_directory: one per (tenant, user).
type Membership struct {
	ID                      uuid.UUID `json:"id" db:"id"`
	TenantID                uuid.UUID `json:"tenant_id" db:"tenant_id"`
	UserID                  uuid.UUID `json:"user_id" db:"user_id"`
	Name                    string    `json:"name" db:"name"`
	Email                   string    `json:"email,omitempty" db:"email"`
	Phone                   string    `json:"phone,omitempty" db:"phone"`
	Role                    Role      `json:"role" db:"role"`
	Status                  Status    `json:"status" db:"status"`
	SMSNotificationsEnabled bool      `json:"sms_notifications_enabled" db:"sms_notifications_enabled"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`
}

// IsActiveAdmin reports whether the member currently holds dashboard access.
func (m *Membership) IsActiveAdmin() bool {
	return m != nil && m.Status == StatusActive && m.Role.IsAdmin()
}

// AdminUserFlag mirrors admin status for legacy checks against admin_users.
type AdminUserFlag struct {
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Email    string    `json:"email" db:"email"`
	IsActive bool      `json:"is_active" db:"is_active"`
}
