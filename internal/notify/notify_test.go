package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/models"
)

func TestFormatPhoneToE164(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"(510) 555-0100", "+15105550100"},
		{"1-510-555-0100", "+15105550100"},
		{"+15105550100", "+15105550100"},
		{"555-0100", "555-0100"},
		{"+44 20 7946 0958", "+44 20 7946 0958"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPhoneToE164(tt.in), tt.in)
	}
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("510.555.0100"))
	assert.True(t, IsValidPhone("15105550100"))
	assert.False(t, IsValidPhone("25105550100"))
	assert.False(t, IsValidPhone("510555010"))
	assert.False(t, IsValidPhone(""))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$1,235", FormatUSD(1234.5))
	assert.Equal(t, "$999", FormatUSD(999.4))
	assert.Equal(t, "$1,000,000", FormatUSD(1e6))
	assert.Equal(t, "-$2,500", FormatUSD(-2500))
	assert.Equal(t, "$0", FormatUSD(0))
}

type fakeStore struct {
	co       *models.ChangeOrder
	coErr    error
	members  map[uuid.UUID]*models.TeamMember
	inserted []models.TeamNotification
	insErr   error
}

func (f *fakeStore) ChangeOrder(_ context.Context, id, _ uuid.UUID) (*models.ChangeOrder, error) {
	if f.coErr != nil {
		return nil, f.coErr
	}
	if f.co == nil || f.co.ID != id {
		return nil, ErrNotFound
	}
	return f.co, nil
}

func (f *fakeStore) TeamMemberByUser(_ context.Context, userID uuid.UUID) (*models.TeamMember, error) {
	m, ok := f.members[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (f *fakeStore) InsertNotification(_ context.Context, n models.TeamNotification) error {
	if f.insErr != nil {
		return f.insErr
	}
	f.inserted = append(f.inserted, n)
	return nil
}

type fakeSender struct {
	to, body string
	calls    int
	err      error
}

func (f *fakeSender) Send(_ context.Context, to, body string) (string, error) {
	f.calls++
	f.to, f.body = to, body
	if f.err != nil {
		return "", f.err
	}
	return "SM123", nil
}

func approvalFixture() (*fakeStore, *models.TeamMember, ApprovalRequest) {
	creator := uuid.New()
	member := &models.TeamMember{ID: uuid.New(), FullName: "Jamie PM", PhoneNumber: "(510) 555-0100", SMSNotificationsEnabled: true}
	co := &models.ChangeOrder{ID: uuid.New(), ProjectID: uuid.New(), CreatedBy: &creator, ProjectAddress: "12 Elm St"}
	amount := 1234.5
	return &fakeStore{co: co, members: map[uuid.UUID]*models.TeamMember{creator: member}}, member, ApprovalRequest{
		ChangeOrderID: co.ID.String(),
		ProjectID:     co.ProjectID.String(),
		ProjectName:   "Elm Reroof",
		ClientName:    "Dana",
		CONumber:      "7",
		Amount:        &amount,
	}
}

func TestNotifySendsAndRecords(t *testing.T) {
	store, member, req := approvalFixture()
	sender := &fakeSender{}
	n := NewApprovalNotifier(store, sender, "Roofing Friend")

	res, err := n.Notify(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Notification sent", res.Message)
	assert.Equal(t, "Jamie PM", res.RecipientName)

	assert.Equal(t, "+15105550100", sender.to)
	assert.Equal(t, "✅ Change Order Approved!\n\nDana at 12 Elm St approved Change Order #7 for $1,235.\n\n- Roofing Friend", sender.body)

	require.Len(t, store.inserted, 1)
	got := store.inserted[0]
	assert.Equal(t, member.ID, got.MemberID)
	assert.Equal(t, "change_order_approved", got.Type)
	assert.Equal(t, "Dana approved CO #7 for $1,235", got.Message)
	assert.Equal(t, "high", got.Priority)
	assert.Equal(t, "/admin/projects/"+req.ProjectID, got.ActionURL)
}

func TestNotifyDefaults(t *testing.T) {
	store, _, req := approvalFixture()
	store.co.ProjectAddress = ""
	req.ProjectName = ""
	req.ClientName = ""
	req.CONumber = ""
	req.Amount = nil
	sender := &fakeSender{}

	_, err := NewApprovalNotifier(store, sender, "Roofing Friend").Notify(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, sender.body, "A client at your project approved Change Order #N/A for N/A.")
}

func TestNotifyRecipientFallsBackToProjectManager(t *testing.T) {
	store, member, req := approvalFixture()
	pm := uuid.New()
	store.co.CreatedBy = nil
	store.co.ParentManagerID = &pm
	store.members = map[uuid.UUID]*models.TeamMember{pm: member}

	res, err := NewApprovalNotifier(store, &fakeSender{}, "RF").Notify(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestNotifySkips(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fakeStore, *models.TeamMember)
		sender bool
		want   string
	}{
		{"no recipient", func(s *fakeStore, _ *models.TeamMember) { s.co.CreatedBy = nil }, true, "No recipient found"},
		{"no member", func(s *fakeStore, _ *models.TeamMember) { s.members = nil }, true, "Team member not found"},
		{"sms disabled", func(_ *fakeStore, m *models.TeamMember) { m.SMSNotificationsEnabled = false }, true, "SMS notifications disabled"},
		{"no phone", func(_ *fakeStore, m *models.TeamMember) { m.PhoneNumber = "" }, true, "No phone number on file"},
		{"invalid phone", func(_ *fakeStore, m *models.TeamMember) { m.PhoneNumber = "555-010" }, true, "Invalid phone number on file"},
		{"unconfigured", func(*fakeStore, *models.TeamMember) {}, false, "SMS service not configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, member, req := approvalFixture()
			tt.mutate(store, member)
			sender := &fakeSender{}
			var s Sender
			if tt.sender {
				s = sender
			}

			res, err := NewApprovalNotifier(store, s, "RF").Notify(context.Background(), req)
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, tt.want, res.Message)
			assert.Zero(t, sender.calls)
			assert.Empty(t, store.inserted)
		})
	}
}

func TestNotifySendFailure(t *testing.T) {
	store, _, req := approvalFixture()
	res, err := NewApprovalNotifier(store, &fakeSender{err: errors.New("21211")}, "RF").Notify(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to send SMS", res.Message)
	assert.Empty(t, store.inserted)
}

func TestNotifyInsertFailureStillSucceeds(t *testing.T) {
	store, _, req := approvalFixture()
	store.insErr = errors.New("permission denied")
	res, err := NewApprovalNotifier(store, &fakeSender{}, "RF").Notify(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestNotifyErrors(t *testing.T) {
	store, _, req := approvalFixture()
	n := NewApprovalNotifier(store, &fakeSender{}, "RF")

	_, err := n.Notify(context.Background(), ApprovalRequest{ProjectID: req.ProjectID})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	missing := req
	missing.ChangeOrderID = uuid.NewString()
	_, err = n.Notify(context.Background(), missing)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	store.coErr = errors.New("db down")
	_, err = n.Notify(context.Background(), req)
	assert.Equal(t, 500, apperr.Status(err))
	assert.Equal(t, "Server error", apperr.Message(err))
}
