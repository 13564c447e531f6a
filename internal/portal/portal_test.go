package portal

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/models"
)

type alertRow struct {
	key   models.AlertKey
	acked bool
}

type fakeStore struct {
	project  *models.Project
	slug     string
	slugErr  error
	notified *time.Time
	alerts   []*alertRow
	ackErr   error
}

func (f *fakeStore) Project(_ context.Context, id uuid.UUID) (*models.Project, error) {
	if f.project == nil || f.project.ID != id {
		return nil, ErrNotFound
	}
	return f.project, nil
}

func (f *fakeStore) AccessSlug(context.Context, uuid.UUID) (string, error) {
	return f.slug, f.slugErr
}

func (f *fakeStore) MarkNotified(_ context.Context, _ uuid.UUID, at time.Time) error {
	f.notified = &at
	return nil
}

func (f *fakeStore) AcknowledgeAlerts(_ context.Context, key models.AlertKey, _ time.Time) (int64, error) {
	if f.ackErr != nil {
		return 0, f.ackErr
	}
	var n int64
	for _, a := range f.alerts {
		if a.key == key && !a.acked {
			a.acked = true
			n++
		}
	}
	return n, nil
}

type fakeSender struct {
	to, body string
	calls    int
	err      error
}

func (f *fakeSender) Send(_ context.Context, to, body string) (string, error) {
	f.calls++
	f.to, f.body = to, body
	return "SM1", f.err
}

func fixture() (*fakeStore, CatchupRequest) {
	p := &models.Project{ID: uuid.New(), Name: "Elm Reroof", ClientPhone: "510-555-0100"}
	return &fakeStore{project: p, slug: "elm-reroof-x1"}, CatchupRequest{
		ProjectID:      p.ID.String(),
		ProjectName:    "Elm Reroof",
		UpdatesSummary: "Tear-off complete.",
	}
}

func TestSendCatchup(t *testing.T) {
	store, req := fixture()
	sender := &fakeSender{}
	svc := NewService(store, sender, "https://roofingfriend.test/", "Summit Roofing")
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	res, err := svc.SendCatchup(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.SMSSent)
	assert.Equal(t, "https://roofingfriend.test/client-portal/elm-reroof-x1", res.PortalURL)
	assert.Equal(t, fixed, res.NotifiedAt)

	assert.Equal(t, "+15105550100", sender.to)
	assert.Equal(t, "🔔 Project Update: Elm Reroof\n\nTear-off complete.\n\nView all updates: https://roofingfriend.test/client-portal/elm-reroof-x1\n\n- The Summit Roofing Team", sender.body)
	require.NotNil(t, store.notified)
	assert.Equal(t, fixed, *store.notified)
}

func TestSendCatchupPortalFallsBackToSite(t *testing.T) {
	store, req := fixture()
	store.slug = ""
	store.slugErr = errors.New("timeout")

	res, err := NewService(store, &fakeSender{}, "https://roofingfriend.test", "Roofing Friend").SendCatchup(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "https://roofingfriend.test", res.PortalURL)
}

func TestSendCatchupValidation(t *testing.T) {
	store, req := fixture()
	sender := &fakeSender{}
	svc := NewService(store, sender, "https://x.test", "Roofing Friend")

	_, err := svc.SendCatchup(context.Background(), CatchupRequest{ProjectID: req.ProjectID})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.SendCatchup(context.Background(), CatchupRequest{ProjectID: uuid.NewString(), ProjectName: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	store.project.ClientPhone = "555-0100"
	_, err = svc.SendCatchup(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "No valid client phone number on project", apperr.Message(err))
	assert.Zero(t, sender.calls)
}

func TestSendCatchupDeliveryErrors(t *testing.T) {
	store, req := fixture()

	_, err := NewService(store, nil, "https://x.test", "Roofing Friend").SendCatchup(context.Background(), req)
	var de *DeliveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "https://x.test/client-portal/elm-reroof-x1", de.PortalURL)
	assert.Equal(t, http.StatusInternalServerError, apperr.Status(err))
	assert.Equal(t, "SMS service not configured", apperr.Message(err))

	_, err = NewService(store, &fakeSender{err: errors.New("21610")}, "https://x.test", "Roofing Friend").SendCatchup(context.Background(), req)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Failed to send SMS", apperr.Message(err))
	assert.Nil(t, store.notified)
}

func TestAcknowledge(t *testing.T) {
	projectID := uuid.New()
	key := models.AlertKey{ProjectID: projectID, ItemType: "change_order", ItemID: "co-1"}
	store := &fakeStore{alerts: []*alertRow{
		{key: key},
		{key: key},
		{key: models.AlertKey{ProjectID: projectID, ItemType: "invoice", ItemID: "co-1"}},
	}}
	svc := NewService(store, nil, "", "Roofing Friend")
	req := AcknowledgeRequest{ItemType: "change_order", ItemID: "co-1", ProjectID: projectID.String()}

	res, err := svc.Acknowledge(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.EqualValues(t, 2, res.Acknowledged)

	res, err = svc.Acknowledge(context.Background(), req)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Acknowledged, "already acknowledged alerts are not counted again")
	assert.False(t, store.alerts[2].acked)
}

func TestAcknowledgeErrors(t *testing.T) {
	store := &fakeStore{ackErr: errors.New("db down")}
	svc := NewService(store, nil, "", "Roofing Friend")

	_, err := svc.Acknowledge(context.Background(), AcknowledgeRequest{ItemType: "x", ItemID: "y"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Acknowledge(context.Background(), AcknowledgeRequest{ItemType: "x", ItemID: "y", ProjectID: uuid.NewString()})
	assert.Equal(t, http.StatusInternalServerError, apperr.Status(err))
	assert.Equal(t, "Failed to acknowledge alert", apperr.Message(err))
	assert.Empty(t, apperr.Details(err))
}
