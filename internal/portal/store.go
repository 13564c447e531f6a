package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastfixai/tenantsite/internal/models"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	Project(ctx context.Context, id uuid.UUID) (*models.Project, error)
	// AccessSlug returns "" when the project has no portal access row.
	AccessSlug(ctx context.Context, projectID uuid.UUID) (string, error)
	MarkNotified(ctx context.Context, projectID uuid.UUID, at time.Time) error
	AcknowledgeAlerts(ctx context.Context, key models.AlertKey, at time.Time) (int64, error)
}

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Project(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, address, client_name, client_phone, client_email,
		        project_manager_id, client_last_notified_at
		 FROM projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.TenantID, &p.Name, &p.Address, &p.ClientName, &p.ClientPhone, &p.ClientEmail,
		&p.ProjectManagerID, &p.ClientLastNotifiedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) AccessSlug(ctx context.Context, projectID uuid.UUID) (string, error) {
	var slug string
	err := s.db.QueryRow(ctx,
		`SELECT url_slug FROM client_portal_access WHERE project_id = $1`, projectID,
	).Scan(&slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get portal access: %w", err)
	}
	return slug, nil
}

func (s *PostgresStore) MarkNotified(ctx context.Context, projectID uuid.UUID, at time.Time) error {
	_, err := s.db.Exec(ctx,
		`UPDATE projects SET client_last_notified_at = $2 WHERE id = $1`, projectID, at)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

func (s *PostgresStore) AcknowledgeAlerts(ctx context.Context, key models.AlertKey, at time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE client_portal_alerts
		 SET is_acknowledged = true, acknowledged_at = $4
		 WHERE project_id = $1 AND item_type = $2 AND item_id = $3 AND is_acknowledged = false`,
		key.ProjectID, key.ItemType, key.ItemID, at,
	)
	if err != nil {
		return 0, fmt.Errorf("acknowledge alerts: %w", err)
	}
	return tag.RowsAffected(), nil
}
