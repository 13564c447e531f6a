package feedback

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastfixai/tenantsite/internal/models"
)

type Store interface {
	Insert(ctx context.Context, r *models.FeedbackReport) error
	SetSnapshotURL(ctx context.Context, r *models.FeedbackReport) error
}

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert stores the report and fills in its id and creation time.
func (s *PostgresStore) Insert(ctx context.Context, r *models.FeedbackReport) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO feedback_reports (tenant_id, user_id, message, context)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		r.TenantID, r.UserID, r.Message, r.Context,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert feedback report: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetSnapshotURL(ctx context.Context, r *models.FeedbackReport) error {
	_, err := s.db.Exec(ctx,
		`UPDATE feedback_reports SET snapshot_url = $2 WHERE id = $1`, r.ID, r.SnapshotURL)
	if err != nil {
		return fmt.Errorf("set snapshot url: %w", err)
	}
	return nil
}
