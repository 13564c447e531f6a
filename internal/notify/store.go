package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastfixai/tenantsite/internal/models"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	// ChangeOrder loads the change order together with the manager and
	// address of projectID.
	ChangeOrder(ctx context.Context, changeOrderID, projectID uuid.UUID) (*models.ChangeOrder, error)
	TeamMemberByUser(ctx context.Context, userID uuid.UUID) (*models.TeamMember, error)
	InsertNotification(ctx context.Context, n models.TeamNotification) error
}

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ChangeOrder(ctx context.Context, changeOrderID, projectID uuid.UUID) (*models.ChangeOrder, error) {
	var (
		co      models.ChangeOrder
		address *string
	)
	err := s.db.QueryRow(ctx,
		`SELECT co.id, co.project_id, co.created_by, co.project_manager_id, p.project_manager_id, p.address
		 FROM change_orders co
		 LEFT JOIN projects p ON p.id = $2
		 WHERE co.id = $1`,
		changeOrderID, projectID,
	).Scan(&co.ID, &co.ProjectID, &co.CreatedBy, &co.ProjectManagerID, &co.ParentManagerID, &address)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get change order: %w", err)
	}
	if address != nil {
		co.ProjectAddress = *address
	}
	return &co, nil
}

func (s *PostgresStore) TeamMemberByUser(ctx context.Context, userID uuid.UUID) (*models.TeamMember, error) {
	var m models.TeamMember
	err := s.db.QueryRow(ctx,
		`SELECT id, name, phone, sms_notifications_enabled
		 FROM team_directory WHERE user_id = $1
		 ORDER BY created_at LIMIT 1`,
		userID,
	).Scan(&m.ID, &m.FullName, &m.PhoneNumber, &m.SMSNotificationsEnabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team member: %w", err)
	}
	return &m, nil
}

func (s *PostgresStore) InsertNotification(ctx context.Context, n models.TeamNotification) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO team_member_notifications
		 (member_id, type, title, message, priority, reference_type, reference_id, action_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.MemberID, n.Type, n.Title, n.Message, n.Priority, n.ReferenceType, n.ReferenceID, n.ActionURL,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
