package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastfixai/tenantsite/internal/database"
	"github.com/fastfixai/tenantsite/internal/models"
)

const memberColumns = `id, tenant_id, user_id, name, email, phone, role, status,
	sms_notifications_enabled, created_at, updated_at`

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) WithTenantLock(ctx context.Context, tenantID uuid.UUID, fn func(Tx) error) error {
	return database.InTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", "team_directory:"+tenantID.String()); err != nil {
			return fmt.Errorf("lock tenant memberships: %w", err)
		}
		return fn(&pgTx{tx: tx})
	})
}

func (s *PostgresStore) Get(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error) {
	return getMember(ctx, s.db, tenantID, userID)
}

func (s *PostgresStore) ListByStatus(ctx context.Context, tenantID uuid.UUID, status models.Status) ([]models.Membership, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+memberColumns+` FROM team_directory
		 WHERE tenant_id = $1 AND status = $2 ORDER BY created_at`,
		tenantID, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

func (s *PostgresStore) Update(ctx context.Context, tenantID, userID uuid.UUID, role models.Role, status models.Status) (*models.Membership, error) {
	row := s.db.QueryRow(ctx,
		`UPDATE team_directory SET role = $3, status = $4, updated_at = now()
		 WHERE tenant_id = $1 AND user_id = $2
		 RETURNING `+memberColumns,
		tenantID, userID, string(role), string(status),
	)
	m, err := scanMember(row)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) UpsertAdminFlag(ctx context.Context, flag models.AdminUserFlag) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO admin_users (user_id, email, is_active) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET email = EXCLUDED.email, is_active = EXCLUDED.is_active`,
		flag.UserID, flag.Email, flag.IsActive,
	)
	if err != nil {
		return fmt.Errorf("upsert admin flag: %w", err)
	}
	return nil
}

func (s *PostgresStore) AdminFlagActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	var active bool
	err := s.db.QueryRow(ctx, "SELECT is_active FROM admin_users WHERE user_id = $1", userID).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get admin flag: %w", err)
	}
	return active, nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Get(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error) {
	return getMember(ctx, t.tx, tenantID, userID)
}

// CountActiveAdmins runs under a savepoint so a failed count leaves the
// surrounding transaction usable.
func (t *pgTx) CountActiveAdmins(ctx context.Context, tenantID uuid.UUID) (int, error) {
	sp, err := t.tx.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("savepoint: %w", err)
	}

	var n int
	err = sp.QueryRow(ctx,
		`SELECT count(*) FROM team_directory
		 WHERE tenant_id = $1 AND status = 'active' AND role = 'admin'`,
		tenantID,
	).Scan(&n)
	if err != nil {
		sp.Rollback(ctx)
		return 0, fmt.Errorf("count admins: %w", err)
	}
	if err := sp.Commit(ctx); err != nil {
		return 0, fmt.Errorf("release savepoint: %w", err)
	}
	return n, nil
}

func (t *pgTx) Insert(ctx context.Context, m *models.Membership) (*models.Membership, bool, error) {
	row := t.tx.QueryRow(ctx,
		`INSERT INTO team_directory (tenant_id, user_id, name, email, phone, role, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (tenant_id, user_id) DO NOTHING
		 RETURNING `+memberColumns,
		m.TenantID, m.UserID, m.Name, m.Email, m.Phone, string(m.Role), string(m.Status),
	)
	stored, err := scanMember(row)
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("insert member: %w", err)
	}

	existing, err := getMember(ctx, t.tx, m.TenantID, m.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("reload member after conflict: %w", err)
	}
	return existing, false, nil
}

func getMember(ctx context.Context, q querier, tenantID, userID uuid.UUID) (*models.Membership, error) {
	row := q.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM team_directory WHERE tenant_id = $1 AND user_id = $2`,
		tenantID, userID,
	)
	m, err := scanMember(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, err
}

func scanMember(row pgx.Row) (*models.Membership, error) {
	var (
		m            models.Membership
		role, status string
	)
	err := row.Scan(&m.ID, &m.TenantID, &m.UserID, &m.Name, &m.Email, &m.Phone, &role, &status,
		&m.SMSNotificationsEnabled, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan member: %w", err)
	}

	if m.Role, err = models.ParseRole(role); err != nil {
		return nil, err
	}
	if m.Status, err = models.ParseStatus(status); err != nil {
		return nil, err
	}
	return &m, nil
}
