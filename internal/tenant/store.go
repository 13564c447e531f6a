package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastfixai/tenantsite/internal/models"
)

var ErrNotFound = errors.New("tenant not found")

// Store reads tenant rows. Profile and branding return nil, nil when absent.
type Store interface {
	GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetProfile(ctx context.Context, tenantID uuid.UUID) (*models.TenantProfile, error)
	GetBranding(ctx context.Context, tenantID uuid.UUID) (*models.TenantBranding, error)
}

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var t models.Tenant
	err := s.db.QueryRow(ctx,
		"SELECT id, name, slug, created_at FROM tenants WHERE id = $1", id,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, tenantID uuid.UUID) (*models.TenantProfile, error) {
	var p models.TenantProfile
	err := s.db.QueryRow(ctx,
		`SELECT tenant_id, business_name, tagline, description, phone, email, address_line_1,
		        city, state, zip_code, license_number, owner_name, years_in_business
		 FROM tenant_profiles WHERE tenant_id = $1`, tenantID,
	).Scan(&p.TenantID, &p.BusinessName, &p.Tagline, &p.Description, &p.Phone, &p.Email, &p.AddressLine1,
		&p.City, &p.State, &p.ZipCode, &p.LicenseNumber, &p.OwnerName, &p.YearsInBusiness)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant profile: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) GetBranding(ctx context.Context, tenantID uuid.UUID) (*models.TenantBranding, error) {
	var b models.TenantBranding
	err := s.db.QueryRow(ctx,
		`SELECT tenant_id, logo_url, favicon_url, primary_color, secondary_color, accent_color, hero_image_url
		 FROM tenant_branding WHERE tenant_id = $1`, tenantID,
	).Scan(&b.TenantID, &b.LogoURL, &b.FaviconURL, &b.PrimaryColor, &b.SecondaryColor, &b.AccentColor, &b.HeroImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant branding: %w", err)
	}
	return &b, nil
}
