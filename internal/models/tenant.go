package models

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type TenantProfile struct {
	TenantID        uuid.UUID `json:"tenant_id" db:"tenant_id"`
	BusinessName    string    `json:"business_name" db:"business_name"`
	Tagline         string    `json:"tagline" db:"tagline"`
	Description     string    `json:"description" db:"description"`
	Phone           string    `json:"phone" db:"phone"`
	Email           string    `json:"email" db:"email"`
	AddressLine1    string    `json:"address_line_1" db:"address_line_1"`
	City            string    `json:"city" db:"city"`
	State           string    `json:"state" db:"state"`
	ZipCode         string    `json:"zip_code" db:"zip_code"`
	LicenseNumber   string    `json:"license_number" db:"license_number"`
	OwnerName       string    `json:"owner_name" db:"owner_name"`
	YearsInBusiness int       `json:"years_in_business" db:"years_in_business"`
}

type TenantBranding struct {
	TenantID       uuid.UUID `json:"tenant_id" db:"tenant_id"`
	LogoURL        string    `json:"logo_url" db:"logo_url"`
	FaviconURL     string    `json:"favicon_url" db:"favicon_url"`
	PrimaryColor   string    `json:"primary_color" db:"primary_color"`
	SecondaryColor string    `json:"secondary_color" db:"secondary_color"`
	AccentColor    string    `json:"accent_color" db:"accent_color"`
	HeroImageURL   string    `json:"hero_image_url" db:"hero_image_url"`
}
