package tenant

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fastfixai/tenantsite/internal/content"
)

// CompanyConfig is the business identity shown on the site, taken from the
// resolved tenant when there is one and from business.json otherwise.
type CompanyConfig struct {
	Name            string          `json:"name"`
	ShortName       string          `json:"shortName"`
	Tagline         string          `json:"tagline,omitempty"`
	Description     string          `json:"description,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	PhoneRaw        string          `json:"phoneRaw,omitempty"`
	Email           string          `json:"email,omitempty"`
	Address         content.Address `json:"address"`
	Logo            string          `json:"logo,omitempty"`
	PrimaryColor    string          `json:"primaryColor,omitempty"`
	SecondaryColor  string          `json:"secondaryColor,omitempty"`
	AccentColor     string          `json:"accentColor,omitempty"`
	HeroImage       string          `json:"heroImage,omitempty"`
	LicenseNumber   string          `json:"licenseNumber,omitempty"`
	OwnerName       string          `json:"ownerName,omitempty"`
	YearsInBusiness int             `json:"yearsInBusiness,omitempty"`
	TenantID        string          `json:"tenantId,omitempty"`
	IsResolved      bool            `json:"isResolved"`
}

var nonDigits = regexp.MustCompile(`\D`)

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func Company(static content.Business, r *Resolved) CompanyConfig {
	if r == nil || r.Tenant == nil || r.Profile == nil {
		return CompanyConfig{
			Name:          static.Name,
			ShortName:     static.Name,
			Tagline:       static.Tagline,
			Description:   static.Description,
			Phone:         static.Phone,
			PhoneRaw:      static.PhoneRaw,
			Email:         static.Email,
			Address:       static.Address,
			Logo:          static.Logo,
			LicenseNumber: static.LicenseNumber,
		}
	}

	p := r.Profile
	parts := make([]string, 0, 4)
	for _, v := range []string{p.AddressLine1, p.City, p.State, p.ZipCode} {
		if v != "" {
			parts = append(parts, v)
		}
	}

	cfg := CompanyConfig{
		Name:        or(p.BusinessName, static.Name),
		ShortName:   or(p.BusinessName, static.Name),
		Tagline:     or(p.Tagline, static.Tagline),
		Description: or(p.Description, static.Description),
		Phone:       or(p.Phone, static.Phone),
		PhoneRaw:    or(nonDigits.ReplaceAllString(p.Phone, ""), static.PhoneRaw),
		Email:       or(p.Email, static.Email),
		Address: content.Address{
			Street: or(p.AddressLine1, static.Address.Street),
			City:   or(p.City, static.Address.City),
			State:  or(p.State, static.Address.State),
			Zip:    or(p.ZipCode, static.Address.Zip),
			Full:   or(strings.Join(parts, ", "), static.Address.Full),
		},
		Logo:            static.Logo,
		LicenseNumber:   or(p.LicenseNumber, static.LicenseNumber),
		OwnerName:       p.OwnerName,
		YearsInBusiness: p.YearsInBusiness,
		TenantID:        r.Tenant.ID.String(),
		IsResolved:      true,
	}
	if b := r.Branding; b != nil {
		cfg.Logo = or(b.LogoURL, static.Logo)
		cfg.PrimaryColor = b.PrimaryColor
		cfg.SecondaryColor = b.SecondaryColor
		cfg.AccentColor = b.AccentColor
		cfg.HeroImage = b.HeroImageURL
	}
	return cfg
}

// Branding is what the admin shell applies once a tenant is loaded.
type Branding struct {
	Vars    map[string]string `json:"vars"`
	Title   string            `json:"title,omitempty"`
	Favicon string            `json:"favicon,omitempty"`
}

func BrandingVars(r *Resolved) Branding {
	out := Branding{Vars: map[string]string{}}
	if r == nil || r.Tenant == nil {
		return out
	}
	if b := r.Branding; b != nil {
		if hsl, ok := HexToHSL(b.PrimaryColor); ok {
			out.Vars["--primary"] = hsl
			out.Vars["--primary-hover"] = hsl
		}
		if hsl, ok := HexToHSL(b.SecondaryColor); ok {
			out.Vars["--secondary"] = hsl
		}
		if hsl, ok := HexToHSL(b.AccentColor); ok {
			out.Vars["--accent"] = hsl
		}
		out.Favicon = b.FaviconURL
	}
	if r.Tenant.Name != "" {
		out.Title = r.Tenant.Name + " - CRM"
	}
	return out
}

// HexToHSL converts "#rrggbb" (leading # optional) to the "H S% L%" form
// used by the CSS theme variables.
func HexToHSL(hex string) (string, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) < 6 {
		return "", false
	}
	var rgb [3]float64
	for i := range rgb {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return "", false
		}
		rgb[i] = float64(v) / 255
	}
	r, g, b := rgb[0], rgb[1], rgb[2]

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	var h, s float64
	l := (hi + lo) / 2

	if hi != lo {
		d := hi - lo
		if l > 0.5 {
			s = d / (2 - hi - lo)
		} else {
			s = d / (hi + lo)
		}
		switch hi {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h /= 6
	}

	return fmt.Sprintf("%d %d%% %d%%", jsRound(h*360), jsRound(s*100), jsRound(l*100)), true
}

// jsRound rounds half up, matching the browser's Math.round.
func jsRound(v float64) int {
	return int(math.Floor(v + 0.5))
}
