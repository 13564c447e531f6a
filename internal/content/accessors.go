package content

import (
	"fmt"
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// dedupeKey is the slug, or the lower-cased name with whitespace runs
// replaced by hyphens when the slug is empty.
func dedupeKey(slug, name string) string {
	if slug != "" {
		return slug
	}
	return whitespace.ReplaceAllString(strings.ToLower(name), "-")
}

func (s *Site) Business() Business { return s.business }

func (s *Site) Hero() *Hero { return s.business.Hero }

func (s *Site) TrustIndicators() []TrustIndicator { return nonNil(s.business.TrustIndicators) }

func (s *Site) Statistics() []Statistic { return nonNil(s.business.Statistics) }

func (s *Site) Ratings() *Ratings { return s.business.Ratings }

// Services returns services with duplicates removed, first occurrence wins.
func (s *Site) Services() []Service {
	seen := make(map[string]bool, len(s.services))
	out := make([]Service, 0, len(s.services))
	for _, svc := range s.services {
		key := dedupeKey(svc.Slug, svc.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, svc)
	}
	return out
}

func (s *Site) ServiceBySlug(slug string) (Service, bool) {
	for _, svc := range s.Services() {
		if svc.Slug == slug {
			return svc, true
		}
	}
	return Service{}, false
}

func (s *Site) FeaturedServices() []Service {
	out := []Service{}
	for _, svc := range s.Services() {
		if svc.IsFeatured {
			out = append(out, svc)
		}
	}
	return out
}

type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// ServiceNavigation links the first four services.
func (s *Site) ServiceNavigation() []NavLink {
	services := s.Services()
	if len(services) > 4 {
		services = services[:4]
	}
	out := make([]NavLink, 0, len(services))
	for _, svc := range services {
		out = append(out, NavLink{Label: svc.Name, Path: "/services/" + svc.Slug})
	}
	return out
}

func (s *Site) Areas() []Area {
	seen := make(map[string]bool, len(s.areas))
	out := make([]Area, 0, len(s.areas))
	for _, a := range s.areas {
		key := dedupeKey(a.Slug, a.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// AreaBySlug searches the raw area list, duplicates included.
func (s *Site) AreaBySlug(slug string) (Area, bool) {
	for _, a := range s.areas {
		if a.Slug == slug {
			return a, true
		}
	}
	return Area{}, false
}

func (s *Site) AreaNames() []string {
	out := make([]string, 0, len(s.areas))
	for _, a := range s.areas {
		out = append(out, a.Name)
	}
	return out
}

type Location struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// ServiceLocations is the city list shown on the service-area pages.
func (s *Site) ServiceLocations() []Location {
	areas := s.Areas()
	out := make([]Location, 0, len(areas))
	for _, a := range areas {
		desc := a.Description
		if desc == "" {
			desc = fmt.Sprintf("Professional services in %s", a.Name)
		}
		out = append(out, Location{ID: a.Slug, Name: a.Name, Slug: a.Slug, Description: desc})
	}
	return out
}

func (s *Site) FAQs() []FAQ { return nonNil(s.faqs) }

func (s *Site) FAQsByCategory(category string) []FAQ {
	out := []FAQ{}
	for _, f := range s.faqs {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

func (s *Site) GeneralFAQs() []FAQ { return s.FAQsByCategory("general") }

func (s *Site) Navigation() Navigation { return s.navigation }

// MainMenu returns the visible main menu items.
func (s *Site) MainMenu() []MenuItem {
	out := []MenuItem{}
	for _, item := range s.navigation.MainMenu {
		if item.Visible {
			out = append(out, item)
		}
	}
	return out
}

func (s *Site) FooterMenu() FooterMenu { return s.navigation.FooterMenu }

func (s *Site) Features() Features {
	if s.navigation.Features == nil {
		return Features{StoreEnabled: false}
	}
	return *s.navigation.Features
}

func (s *Site) VisualAssets() VisualAssets { return s.assets }

func (s *Site) HeroGallery() []GalleryItem { return nonNil(s.assets.HeroGallery) }

type DefaultImages struct {
	Service string `json:"service"`
	Area    string `json:"area"`
}

func (s *Site) DefaultImages() DefaultImages {
	return DefaultImages{Service: s.assets.DefaultServiceImage, Area: s.assets.DefaultAreaImage}
}

func (s *Site) Projects() []Project { return nonNil(s.projects) }

func (s *Site) FeaturedProjects() []Project {
	out := []Project{}
	for _, p := range s.projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

func (s *Site) ProjectBySlug(slug string) (Project, bool) {
	for _, p := range s.projects {
		if p.Slug == slug {
			return p, true
		}
	}
	return Project{}, false
}

// ProjectsByCategory matches case-insensitively; "all" returns every project.
func (s *Site) ProjectsByCategory(category string) []Project {
	if category == "all" {
		return s.Projects()
	}
	out := []Project{}
	for _, p := range s.projects {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

var solarKeywords = []string{"solar", "roofing", "roof", "pool", "energy"}

// HasSolarServices reports whether any service mentions a solar-adjacent
// trade in its name, slug or short description.
func (s *Site) HasSolarServices() bool {
	for _, svc := range s.Services() {
		text := strings.ToLower(svc.Name + " " + svc.Slug + " " + svc.ShortDescription)
		for _, kw := range solarKeywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
