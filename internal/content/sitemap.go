package content

import (
	"fmt"
	"sort"
	"strings"
)

// Sitemap returns absolute URLs for every public page.
func (s *Site) Sitemap(baseURL string) []string {
	base := strings.TrimRight(baseURL, "/")
	paths := []string{"/", "/about", "/services"}
	for _, svc := range s.Services() {
		paths = append(paths, "/services/"+svc.Slug)
	}
	paths = append(paths, "/service-areas")
	for _, a := range s.Areas() {
		paths = append(paths, "/service-areas/"+a.Slug)
	}
	if len(s.projects) > 0 {
		paths = append(paths, "/projects")
		for _, p := range s.projects {
			if p.Slug != "" {
				paths = append(paths, "/projects/"+p.Slug)
			}
		}
	}
	if s.Features().StoreEnabled {
		paths = append(paths, "/store")
	}

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, base+p)
	}
	return out
}

// Issues lists problems an operator should fix in the content files.
func (s *Site) Issues() []string {
	var issues []string

	if s.business.Name == "" {
		issues = append(issues, "business.json: name is empty")
	}

	seen := map[string]int{}
	for _, svc := range s.services {
		seen[dedupeKey(svc.Slug, svc.Name)]++
	}
	for key, n := range seen {
		if n > 1 {
			issues = append(issues, fmt.Sprintf("services.json: duplicate service %q (%d entries)", key, n))
		}
	}

	seen = map[string]int{}
	for _, a := range s.areas {
		seen[dedupeKey(a.Slug, a.Name)]++
		if a.Coordinates.Lat == 0 && a.Coordinates.Lng == 0 {
			issues = append(issues, fmt.Sprintf("areas.json: area %q has no coordinates", a.Name))
		}
	}
	for key, n := range seen {
		if n > 1 {
			issues = append(issues, fmt.Sprintf("areas.json: duplicate area %q (%d entries)", key, n))
		}
	}

	for _, f := range s.faqs {
		if f.Category == "" {
			issues = append(issues, fmt.Sprintf("faqs.json: faq %q has no category", f.ID))
		}
	}
	sort.Strings(issues)
	return issues
}
