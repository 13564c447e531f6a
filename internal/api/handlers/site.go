package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/content"
	"github.com/fastfixai/tenantsite/internal/tenant"
)

// SiteHandler exposes the static site content and the tenant-aware company
// identity as JSON.
type SiteHandler struct {
	site    *content.Site
	baseURL string
}

func NewSiteHandler(site *content.Site, baseURL string) *SiteHandler {
	return &SiteHandler{site: site, baseURL: baseURL}
}

func (h *SiteHandler) Business(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"business":        h.site.Business(),
		"hero":            h.site.Hero(),
		"trustIndicators": h.site.TrustIndicators(),
		"statistics":      h.site.Statistics(),
		"ratings":         h.site.Ratings(),
	})
}

func (h *SiteHandler) Services(w http.ResponseWriter, r *http.Request) {
	services := h.site.Services()
	if featured, _ := strconv.ParseBool(r.URL.Query().Get("featured")); featured {
		services = h.site.FeaturedServices()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"services":   services,
		"navigation": h.site.ServiceNavigation(),
	})
}

func (h *SiteHandler) Service(w http.ResponseWriter, r *http.Request) {
	s, ok := h.site.ServiceBySlug(chi.URLParam(r, "slug"))
	if !ok {
		writeError(w, apperr.NotFound("Service not found"))
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SiteHandler) Areas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"areas": h.site.Areas(),
		"names": h.site.AreaNames(),
	})
}

func (h *SiteHandler) Area(w http.ResponseWriter, r *http.Request) {
	a, ok := h.site.AreaBySlug(chi.URLParam(r, "slug"))
	if !ok {
		writeError(w, apperr.NotFound("Service area not found"))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *SiteHandler) Locations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"locations": h.site.ServiceLocations()})
}

func (h *SiteHandler) FAQs(w http.ResponseWriter, r *http.Request) {
	faqs := h.site.FAQs()
	if c := r.URL.Query().Get("category"); c != "" {
		faqs = h.site.FAQsByCategory(c)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"faqs": faqs})
}

func (h *SiteHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mainMenu":   h.site.MainMenu(),
		"footerMenu": h.site.FooterMenu(),
		"features":   h.site.Features(),
	})
}

func (h *SiteHandler) Assets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"heroGallery":      h.site.HeroGallery(),
		"defaultImages":    h.site.DefaultImages(),
		"hasSolarServices": h.site.HasSolarServices(),
	})
}

func (h *SiteHandler) Projects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projects := h.site.Projects()
	if featured, _ := strconv.ParseBool(q.Get("featured")); featured {
		projects = h.site.FeaturedProjects()
	} else if c := q.Get("category"); c != "" {
		projects = h.site.ProjectsByCategory(c)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

func (h *SiteHandler) Project(w http.ResponseWriter, r *http.Request) {
	p, ok := h.site.ProjectBySlug(chi.URLParam(r, "slug"))
	if !ok {
		writeError(w, apperr.NotFound("Project not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Company merges the tenant resolved for this request, if any, over
// business.json.
func (h *SiteHandler) Company(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tenant.Company(h.site.Business(), tenant.FromContext(r.Context())))
}

func (h *SiteHandler) Branding(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tenant.BrandingVars(tenant.FromContext(r.Context())))
}

func (h *SiteHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"urls": h.site.Sitemap(h.baseURL)})
}
