package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastfixai/tenantsite/internal/adminlogin"
	"github.com/fastfixai/tenantsite/internal/api/handlers"
	"github.com/fastfixai/tenantsite/internal/api/middleware"
	"github.com/fastfixai/tenantsite/internal/audit"
	"github.com/fastfixai/tenantsite/internal/auth"
	"github.com/fastfixai/tenantsite/internal/cache"
	"github.com/fastfixai/tenantsite/internal/checkout"
	"github.com/fastfixai/tenantsite/internal/config"
	"github.com/fastfixai/tenantsite/internal/content"
	"github.com/fastfixai/tenantsite/internal/feedback"
	"github.com/fastfixai/tenantsite/internal/llm"
	"github.com/fastfixai/tenantsite/internal/membership"
	"github.com/fastfixai/tenantsite/internal/metrics"
	"github.com/fastfixai/tenantsite/internal/models"
	"github.com/fastfixai/tenantsite/internal/notify"
	"github.com/fastfixai/tenantsite/internal/parsing"
	"github.com/fastfixai/tenantsite/internal/portal"
	"github.com/fastfixai/tenantsite/internal/queue"
	"github.com/fastfixai/tenantsite/internal/registration"
	"github.com/fastfixai/tenantsite/internal/tenant"
)

// Deps are the connections opened by main. Any of them may be nil; the
// features that need a missing one answer with an error instead.
type Deps struct {
	DB    *pgxpool.Pool
	Cache *cache.Cache
	Queue *queue.Client
	Site  *content.Site
}

// auditLogger is *audit.Service, or nil without a database.
type auditLogger interface {
	membership.Auditor
	handlers.AuditReader
}

type Router struct {
	mux      *chi.Mux
	cfg      *config.Config
	deps     Deps
	tenantID uuid.UUID
	jwt      *auth.JWTMiddleware
	llmGW    *llm.Gateway
	limiter  *middleware.RateLimiter
}

func NewRouter(cfg *config.Config, deps Deps) (*Router, error) {
	var tenantID uuid.UUID
	if cfg.Tenant.ID != "" {
		id, err := uuid.Parse(cfg.Tenant.ID)
		if err != nil {
			return nil, fmt.Errorf("parse TENANT_ID: %w", err)
		}
		tenantID = id
	}

	return &Router{
		mux:      chi.NewRouter(),
		cfg:      cfg,
		deps:     deps,
		tenantID: tenantID,
		jwt:      auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
		llmGW:    llm.NewGateway(cfg.LLM),
		limiter:  middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
	}, nil
}

// Limiter exposes the rate limiter so main can run its cleanup loop.
func (rt *Router) Limiter() *middleware.RateLimiter { return rt.limiter }

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Peer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(strings.Split(rt.cfg.Server.CORSOrigin, ",")))
	r.Use(rt.limiter.Limit)

	checks := map[string]handlers.Pinger{}
	if rt.deps.DB != nil {
		checks["postgres"] = rt.deps.DB
	}
	if rt.deps.Cache != nil {
		checks["redis"] = rt.deps.Cache
	}
	health := handlers.NewHealthHandler(checks)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	var (
		members  membership.Store = membership.NewMemoryStore()
		auditLog auditLogger
	)
	if rt.deps.DB != nil {
		members = membership.NewPostgresStore(rt.deps.DB)
		auditLog = audit.NewService(rt.deps.DB)
	}

	memberSvc := membership.NewService(members, auditLog)
	regSvc := registration.NewService(members, auditLog)

	r.Route("/functions/v1", func(r chi.Router) {
		rt.mountFunctions(r, regSvc)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Tenant(rt.resolver(), rt.tenantID))

		if rt.deps.Site != nil {
			rt.mountSite(r, rt.deps.Site)
		}

		fb := handlers.NewFeedbackHandler(feedback.NewService(rt.enqueuer()))
		r.With(rt.jwt.Optional).Post("/feedback", fb.Submit)

		login := handlers.NewLoginHandler(rt.loginFlow(memberSvc, regSvc))
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login/otp", login.SendCode)
			r.Post("/login/verify", login.Verify)
			r.With(rt.jwt.Authenticate).Get("/session", login.Session)

			admin := handlers.NewAdminHandler(memberSvc, auditLog, rt.tenantID)
			rbac := auth.NewRBAC(memberSvc, rt.tenantID)
			r.Group(func(r chi.Router) {
				r.Use(rt.jwt.Authenticate)
				r.Use(rbac.RequireRole(models.RoleOwner, models.RoleAdmin))
				r.Get("/members/pending", admin.PendingMembers)
				r.Post("/members/{userID}/approve", admin.Approve)
				r.Post("/members/{userID}/promote", admin.Promote)
				r.Get("/audit", admin.AuditLogs)
			})
		})
	})

	return r
}

func (rt *Router) mountFunctions(r chi.Router, regSvc *registration.Service) {
	var creator checkout.SessionCreator
	if rt.cfg.Stripe.SecretKey != "" {
		creator = checkout.NewStripeCreator(rt.cfg.Stripe.SecretKey)
	}
	sender := notify.NewSender(rt.cfg.Twilio)

	fn := &handlers.FunctionsHandler{
		Verifier:  rt.jwt,
		Registrar: regSvc,
		Checkout:  checkout.NewService(creator, rt.cfg.Site.URL, rt.portalURL()),
		Estimates: parsing.NewEstimateParser(rt.llmGW, rt.cfg.LLM.EstimateModel),
		Orders:    parsing.NewPurchaseOrderParser(rt.llmGW, rt.cfg.LLM.PurchaseOrderModel),
	}

	r.Post("/register-tenant-user", handlers.Instrument("register-tenant-user", fn.RegisterTenantUser))
	r.Post("/create-change-order-checkout", handlers.Instrument("create-change-order-checkout", fn.CreateChangeOrderCheckout))
	r.Post("/parse-estimate-pdf", handlers.Instrument("parse-estimate-pdf", fn.ParseEstimate))
	r.Post("/parse-purchase-order-pdf", handlers.Instrument("parse-purchase-order-pdf", fn.ParsePurchaseOrder))

	dbFuncs := map[string]http.HandlerFunc{
		"notify-change-order-approval":    fn.NotifyChangeOrderApproval,
		"send-client-portal-catchup":      fn.SendClientPortalCatchup,
		"client-portal-acknowledge-alert": fn.AcknowledgeAlert,
	}
	if rt.deps.DB != nil {
		fn.Notifier = notify.NewApprovalNotifier(notify.NewPostgresStore(rt.deps.DB), sender, rt.cfg.Site.BusinessName)
		fn.Portal = portal.NewService(portal.NewPostgresStore(rt.deps.DB), sender, rt.cfg.Site.URL, rt.cfg.Site.BusinessName)
	}
	for name, h := range dbFuncs {
		if rt.deps.DB == nil {
			h = handlers.Unavailable("Database not configured")
		}
		r.Post("/"+name, handlers.Instrument(name, h))
	}
}

func (rt *Router) mountSite(r chi.Router, site *content.Site) {
	h := handlers.NewSiteHandler(site, rt.cfg.Site.URL)
	r.Route("/site", func(r chi.Router) {
		r.Get("/business", h.Business)
		r.Get("/services", h.Services)
		r.Get("/services/{slug}", h.Service)
		r.Get("/areas", h.Areas)
		r.Get("/areas/{slug}", h.Area)
		r.Get("/locations", h.Locations)
		r.Get("/faqs", h.FAQs)
		r.Get("/navigation", h.Navigation)
		r.Get("/assets", h.Assets)
		r.Get("/projects", h.Projects)
		r.Get("/projects/{slug}", h.Project)
		r.Get("/company", h.Company)
		r.Get("/branding", h.Branding)
		r.Get("/sitemap", h.Sitemap)
	})
}

func (rt *Router) loginFlow(members *membership.Service, regSvc *registration.Service) *adminlogin.Flow {
	var (
		bypass    adminlogin.Bypass
		registrar adminlogin.Registrar
	)
	if rt.cfg.Tenant.EdgeURL != "" {
		bypass = adminlogin.NewBypassClient(rt.cfg.Tenant.EdgeURL)
		registrar = adminlogin.NewHTTPRegistrar(rt.cfg.Tenant.EdgeURL)
	} else {
		registrar = adminlogin.NewLocalRegistrar(rt.jwt, regSvc)
	}

	return adminlogin.NewFlow(
		adminlogin.NewGoTrueClient(rt.cfg.Auth.SupabaseURL, rt.cfg.Auth.AnonKey),
		bypass,
		registrar,
		members,
		adminlogin.Config{
			TenantID:          rt.tenantID,
			SystemOwnerPhones: rt.cfg.Tenant.SystemOwnerPhones,
			DevBypass:         rt.cfg.Tenant.DevBypass,
			DevPhone:          rt.cfg.Tenant.DevPhone,
			DevEmail:          rt.cfg.Tenant.DevEmail,
			DevPassword:       rt.cfg.Tenant.DevPassword,
		},
	)
}

func (rt *Router) resolver() middleware.TenantResolver {
	if rt.deps.DB == nil {
		return nil
	}
	var c tenant.Cacher
	if rt.deps.Cache != nil {
		c = rt.deps.Cache
	}
	return tenant.NewResolver(tenant.NewPostgresStore(rt.deps.DB), c, rt.cfg.Tenant.CacheTTL)
}

func (rt *Router) enqueuer() feedback.Enqueuer {
	if rt.deps.Queue == nil {
		return nil
	}
	return rt.deps.Queue
}

func (rt *Router) portalURL() string {
	if rt.cfg.Site.PortalURL != "" {
		return rt.cfg.Site.PortalURL
	}
	return rt.cfg.Site.URL
}

