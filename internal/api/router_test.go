package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastfixai/tenantsite/internal/config"
	"github.com/fastfixai/tenantsite/internal/content"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RateLimit: 100, RateBurst: 100, CORSOrigin: "*"},
		Auth:   config.AuthConfig{JWTSecret: "secret"},
		Tenant: config.TenantConfig{ID: "7f0c1c1e-4d7a-4c53-9d55-2b7f5b0c3a11"},
		LLM:    config.LLMConfig{Provider: "gateway"},
		Site:   config.SiteConfig{URL: "https://roof.test"},
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	site, err := content.Load("../content/testdata")
	require.NoError(t, err)
	rt, err := NewRouter(testConfig(), Deps{Site: site})
	require.NoError(t, err)
	srv := httptest.NewServer(rt.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func TestNewRouterRejectsBadTenantID(t *testing.T) {
	cfg := testConfig()
	cfg.Tenant.ID = "acme"
	_, err := NewRouter(cfg, Deps{})
	require.Error(t, err)
}

func TestRoutesWithoutDatabase(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodOptions, "/functions/v1/register-tenant-user", "", http.StatusOK},
		{http.MethodPost, "/functions/v1/register-tenant-user", "{}", http.StatusUnauthorized},
		{http.MethodPost, "/functions/v1/create-change-order-checkout", `{"changeOrderId":"co","amount":5}`, http.StatusInternalServerError},
		{http.MethodPost, "/functions/v1/parse-estimate-pdf", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/functions/v1/parse-purchase-order-pdf", `{"pdfText":"x"}`, http.StatusInternalServerError},
		{http.MethodPost, "/functions/v1/notify-change-order-approval", `{}`, http.StatusInternalServerError},
		{http.MethodPost, "/functions/v1/client-portal-acknowledge-alert", `{}`, http.StatusInternalServerError},
		{http.MethodGet, "/api/v1/site/services/gutters", "", http.StatusOK},
		{http.MethodGet, "/api/v1/site/company", "", http.StatusOK},
		{http.MethodGet, "/api/v1/admin/members/pending", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/admin/session", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/feedback", `{"message":"hi"}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}
