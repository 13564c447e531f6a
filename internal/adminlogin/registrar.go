package adminlogin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fastfixai/tenantsite/internal/auth"
	"github.com/fastfixai/tenantsite/internal/registration"
)

// Registrar records the verified caller as a tenant member.
type Registrar interface {
	Register(ctx context.Context, accessToken string, req registration.Request) (*registration.Result, error)
}

// HTTPRegistrar calls a remote register-tenant-user endpoint.
type HTTPRegistrar struct {
	url        string
	httpClient *http.Client
}

func NewHTTPRegistrar(edgeURL string) *HTTPRegistrar {
	return &HTTPRegistrar{
		url:        strings.TrimRight(edgeURL, "/") + "/register-tenant-user",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *HTTPRegistrar) Register(ctx context.Context, accessToken string, in registration.Request) (*registration.Result, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal registration: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registration request: %w", err)
	}
	defer resp.Body.Close()

	// The body is read once; it may not be JSON at all.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read registration response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = "Failed to register user"
		}
		return nil, errors.New(e.Error)
	}

	var out registration.Result
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode registration response: %w", err)
	}
	return &out, nil
}

// LocalRegistrar runs registration in-process, verifying the token the same
// way the HTTP endpoint would.
type LocalRegistrar struct {
	verifier *auth.JWTMiddleware
	service  *registration.Service
}

func NewLocalRegistrar(verifier *auth.JWTMiddleware, service *registration.Service) *LocalRegistrar {
	return &LocalRegistrar{verifier: verifier, service: service}
}

func (r *LocalRegistrar) Register(ctx context.Context, accessToken string, req registration.Request) (*registration.Result, error) {
	caller, err := r.verifier.Verify(accessToken)
	if err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}
	return r.service.Register(ctx, caller, req)
}
