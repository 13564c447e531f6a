package adminlogin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNoSession means the bypass accepted the caller but issued no tokens, so
// standard verification must follow.
var ErrNoSession = errors.New("bypass issued no session")

// Bypass authenticates system-owner phones without the identity provider's OTP.
type Bypass interface {
	Authenticate(ctx context.Context, phone, code string) (*Session, error)
}

type BypassClient struct {
	url        string
	httpClient *http.Client
}

func NewBypassClient(edgeURL string) *BypassClient {
	return &BypassClient{
		url:        strings.TrimRight(edgeURL, "/") + "/system-owner-auth",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type bypassResponse struct {
	Success   bool     `json:"success"`
	Bypass    bool     `json:"bypass"`
	NoSession bool     `json:"noSession"`
	Session   *Session `json:"session"`
}

func (c *BypassClient) Authenticate(ctx context.Context, phone, code string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"phone": phone, "code": code})
	if err != nil {
		return nil, fmt.Errorf("marshal bypass request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create bypass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bypass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bypass rejected (%d)", resp.StatusCode)
	}

	var out bypassResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode bypass response: %w", err)
	}
	if !out.Success || !out.Bypass {
		return nil, errors.New("bypass declined")
	}
	if out.Session != nil && out.Session.AccessToken != "" && out.Session.RefreshToken != "" {
		return out.Session, nil
	}
	if out.NoSession {
		return nil, ErrNoSession
	}
	return nil, errors.New("bypass response missing session")
}
