package adminlogin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID              `json:"id"`
	Phone        string                 `json:"phone,omitempty"`
	Email        string                 `json:"email,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// DisplayName returns the metadata name, falling back to full_name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if v, ok := u.UserMetadata["name"].(string); ok && v != "" {
		return v
	}
	v, _ := u.UserMetadata["full_name"].(string)
	return v
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// IdentityProvider is the phone/password authentication backend.
type IdentityProvider interface {
	SendOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
}

// IdentityError is a non-2xx answer from the identity provider.
type IdentityError struct {
	StatusCode int
	Message    string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("identity provider (%d): %s", e.StatusCode, e.Message)
}

// GoTrueClient talks to the Supabase auth REST API.
type GoTrueClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGoTrueClient(supabaseURL, anonKey string) *GoTrueClient {
	return &GoTrueClient{
		baseURL:    strings.TrimRight(supabaseURL, "/") + "/auth/v1",
		apiKey:     anonKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *GoTrueClient) SendOTP(ctx context.Context, phone string) error {
	return c.do(ctx, "/otp", "", map[string]interface{}{"phone": phone, "create_user": true}, nil)
}

func (c *GoTrueClient) VerifyOTP(ctx context.Context, phone, code string) (*Session, error) {
	var s Session
	if err := c.do(ctx, "/verify", "", map[string]string{"type": "sms", "phone": phone, "token": code}, &s); err != nil {
		return nil, err
	}
	if s.AccessToken == "" || s.User == nil {
		return nil, &IdentityError{StatusCode: http.StatusUnauthorized, Message: "verification returned no session"}
	}
	return &s, nil
}

func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, "/logout", accessToken, nil, nil)
}

func (c *GoTrueClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	if err := c.do(ctx, "/token?grant_type=password", "", map[string]string{"email": email, "password": password}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SignUp creates a password user. With email confirmation disabled the
// response carries a session; otherwise only the user is set.
func (c *GoTrueClient) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var raw struct {
		Session
		ID uuid.UUID `json:"id"`
	}
	if err := c.do(ctx, "/signup", "", map[string]string{"email": email, "password": password}, &raw); err != nil {
		return nil, err
	}
	s := raw.Session
	if s.User == nil && raw.ID != uuid.Nil {
		s.User = &User{ID: raw.ID, Email: email}
	}
	return &s, nil
}

func (c *GoTrueClient) do(ctx context.Context, path, bearer string, body, dest interface{}) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity request %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &IdentityError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}
	if dest == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var e struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal(body, &e) == nil {
		for _, m := range []string{e.Msg, e.ErrorDescription, e.Message, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	return strings.TrimSpace(string(body))
}
