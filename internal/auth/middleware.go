package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingToken = errors.New("missing authorization header")
	ErrInvalidToken = errors.New("invalid authentication")
)

// Claims is the subset of a Supabase access token this service reads.
type Claims struct {
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone"`
	Role         string                 `json:"role"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller.
type Identity struct {
	UserID   uuid.UUID
	Email    string
	Phone    string
	Name     string
	FullName string
	Token    string
}

// DisplayName returns the first non-empty of metadata name and full_name.
func (i *Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.FullName
}

type JWTMiddleware struct {
	secret []byte
}

func NewJWTMiddleware(secret string) *JWTMiddleware {
	return &JWTMiddleware{secret: []byte(secret)}
}

// Verify parses and validates a bearer token.
func (m *JWTMiddleware) Verify(tokenStr string) (*Identity, error) {
	if tokenStr == "" {
		return nil, ErrMissingToken
	}
	if len(m.secret) == 0 {
		return nil, fmt.Errorf("%w: verifier not configured", ErrInvalidToken)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	id := &Identity{
		UserID: userID,
		Email:  claims.Email,
		Phone:  claims.Phone,
		Token:  tokenStr,
	}
	if v, ok := claims.UserMetadata["name"].(string); ok {
		id.Name = v
	}
	if v, ok := claims.UserMetadata["full_name"].(string); ok {
		id.FullName = v
	}
	return id, nil
}

// Authenticate rejects requests without a valid bearer token.
func (m *JWTMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		id, err := m.Verify(extractBearerToken(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid authentication")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Optional attaches the identity when a valid token is present and otherwise
// passes the request through unchanged.
func (m *JWTMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := m.Verify(extractBearerToken(r)); err == nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey string

const identityKey ctxKey = "identity"

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
