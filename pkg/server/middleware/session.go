// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// Context keys for the authenticated session.
const (
	UserIDKey         contextKey = "userID"
	OrganizationIDKey contextKey = "organizationID"
	UserRoleKey       contextKey = "userRole"
)

// SessionClaims are the JWT claims carried by a session token.
type SessionClaims struct {
	OrganizationID string `json:"org"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

// SessionAuthenticator issues and validates HS256 session tokens.
type SessionAuthenticator struct {
	signingKey []byte
	ttl        time.Duration
}

// NewSessionAuthenticator creates a session authenticator. The signing
// key is the server data key; tokens expire after ttl.
func NewSessionAuthenticator(signingKey []byte, ttl time.Duration) *SessionAuthenticator {
	return &SessionAuthenticator{signingKey: signingKey, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (a *SessionAuthenticator) TTL() time.Duration {
	return a.ttl
}

// IssueToken creates a signed session token for a user.
func (a *SessionAuthenticator) IssueToken(userID, organizationID, role string) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		OrganizationID: organizationID,
		Role:           role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.signingKey)
}

// ParseToken validates a session token and returns its claims.
func (a *SessionAuthenticator) ParseToken(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// Middleware returns an HTTP middleware that validates bearer tokens
// and puts the session identity on the request context.
func (a *SessionAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Authorization missing"))
			return
		}

		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenStr == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Malformed authorization header"))
			return
		}

		claims, err := a.ParseToken(tokenStr)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid or expired token"))
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, UserIDKey, claims.Subject)
		ctx = context.WithValue(ctx, OrganizationIDKey, claims.OrganizationID)
		ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID extracts the authenticated user ID from a request context.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// OrganizationID extracts the organization ID from a request context.
func OrganizationID(ctx context.Context) string {
	id, _ := ctx.Value(OrganizationIDKey).(string)
	return id
}

// UserRole extracts the user role from a request context.
func UserRole(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}
