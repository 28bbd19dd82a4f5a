package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIssueAndParseToken(t *testing.T) {
	auth := NewSessionAuthenticator([]byte("test-signing-key"), time.Hour)

	token, err := auth.IssueToken("user-1", "org-1", "admin")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want 'user-1'", claims.Subject)
	}
	if claims.OrganizationID != "org-1" {
		t.Errorf("OrganizationID = %q, want 'org-1'", claims.OrganizationID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want 'admin'", claims.Role)
	}
}

func TestParseTokenExpired(t *testing.T) {
	auth := NewSessionAuthenticator([]byte("test-signing-key"), -time.Minute)

	token, err := auth.IssueToken("user-1", "org-1", "member")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	if _, err := auth.ParseToken(token); err == nil {
		t.Error("ParseToken() expected error for expired token")
	}
}

func TestParseTokenWrongKey(t *testing.T) {
	auth := NewSessionAuthenticator([]byte("key-one"), time.Hour)
	other := NewSessionAuthenticator([]byte("key-two"), time.Hour)

	token, err := auth.IssueToken("user-1", "org-1", "member")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	if _, err := other.ParseToken(token); err == nil {
		t.Error("ParseToken() expected error for wrong signing key")
	}
}

func TestMiddleware(t *testing.T) {
	auth := NewSessionAuthenticator([]byte("test-signing-key"), time.Hour)

	var gotUserID, gotOrgID, gotRole string
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r.Context())
		gotOrgID = OrganizationID(r.Context())
		gotRole = UserRole(r.Context())
	}))

	token, err := auth.IssueToken("user-1", "org-1", "member")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	req := httptest.NewRequest("GET", "/api/vendors", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "user-1" || gotOrgID != "org-1" || gotRole != "member" {
		t.Errorf("context identity = %q/%q/%q, want user-1/org-1/member", gotUserID, gotOrgID, gotRole)
	}
}

func TestMiddlewareRejects(t *testing.T) {
	auth := NewSessionAuthenticator([]byte("test-signing-key"), time.Hour)
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Token token=\"abc\""},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/vendors", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}
