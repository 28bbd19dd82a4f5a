package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/doracomply/doracomply/pkg/audit"
	"github.com/doracomply/doracomply/pkg/config"
	"github.com/doracomply/doracomply/pkg/server"
	"github.com/doracomply/doracomply/pkg/server/middleware"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// LoginRequest is the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the successful login response
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserInfo  `json:"user"`
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	Role           string `json:"role"`
	OrganizationID string `json:"organizationId"`
}

// RegisterAuthenticateEndpoint registers the login endpoint
func RegisterAuthenticateEndpoint(s *server.Server) {
	s.Router.HandleFunc("/authn/login", handleLogin(s.UsersStore, s.Session, s.Config)).Methods("POST")
}

func handleLogin(usersStore store.UsersStore, session *middleware.SessionAuthenticator, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			respondWithError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		ip := clientIP(r, cfg)

		user, err := usersStore.GetUserByEmail(req.Email)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				// Burn a comparison so missing users cost the same as bad passwords
				_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000000000000000000000000000000000"), []byte(req.Password))
				audit.Log(audit.AuthenticateEvent{UserEmail: req.Email, ClientIP: ip, ErrorMessage: "unknown user"})
				respondWithError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "authentication failed")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
			audit.Log(audit.AuthenticateEvent{UserEmail: req.Email, ClientIP: ip, ErrorMessage: "invalid password"})
			respondWithError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := session.IssueToken(user.ID, user.OrganizationID, user.Role)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}

		audit.Log(audit.AuthenticateEvent{UserEmail: req.Email, ClientIP: ip, Success: true})
		respondWithJSON(w, http.StatusOK, LoginResponse{
			Token:     token,
			ExpiresAt: time.Now().UTC().Add(session.TTL()),
			User: UserInfo{
				ID:             user.ID,
				Email:          user.Email,
				DisplayName:    user.DisplayName,
				Role:           user.Role,
				OrganizationID: user.OrganizationID,
			},
		})
	}
}
