package endpoints

import (
	"errors"
	"net/http"

	"github.com/doracomply/doracomply/pkg/audit"
	"github.com/doracomply/doracomply/pkg/config"
	"github.com/doracomply/doracomply/pkg/server"
	"github.com/doracomply/doracomply/pkg/server/middleware"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// RegisterWhoamiEndpoint registers the identity endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	s.Router.Handle("/whoami", s.Session.Middleware(handleWhoami(s.UsersStore, s.Config))).Methods("GET")
}

func handleWhoami(usersStore store.UsersStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())

		user, err := usersStore.GetUser(userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				respondWithError(w, http.StatusUnauthorized, "unknown user")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		audit.Log(audit.WhoamiEvent{UserID: userID, ClientIP: clientIP(r, cfg), Success: true})
		respondWithJSON(w, http.StatusOK, UserInfo{
			ID:             user.ID,
			Email:          user.Email,
			DisplayName:    user.DisplayName,
			Role:           user.Role,
			OrganizationID: user.OrganizationID,
		})
	}
}
