package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/doracomply/doracomply/pkg/audit"
	"github.com/doracomply/doracomply/pkg/config"
	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server"
	"github.com/doracomply/doracomply/pkg/server/middleware"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// IncidentRequest carries the mutable incident attributes
type IncidentRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Severity    *string    `json:"severity"`
	Status      *string    `json:"status"`
	VendorID    *string    `json:"vendorId"`
	OccurredAt  *time.Time `json:"occurredAt"`
	ResolvedAt  *time.Time `json:"resolvedAt"`
}

// IncidentResponse is the public view of an incident
type IncidentResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Severity    string     `json:"severity"`
	Status      string     `json:"status"`
	VendorID    *string    `json:"vendorId,omitempty"`
	OccurredAt  time.Time  `json:"occurredAt"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func incidentResponse(in *model.Incident) IncidentResponse {
	return IncidentResponse{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Severity:    in.Severity,
		Status:      in.Status,
		VendorID:    in.VendorID,
		OccurredAt:  in.OccurredAt,
		ResolvedAt:  in.ResolvedAt,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}

func validIncidentSeverity(severity string) bool {
	switch severity {
	case model.IncidentSeverityCritical, model.IncidentSeverityMajor, model.IncidentSeverityMinor:
		return true
	}
	return false
}

func validIncidentStatus(status string) bool {
	switch status {
	case model.IncidentStatusOpen, model.IncidentStatusInvestigating, model.IncidentStatusResolved, model.IncidentStatusReported:
		return true
	}
	return false
}

// RegisterIncidentsEndpoints registers the incident tracking endpoints
func RegisterIncidentsEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api/incidents").Subrouter()
	r.Use(s.Session.Middleware)

	r.HandleFunc("", handleListIncidents(s.IncidentsStore, s.Config)).Methods("GET")
	r.HandleFunc("", handleCreateIncident(s.IncidentsStore, s.Config)).Methods("POST")
	r.HandleFunc("/{id}", handleGetIncident(s.IncidentsStore)).Methods("GET")
	r.HandleFunc("/{id}", handleUpdateIncident(s.IncidentsStore, s.Config)).Methods("PATCH")
	r.HandleFunc("/{id}", handleDeleteIncident(s.IncidentsStore, s.Config)).Methods("DELETE")
}

func handleListIncidents(incidentsStore store.IncidentsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		limit, offset := listParams(r, cfg)

		filter := store.IncidentFilter{
			Severity: r.URL.Query().Get("severity"),
			Status:   r.URL.Query().Get("status"),
			VendorID: r.URL.Query().Get("vendor_id"),
			Limit:    limit,
			Offset:   offset,
		}

		if r.URL.Query().Get("count") == "true" {
			count, err := incidentsStore.CountIncidents(orgID, filter)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to count incidents")
				return
			}
			respondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
			return
		}

		incidents, err := incidentsStore.ListIncidents(orgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list incidents")
			return
		}

		responses := make([]IncidentResponse, 0, len(incidents))
		for i := range incidents {
			responses = append(responses, incidentResponse(&incidents[i]))
		}
		respondWithJSON(w, http.StatusOK, responses)
	}
}

func handleCreateIncident(incidentsStore store.IncidentsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)

		var req IncidentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		if req.Title == nil || *req.Title == "" {
			respondWithError(w, http.StatusBadRequest, "title is required")
			return
		}

		incident := model.Incident{
			OrganizationID: orgID,
			Title:          *req.Title,
			Severity:       model.IncidentSeverityMinor,
			Status:         model.IncidentStatusOpen,
			VendorID:       req.VendorID,
			OccurredAt:     time.Now().UTC(),
			ReportedBy:     userID,
		}
		if req.Description != nil {
			incident.Description = *req.Description
		}
		if req.OccurredAt != nil {
			incident.OccurredAt = *req.OccurredAt
		}
		if req.Severity != nil {
			if !validIncidentSeverity(*req.Severity) {
				respondWithError(w, http.StatusBadRequest, "unknown incident severity")
				return
			}
			incident.Severity = *req.Severity
		}
		if req.Status != nil {
			if !validIncidentStatus(*req.Status) {
				respondWithError(w, http.StatusBadRequest, "unknown incident status")
				return
			}
			incident.Status = *req.Status
		}

		if err := incidentsStore.CreateIncident(&incident); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to create incident")
			return
		}

		audit.Log(audit.ResourceEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			Kind:       "incident",
			ResourceID: incident.ID,
			Operation:  "create",
			Success:    true,
		})
		respondWithJSON(w, http.StatusCreated, incidentResponse(&incident))
	}
}

func handleGetIncident(incidentsStore store.IncidentsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		id := mux.Vars(r)["id"]

		incident, err := incidentsStore.GetIncident(orgID, id)
		if err != nil {
			if errors.Is(err, store.ErrIncidentNotFound) {
				respondWithError(w, http.StatusNotFound, "incident not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		respondWithJSON(w, http.StatusOK, incidentResponse(incident))
	}
}

func handleUpdateIncident(incidentsStore store.IncidentsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		var req IncidentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}

		updates := map[string]any{}
		if req.Title != nil {
			if *req.Title == "" {
				respondWithError(w, http.StatusBadRequest, "title cannot be empty")
				return
			}
			updates["title"] = *req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Severity != nil {
			if !validIncidentSeverity(*req.Severity) {
				respondWithError(w, http.StatusBadRequest, "unknown incident severity")
				return
			}
			updates["severity"] = *req.Severity
		}
		if req.Status != nil {
			if !validIncidentStatus(*req.Status) {
				respondWithError(w, http.StatusBadRequest, "unknown incident status")
				return
			}
			updates["status"] = *req.Status
			// Resolving an incident stamps the resolution time when the
			// caller didn't supply one.
			if *req.Status == model.IncidentStatusResolved && req.ResolvedAt == nil {
				updates["resolved_at"] = time.Now().UTC()
			}
		}
		if req.VendorID != nil {
			updates["vendor_id"] = *req.VendorID
		}
		if req.OccurredAt != nil {
			updates["occurred_at"] = *req.OccurredAt
		}
		if req.ResolvedAt != nil {
			updates["resolved_at"] = *req.ResolvedAt
		}
		if len(updates) == 0 {
			respondWithError(w, http.StatusBadRequest, "no updates provided")
			return
		}

		incident, err := incidentsStore.UpdateIncident(orgID, id, updates)
		if err != nil {
			if errors.Is(err, store.ErrIncidentNotFound) {
				respondWithError(w, http.StatusNotFound, "incident not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "update failed")
			return
		}

		audit.Log(audit.ResourceEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			Kind:       "incident",
			ResourceID: incident.ID,
			Operation:  "update",
			Success:    true,
		})
		respondWithJSON(w, http.StatusOK, incidentResponse(incident))
	}
}

func handleDeleteIncident(incidentsStore store.IncidentsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		if middleware.UserRole(ctx) != model.UserRoleAdmin {
			respondWithError(w, http.StatusForbidden, "admin role required")
			return
		}

		if err := incidentsStore.DeleteIncident(orgID, id); err != nil {
			if errors.Is(err, store.ErrIncidentNotFound) {
				respondWithError(w, http.StatusNotFound, "incident not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "delete failed")
			return
		}

		audit.Log(audit.ResourceEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			Kind:       "incident",
			ResourceID: id,
			Operation:  "delete",
			Success:    true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
