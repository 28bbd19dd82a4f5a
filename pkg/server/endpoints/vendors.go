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

// VendorRequest carries the mutable vendor attributes
type VendorRequest struct {
	Name         *string `json:"name"`
	Website      *string `json:"website"`
	ContactEmail *string `json:"contactEmail"`
	ServiceType  *string `json:"serviceType"`
	RiskTier     *string `json:"riskTier"`
	Status       *string `json:"status"`
	Notes        *string `json:"notes"`
}

// VendorResponse is the public view of a vendor
type VendorResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Website      string    `json:"website,omitempty"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	ServiceType  string    `json:"serviceType,omitempty"`
	RiskTier     string    `json:"riskTier"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AssessmentResponse is the public view of a vendor assessment
type AssessmentResponse struct {
	ID           string      `json:"id"`
	VendorID     string      `json:"vendorId"`
	DocumentID   string      `json:"documentId,omitempty"`
	OverallScore float64     `json:"overallScore"`
	Summary      model.JSONB `json:"summary"`
	AssessedAt   time.Time   `json:"assessedAt"`
}

func vendorResponse(v *model.Vendor) VendorResponse {
	return VendorResponse{
		ID:           v.ID,
		Name:         v.Name,
		Website:      v.Website,
		ContactEmail: v.ContactEmail,
		ServiceType:  v.ServiceType,
		RiskTier:     v.RiskTier,
		Status:       v.Status,
		Notes:        v.Notes,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func validVendorRiskTier(tier string) bool {
	switch tier {
	case model.VendorTierCritical, model.VendorTierHigh, model.VendorTierMedium, model.VendorTierLow:
		return true
	}
	return false
}

func validVendorStatus(status string) bool {
	switch status {
	case model.VendorStatusActive, model.VendorStatusUnderReview, model.VendorStatusOffboarded:
		return true
	}
	return false
}

// RegisterVendorsEndpoints registers the vendor registry endpoints
func RegisterVendorsEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api/vendors").Subrouter()
	r.Use(s.Session.Middleware)

	r.HandleFunc("", handleListVendors(s.VendorsStore, s.Config)).Methods("GET")
	r.HandleFunc("", handleCreateVendor(s.VendorsStore, s.Config)).Methods("POST")
	r.HandleFunc("/{id}", handleGetVendor(s.VendorsStore)).Methods("GET")
	r.HandleFunc("/{id}", handleUpdateVendor(s.VendorsStore, s.Config)).Methods("PATCH")
	r.HandleFunc("/{id}", handleDeleteVendor(s.VendorsStore, s.Config)).Methods("DELETE")
	r.HandleFunc("/{id}/assessments", handleListAssessments(s.VendorsStore)).Methods("GET")
}

func handleListVendors(vendorsStore store.VendorsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		limit, offset := listParams(r, cfg)

		filter := store.VendorFilter{
			Search:   r.URL.Query().Get("search"),
			RiskTier: r.URL.Query().Get("risk_tier"),
			Status:   r.URL.Query().Get("status"),
			Limit:    limit,
			Offset:   offset,
		}

		if r.URL.Query().Get("count") == "true" {
			count, err := vendorsStore.CountVendors(orgID, filter)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to count vendors")
				return
			}
			respondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
			return
		}

		vendors, err := vendorsStore.ListVendors(orgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list vendors")
			return
		}

		responses := make([]VendorResponse, 0, len(vendors))
		for i := range vendors {
			responses = append(responses, vendorResponse(&vendors[i]))
		}
		respondWithJSON(w, http.StatusOK, responses)
	}
}

func handleCreateVendor(vendorsStore store.VendorsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)

		var req VendorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		if req.Name == nil || *req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "name is required")
			return
		}

		vendor := model.Vendor{
			OrganizationID: orgID,
			Name:           *req.Name,
			RiskTier:       model.VendorTierMedium,
			Status:         model.VendorStatusActive,
		}
		if req.Website != nil {
			vendor.Website = *req.Website
		}
		if req.ContactEmail != nil {
			vendor.ContactEmail = *req.ContactEmail
		}
		if req.ServiceType != nil {
			vendor.ServiceType = *req.ServiceType
		}
		if req.Notes != nil {
			vendor.Notes = *req.Notes
		}
		if req.RiskTier != nil {
			if !validVendorRiskTier(*req.RiskTier) {
				respondWithError(w, http.StatusBadRequest, "unknown risk tier")
				return
			}
			vendor.RiskTier = *req.RiskTier
		}
		if req.Status != nil {
			if !validVendorStatus(*req.Status) {
				respondWithError(w, http.StatusBadRequest, "unknown vendor status")
				return
			}
			vendor.Status = *req.Status
		}

		if err := vendorsStore.CreateVendor(&vendor); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to create vendor")
			return
		}

		audit.Log(audit.ResourceEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			Kind:       "vendor",
			ResourceID: vendor.ID,
			Operation:  "create",
			Success:    true,
		})
		respondWithJSON(w, http.StatusCreated, vendorResponse(&vendor))
	}
}

func handleGetVendor(vendorsStore store.VendorsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		id := mux.Vars(r)["id"]

		vendor, err := vendorsStore.GetVendor(orgID, id)
		if err != nil {
			if errors.Is(err, store.ErrVendorNotFound) {
				respondWithError(w, http.StatusNotFound, "vendor not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		respondWithJSON(w, http.StatusOK, vendorResponse(vendor))
	}
}

func handleUpdateVendor(vendorsStore store.VendorsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		var req VendorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}

		updates := map[string]any{}
		if req.Name != nil {
			if *req.Name == "" {
				respondWithError(w, http.StatusBadRequest, "name cannot be empty")
				return
			}
			updates["name"] = *req.Name
		}
		if req.Website != nil {
			updates["website"] = *req.Website
		}
		if req.ContactEmail != nil {
			updates["contact_email"] = *req.ContactEmail
		}
		if req.ServiceType != nil {
			updates["service_type"] = *req.ServiceType
		}
		if req.Notes != nil {
			updates["notes"] = *req.Notes
		}
		if req.RiskTier != nil {
			if !validVendorRiskTier(*req.RiskTier) {
				respondWithError(w, http.StatusBadRequest, "unknown risk tier")
				return
			}
			updates["risk_tier"] = *req.RiskTier
		}
		if req.Status != nil {
			if !validVendorStatus(*req.Status) {
				respondWithError(w, http.StatusBadRequest, "unknown vendor status")
				return
			}
			updates["status"] = *req.Status
		}
		if len(updates) == 0 {
			respondWithError(w, http.StatusBadRequest, "no updates provided")
			return
		}

		vendor, err := vendorsStore.UpdateVendor(orgID, id, updates)
		if err != nil {
			if errors.Is(err, store.ErrVendorNotFound) {
				respondWithError(w, http.StatusNotFound, "vendor not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "update failed")
			return
		}

		audit.Log(audit.ResourceEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			Kind:       "vendor",
			ResourceID: vendor.ID,
			Operation:  "update",
			Success:    true,
		})
		respondWithJSON(w, http.StatusOK, vendorResponse(vendor))
	}
}

func handleDeleteVendor(vendorsStore store.VendorsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		if middleware.UserRole(ctx) != model.UserRoleAdmin {
			respondWithError(w, http.StatusForbidden, "admin role required")
			return
		}

		if err := vendorsStore.DeleteVendor(orgID, id); err != nil {
			if errors.Is(err, store.ErrVendorNotFound) {
				respondWithError(w, http.StatusNotFound, "vendor not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "delete failed")
			return
		}

		audit.Log(audit.ResourceEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			Kind:       "vendor",
			ResourceID: id,
			Operation:  "delete",
			Success:    true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleListAssessments(vendorsStore store.VendorsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		id := mux.Vars(r)["id"]

		assessments, err := vendorsStore.ListAssessments(orgID, id)
		if err != nil {
			if errors.Is(err, store.ErrVendorNotFound) {
				respondWithError(w, http.StatusNotFound, "vendor not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		responses := make([]AssessmentResponse, 0, len(assessments))
		for i := range assessments {
			a := &assessments[i]
			responses = append(responses, AssessmentResponse{
				ID:           a.ID,
				VendorID:     a.VendorID,
				DocumentID:   a.DocumentID,
				OverallScore: a.OverallScore,
				Summary:      a.Summary,
				AssessedAt:   a.AssessedAt,
			})
		}
		respondWithJSON(w, http.StatusOK, responses)
	}
}
