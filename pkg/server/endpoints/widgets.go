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
	"github.com/doracomply/doracomply/pkg/scoring"
	"github.com/doracomply/doracomply/pkg/server"
	"github.com/doracomply/doracomply/pkg/server/middleware"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// Widget types with a data provider.
const (
	WidgetComplianceOverview = "compliance_overview"
	WidgetFrameworkScores    = "framework_scores"
	WidgetOpenTasks          = "open_tasks"
	WidgetVendorRisk         = "vendor_risk"
	WidgetRecentIncidents    = "recent_incidents"
	WidgetDocumentPipeline   = "document_pipeline"
)

// widgetProvider computes the data payload for one widget type.
type widgetProvider func(orgID string) (any, error)

// A widget keeps its latest compliance scores over this many documents.
const complianceOverviewLimit = 5

// WidgetRequest carries the mutable widget attributes
type WidgetRequest struct {
	Type     *string          `json:"type"`
	Title    *string          `json:"title"`
	Position *int             `json:"position"`
	Config   *json.RawMessage `json:"config"`
}

// WidgetResponse is the public view of a dashboard widget
type WidgetResponse struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Title     string      `json:"title,omitempty"`
	Position  int         `json:"position"`
	Config    model.JSONB `json:"config,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func widgetResponse(wd *model.DashboardWidget) WidgetResponse {
	return WidgetResponse{
		ID:        wd.ID,
		Type:      wd.Type,
		Title:     wd.Title,
		Position:  wd.Position,
		Config:    wd.Config,
		CreatedAt: wd.CreatedAt,
		UpdatedAt: wd.UpdatedAt,
	}
}

func validWidgetType(widgetType string) bool {
	switch widgetType {
	case WidgetComplianceOverview, WidgetFrameworkScores, WidgetOpenTasks,
		WidgetVendorRisk, WidgetRecentIncidents, WidgetDocumentPipeline:
		return true
	}
	return false
}

// RegisterWidgetsEndpoints registers the dashboard widget endpoints
func RegisterWidgetsEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api/dashboard/widgets").Subrouter()
	r.Use(s.Session.Middleware)

	providers := widgetProviders(s)

	r.HandleFunc("", handleListWidgets(s.WidgetsStore)).Methods("GET")
	r.HandleFunc("", handleCreateWidget(s.WidgetsStore, s.Config)).Methods("POST")
	r.HandleFunc("/{type}/data", handleWidgetData(providers)).Methods("GET")
	r.HandleFunc("/{id}", handleGetWidget(s.WidgetsStore)).Methods("GET")
	r.HandleFunc("/{id}", handleUpdateWidget(s.WidgetsStore, s.Config)).Methods("PATCH")
	r.HandleFunc("/{id}", handleDeleteWidget(s.WidgetsStore, s.Config)).Methods("DELETE")
}

func widgetProviders(s *server.Server) map[string]widgetProvider {
	return map[string]widgetProvider{
		WidgetComplianceOverview: func(orgID string) (any, error) {
			return s.DashboardStore.ComplianceSummary(orgID, complianceOverviewLimit)
		},
		WidgetFrameworkScores: func(orgID string) (any, error) {
			return frameworkScoresData(s.AnalysesStore, s.Registry, s.Config, orgID)
		},
		WidgetOpenTasks: func(orgID string) (any, error) {
			return s.DashboardStore.TaskSummary(orgID)
		},
		WidgetVendorRisk: func(orgID string) (any, error) {
			return s.DashboardStore.VendorSummary(orgID)
		},
		WidgetRecentIncidents: func(orgID string) (any, error) {
			return s.DashboardStore.IncidentSummary(orgID)
		},
		WidgetDocumentPipeline: func(orgID string) (any, error) {
			return s.DashboardStore.DocumentSummary(orgID)
		},
	}
}

// frameworkScoresData scores the organization's most recent analysis against
// every enabled framework. An organization with no analyzed documents gets an
// empty score list rather than an error.
func frameworkScoresData(analysesStore store.AnalysesStore, registry *scoring.Registry, cfg *config.Config, orgID string) (any, error) {
	parsed, err := analysesStore.GetLatestAnalysis(orgID)
	if err != nil {
		if errors.Is(err, store.ErrAnalysisNotFound) {
			return []scoring.FrameworkScore{}, nil
		}
		return nil, err
	}

	var controls []scoring.Control
	if len(parsed.Controls) > 0 {
		if err := json.Unmarshal(parsed.Controls, &controls); err != nil {
			return nil, err
		}
	}

	scores := registry.ScoreAll(controls)
	enabled := make([]scoring.FrameworkScore, 0, len(scores))
	for _, score := range scores {
		if cfg.IsFrameworkEnabled(score.FrameworkID) {
			enabled = append(enabled, score)
		}
	}
	return enabled, nil
}

func handleWidgetData(providers map[string]widgetProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		widgetType := mux.Vars(r)["type"]

		provider, ok := providers[widgetType]
		if !ok {
			respondWithError(w, http.StatusNotFound, "unknown widget type")
			return
		}

		data, err := provider(orgID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to compute widget data")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]any{
			"type": widgetType,
			"data": data,
		})
	}
}

func handleListWidgets(widgetsStore store.WidgetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)

		widgets, err := widgetsStore.ListWidgets(orgID, userID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list widgets")
			return
		}

		responses := make([]WidgetResponse, 0, len(widgets))
		for i := range widgets {
			responses = append(responses, widgetResponse(&widgets[i]))
		}
		respondWithJSON(w, http.StatusOK, responses)
	}
}

func handleCreateWidget(widgetsStore store.WidgetsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)

		var req WidgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		if req.Type == nil || !validWidgetType(*req.Type) {
			respondWithError(w, http.StatusBadRequest, "unknown widget type")
			return
		}

		widget := model.DashboardWidget{
			OrganizationID: orgID,
			UserID:         userID,
			Type:           *req.Type,
		}
		if req.Title != nil {
			widget.Title = *req.Title
		}
		if req.Position != nil {
			widget.Position = *req.Position
		}
		if req.Config != nil {
			widget.Config = model.JSONB(*req.Config)
		}

		if err := widgetsStore.CreateWidget(&widget); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to create widget")
			return
		}

		audit.Log(audit.ResourceEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			Kind:       "widget",
			ResourceID: widget.ID,
			Operation:  "create",
			Success:    true,
		})
		respondWithJSON(w, http.StatusCreated, widgetResponse(&widget))
	}
}

func handleGetWidget(widgetsStore store.WidgetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		widget, err := widgetsStore.GetWidget(orgID, userID, id)
		if err != nil {
			if errors.Is(err, store.ErrWidgetNotFound) {
				respondWithError(w, http.StatusNotFound, "widget not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		respondWithJSON(w, http.StatusOK, widgetResponse(widget))
	}
}

func handleUpdateWidget(widgetsStore store.WidgetsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		var req WidgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}

		updates := map[string]any{}
		if req.Type != nil {
			if !validWidgetType(*req.Type) {
				respondWithError(w, http.StatusBadRequest, "unknown widget type")
				return
			}
			updates["type"] = *req.Type
		}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Position != nil {
			updates["position"] = *req.Position
		}
		if req.Config != nil {
			updates["config"] = model.JSONB(*req.Config)
		}
		if len(updates) == 0 {
			respondWithError(w, http.StatusBadRequest, "no updates provided")
			return
		}

		widget, err := widgetsStore.UpdateWidget(orgID, userID, id, updates)
		if err != nil {
			if errors.Is(err, store.ErrWidgetNotFound) {
				respondWithError(w, http.StatusNotFound, "widget not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "update failed")
			return
		}

		audit.Log(audit.ResourceEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			Kind:       "widget",
			ResourceID: widget.ID,
			Operation:  "update",
			Success:    true,
		})
		respondWithJSON(w, http.StatusOK, widgetResponse(widget))
	}
}

func handleDeleteWidget(widgetsStore store.WidgetsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		if err := widgetsStore.DeleteWidget(orgID, userID, id); err != nil {
			if errors.Is(err, store.ErrWidgetNotFound) {
				respondWithError(w, http.StatusNotFound, "widget not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "delete failed")
			return
		}

		audit.Log(audit.ResourceEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			Kind:       "widget",
			ResourceID: id,
			Operation:  "delete",
			Success:    true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
