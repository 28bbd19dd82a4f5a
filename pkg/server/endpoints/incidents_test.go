package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server/store"
)

const testIncidentID = "77777777-7777-7777-7777-777777777777"

func TestCreateIncident(t *testing.T) {
	t.Run("defaults severity and status", func(t *testing.T) {
		incidentsStore := NewMockIncidentsStore()
		incidentsStore.On("CreateIncident", mock.MatchedBy(func(in *model.Incident) bool {
			return in.Title == "Degraded hosting provider" &&
				in.Severity == model.IncidentSeverityMinor &&
				in.Status == model.IncidentStatusOpen &&
				in.ReportedBy == testUserID &&
				!in.OccurredAt.IsZero()
		})).Return(nil)

		handler := handleCreateIncident(incidentsStore, testConfig())

		req := authedRequest("POST", "/api/incidents", `{"title":"Degraded hosting provider"}`, testUserID, testOrgID, model.UserRoleMember)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		incidentsStore.AssertExpectations(t)
	})

	t.Run("unknown severity is rejected", func(t *testing.T) {
		handler := handleCreateIncident(NewMockIncidentsStore(), testConfig())

		req := authedRequest("POST", "/api/incidents", `{"title":"x","severity":"catastrophic"}`, testUserID, testOrgID, model.UserRoleMember)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateIncident(t *testing.T) {
	t.Run("resolving stamps the resolution time", func(t *testing.T) {
		incidentsStore := NewMockIncidentsStore()
		incidentsStore.On("UpdateIncident", testOrgID, testIncidentID, mock.MatchedBy(func(updates map[string]any) bool {
			_, hasResolvedAt := updates["resolved_at"]
			return updates["status"] == model.IncidentStatusResolved && hasResolvedAt
		})).Return(&model.Incident{
			ID:             testIncidentID,
			OrganizationID: testOrgID,
			Title:          "Degraded hosting provider",
			Severity:       model.IncidentSeverityMajor,
			Status:         model.IncidentStatusResolved,
		}, nil)

		handler := handleUpdateIncident(incidentsStore, testConfig())

		req := authedRequest("PATCH", "/api/incidents/"+testIncidentID, `{"status":"resolved"}`, testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testIncidentID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp IncidentResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.IncidentStatusResolved, resp.Status)
	})

	t.Run("missing incident is 404", func(t *testing.T) {
		incidentsStore := NewMockIncidentsStore()
		incidentsStore.On("UpdateIncident", testOrgID, testIncidentID, mock.Anything).
			Return(nil, store.ErrIncidentNotFound)

		handler := handleUpdateIncident(incidentsStore, testConfig())

		req := authedRequest("PATCH", "/api/incidents/"+testIncidentID, `{"severity":"critical"}`, testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testIncidentID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteIncident(t *testing.T) {
	t.Run("members cannot delete", func(t *testing.T) {
		incidentsStore := NewMockIncidentsStore()

		handler := handleDeleteIncident(incidentsStore, testConfig())

		req := authedRequest("DELETE", "/api/incidents/"+testIncidentID, "", testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testIncidentID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		incidentsStore.AssertNotCalled(t, "DeleteIncident")
	})

	t.Run("admins can delete", func(t *testing.T) {
		incidentsStore := NewMockIncidentsStore()
		incidentsStore.On("DeleteIncident", testOrgID, testIncidentID).Return(nil)

		handler := handleDeleteIncident(incidentsStore, testConfig())

		req := authedRequest("DELETE", "/api/incidents/"+testIncidentID, "", testUserID, testOrgID, model.UserRoleAdmin)
		req = withMuxVars(req, map[string]string{"id": testIncidentID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
