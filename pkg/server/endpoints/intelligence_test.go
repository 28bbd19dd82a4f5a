package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/scoring"
	"github.com/doracomply/doracomply/pkg/server/store"
)

func analyzedDocument() *model.ParsedSOC2 {
	return &model.ParsedSOC2{
		DocumentID:     testDocID,
		OrganizationID: testOrgID,
		Controls: model.JSONB(`[
			{"controlId":"CC6.1","tscCategory":"CC6","testResult":"operating_effectively"},
			{"controlId":"CC7.2","tscCategory":"CC7","testResult":"exception"}
		]`),
		ArticleScores: model.JSONB(`{
			"coverage":{"overallScore":61.1,"articlesCovered":11,"articlesTotal":18,"byArticle":{}},
			"gaps":[{"article":"Article 25","title":"Testing of ICT tools and systems","coverageLevel":"none"}]
		}`),
	}
}

func TestIntelligenceCoverage(t *testing.T) {
	analysesStore := NewMockAnalysesStore()
	analysesStore.On("GetAnalysisByDocument", testOrgID, testDocID).Return(analyzedDocument(), nil)

	handler := handleIntelligenceCoverage(analysesStore)

	req := authedRequest("GET", "/api/intelligence/"+testDocID+"/coverage", "", testUserID, testOrgID, model.UserRoleMember)
	req = withMuxVars(req, map[string]string{"id": testDocID})
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var coverage scoring.Coverage
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &coverage))
	assert.Equal(t, 11, coverage.ArticlesCovered)
	assert.Equal(t, 18, coverage.ArticlesTotal)
}

func TestIntelligenceGaps(t *testing.T) {
	t.Run("returns stored gaps", func(t *testing.T) {
		analysesStore := NewMockAnalysesStore()
		analysesStore.On("GetAnalysisByDocument", testOrgID, testDocID).Return(analyzedDocument(), nil)

		handler := handleIntelligenceGaps(analysesStore)

		req := authedRequest("GET", "/api/intelligence/"+testDocID+"/gaps", "", testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testDocID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var gaps []scoring.Gap
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &gaps))
		assert.Len(t, gaps, 1)
		assert.Equal(t, "Article 25", gaps[0].Article)
	})

	t.Run("unanalyzed document is 404", func(t *testing.T) {
		analysesStore := NewMockAnalysesStore()
		analysesStore.On("GetAnalysisByDocument", testOrgID, testDocID).Return(nil, store.ErrAnalysisNotFound)

		handler := handleIntelligenceGaps(analysesStore)

		req := authedRequest("GET", "/api/intelligence/"+testDocID+"/gaps", "", testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testDocID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestIntelligenceControls(t *testing.T) {
	t.Run("returns all controls", func(t *testing.T) {
		analysesStore := NewMockAnalysesStore()
		analysesStore.On("GetAnalysisByDocument", testOrgID, testDocID).Return(analyzedDocument(), nil)

		handler := handleIntelligenceControls(analysesStore)

		req := authedRequest("GET", "/api/intelligence/"+testDocID+"/controls", "", testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testDocID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var controls []scoring.Control
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &controls))
		assert.Len(t, controls, 2)
	})

	t.Run("filters by test result", func(t *testing.T) {
		analysesStore := NewMockAnalysesStore()
		analysesStore.On("GetAnalysisByDocument", testOrgID, testDocID).Return(analyzedDocument(), nil)

		handler := handleIntelligenceControls(analysesStore)

		req := authedRequest("GET", "/api/intelligence/"+testDocID+"/controls?result=exception", "", testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testDocID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var controls []scoring.Control
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &controls))
		assert.Len(t, controls, 1)
		assert.Equal(t, "CC7.2", controls[0].ControlID)
	})
}

func TestIntelligenceFrameworks(t *testing.T) {
	analysesStore := NewMockAnalysesStore()
	analysesStore.On("GetAnalysisByDocument", testOrgID, testDocID).Return(analyzedDocument(), nil)

	handler := handleIntelligenceFrameworks(analysesStore, scoring.NewRegistry())

	req := authedRequest("GET", "/api/intelligence/"+testDocID+"/frameworks", "", testUserID, testOrgID, model.UserRoleMember)
	req = withMuxVars(req, map[string]string{"id": testDocID})
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var scores []scoring.FrameworkScore
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &scores))
	assert.NotEmpty(t, scores)
}
