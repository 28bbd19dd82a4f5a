package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/scoring"
	"github.com/doracomply/doracomply/pkg/server"
	"github.com/doracomply/doracomply/pkg/server/middleware"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// articleScores mirrors the shape persisted by the extraction runner.
type articleScores struct {
	Coverage scoring.Coverage `json:"coverage"`
	Gaps     []scoring.Gap    `json:"gaps"`
}

// RegisterIntelligenceEndpoints registers the regulatory intelligence endpoints
func RegisterIntelligenceEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api/intelligence").Subrouter()
	r.Use(s.Session.Middleware)

	r.HandleFunc("/{id}/coverage", handleIntelligenceCoverage(s.AnalysesStore)).Methods("GET")
	r.HandleFunc("/{id}/gaps", handleIntelligenceGaps(s.AnalysesStore)).Methods("GET")
	r.HandleFunc("/{id}/controls", handleIntelligenceControls(s.AnalysesStore)).Methods("GET")
	r.HandleFunc("/{id}/frameworks", handleIntelligenceFrameworks(s.AnalysesStore, s.Registry)).Methods("GET")
}

func loadArticleScores(analysesStore store.AnalysesStore, orgID, documentID string) (*articleScores, *model.ParsedSOC2, error) {
	parsed, err := analysesStore.GetAnalysisByDocument(orgID, documentID)
	if err != nil {
		return nil, nil, err
	}

	var scores articleScores
	if len(parsed.ArticleScores) > 0 {
		if err := json.Unmarshal(parsed.ArticleScores, &scores); err != nil {
			return nil, nil, err
		}
	}
	return &scores, parsed, nil
}

func respondAnalysisError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrAnalysisNotFound) {
		respondWithError(w, http.StatusNotFound, "document has not been analyzed")
		return
	}
	respondWithError(w, http.StatusInternalServerError, "lookup failed")
}

func handleIntelligenceCoverage(analysesStore store.AnalysesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		documentID := mux.Vars(r)["id"]

		scores, _, err := loadArticleScores(analysesStore, orgID, documentID)
		if err != nil {
			respondAnalysisError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, scores.Coverage)
	}
}

func handleIntelligenceGaps(analysesStore store.AnalysesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		documentID := mux.Vars(r)["id"]

		scores, _, err := loadArticleScores(analysesStore, orgID, documentID)
		if err != nil {
			respondAnalysisError(w, err)
			return
		}

		gaps := scores.Gaps
		if gaps == nil {
			gaps = []scoring.Gap{}
		}
		respondWithJSON(w, http.StatusOK, gaps)
	}
}

func handleIntelligenceControls(analysesStore store.AnalysesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		documentID := mux.Vars(r)["id"]

		parsed, err := analysesStore.GetAnalysisByDocument(orgID, documentID)
		if err != nil {
			respondAnalysisError(w, err)
			return
		}

		controls := []scoring.Control{}
		if len(parsed.Controls) > 0 {
			if err := json.Unmarshal(parsed.Controls, &controls); err != nil {
				respondWithError(w, http.StatusInternalServerError, "stored analysis is corrupt")
				return
			}
		}

		category := r.URL.Query().Get("category")
		result := r.URL.Query().Get("result")
		filtered := make([]scoring.Control, 0, len(controls))
		for _, c := range controls {
			if category != "" && scoring.NormalizeCategory(c.TSCCategory) != category {
				continue
			}
			if result != "" && c.TestResult.String() != result {
				continue
			}
			filtered = append(filtered, c)
		}

		respondWithJSON(w, http.StatusOK, filtered)
	}
}

func handleIntelligenceFrameworks(analysesStore store.AnalysesStore, registry *scoring.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		documentID := mux.Vars(r)["id"]

		parsed, err := analysesStore.GetAnalysisByDocument(orgID, documentID)
		if err != nil {
			respondAnalysisError(w, err)
			return
		}

		var controls []scoring.Control
		if len(parsed.Controls) > 0 {
			if err := json.Unmarshal(parsed.Controls, &controls); err != nil {
				respondWithError(w, http.StatusInternalServerError, "stored analysis is corrupt")
				return
			}
		}

		respondWithJSON(w, http.StatusOK, registry.ScoreAll(controls))
	}
}
