package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server"
	"github.com/doracomply/doracomply/pkg/server/middleware"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// JobResponse is the public view of an extraction job
type JobResponse struct {
	ID         string     `json:"id"`
	DocumentID string     `json:"documentId"`
	Status     string     `json:"status"`
	Phase      string     `json:"phase"`
	Progress   int        `json:"progress"`
	Message    string     `json:"message,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func jobResponse(job *model.ExtractionJob) JobResponse {
	return JobResponse{
		ID:         job.ID,
		DocumentID: job.DocumentID,
		Status:     job.Status,
		Phase:      job.Phase,
		Progress:   job.Progress,
		Message:    job.Message,
		Error:      job.Error,
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt,
		CreatedAt:  job.CreatedAt,
	}
}

// RegisterJobsEndpoints registers the extraction job endpoints
func RegisterJobsEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api/jobs").Subrouter()
	r.Use(s.Session.Middleware)

	r.HandleFunc("/{id}", handleGetJob(s.JobsStore)).Methods("GET")
}

func handleGetJob(jobsStore store.JobsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		id := mux.Vars(r)["id"]

		job, err := jobsStore.GetJob(orgID, id)
		if err != nil {
			if errors.Is(err, store.ErrJobNotFound) {
				respondWithError(w, http.StatusNotFound, "job not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		respondWithJSON(w, http.StatusOK, jobResponse(job))
	}
}
