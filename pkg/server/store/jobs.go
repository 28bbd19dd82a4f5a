package store

import (
	"errors"

	"github.com/doracomply/doracomply/pkg/model"
)

// ErrJobNotFound is returned when an extraction job doesn't exist
var ErrJobNotFound = errors.New("job not found")

// JobsStore abstracts extraction job storage operations
type JobsStore interface {
	// CreateJob creates a new extraction job record.
	CreateJob(job *model.ExtractionJob) error

	// GetJob retrieves a job scoped to an organization.
	// Returns ErrJobNotFound if the job doesn't exist.
	GetJob(orgID, id string) (*model.ExtractionJob, error)

	// GetLatestJobForDocument retrieves the most recent job for a document.
	// Returns ErrJobNotFound if the document has no jobs.
	GetLatestJobForDocument(orgID, documentID string) (*model.ExtractionJob, error)
}
