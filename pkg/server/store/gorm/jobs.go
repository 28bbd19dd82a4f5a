package gorm

import (
	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// Ensure JobsStore implements store.JobsStore
var _ store.JobsStore = (*JobsStore)(nil)

// JobsStore implements store.JobsStore using GORM
type JobsStore struct {
	db *gorm.DB
}

// NewJobsStore creates a new JobsStore
func NewJobsStore(db *gorm.DB) *JobsStore {
	return &JobsStore{db: db}
}

// CreateJob creates a new extraction job record.
func (s *JobsStore) CreateJob(job *model.ExtractionJob) error {
	return s.db.Create(job).Error
}

// GetJob retrieves a job scoped to an organization.
func (s *JobsStore) GetJob(orgID, id string) (*model.ExtractionJob, error) {
	var job model.ExtractionJob
	tx := s.db.First(&job, "id = ? AND organization_id = ?", id, orgID)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrJobNotFound
		}
		return nil, tx.Error
	}
	return &job, nil
}

// GetLatestJobForDocument retrieves the most recent job for a document.
func (s *JobsStore) GetLatestJobForDocument(orgID, documentID string) (*model.ExtractionJob, error) {
	var job model.ExtractionJob
	tx := s.db.Order("created_at desc").
		First(&job, "document_id = ? AND organization_id = ?", documentID, orgID)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrJobNotFound
		}
		return nil, tx.Error
	}
	return &job, nil
}
