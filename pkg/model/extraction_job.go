package model

import "time"

// Extraction job statuses.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Extraction job phases, in pipeline order.
const (
	JobPhaseInitializing = "initializing"
	JobPhaseDownloading  = "downloading"
	JobPhaseExtracting   = "extracting"
	JobPhaseScoring      = "scoring"
	JobPhaseStoring      = "storing"
	JobPhaseDone         = "done"
)

// ExtractionJob tracks the progress of a document analysis run.
type ExtractionJob struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentID     string    `gorm:"column:document_id;type:uuid;not null;index"`
	OrganizationID string    `gorm:"column:organization_id;type:uuid;not null;index"`
	Status         string    `gorm:"column:status;not null;default:pending"`
	Phase          string    `gorm:"column:phase;not null;default:initializing"`
	Progress       int       `gorm:"column:progress;not null;default:0"`
	Message        string    `gorm:"column:message"`
	Error          string    `gorm:"column:error"`
	StartedAt      *time.Time `gorm:"column:started_at"`
	FinishedAt     *time.Time `gorm:"column:finished_at"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExtractionJob) TableName() string {
	return "extraction_jobs"
}

// Finished reports whether the job reached a terminal status.
func (j *ExtractionJob) Finished() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
