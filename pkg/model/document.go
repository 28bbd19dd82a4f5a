package model

import (
	"time"

	"gorm.io/gorm"
)

// Document statuses track the analysis pipeline state.
const (
	DocumentStatusUploaded  = "uploaded"
	DocumentStatusAnalyzing = "analyzing"
	DocumentStatusAnalyzed  = "analyzed"
	DocumentStatusFailed    = "failed"
)

// Document types recognized by the pipeline.
const (
	DocumentTypeSOC2          = "soc2"
	DocumentTypeQuestionnaire = "questionnaire"
	DocumentTypeContract      = "contract"
	DocumentTypeOther         = "other"
)

// Document is an uploaded vendor document.
type Document struct {
	ID             string         `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string         `gorm:"column:organization_id;type:uuid;not null;index"`
	VendorID       *string        `gorm:"column:vendor_id;type:uuid;index"`
	Filename       string         `gorm:"column:filename;not null"`
	StoragePath    string         `gorm:"column:storage_path;not null"`
	MimeType       string         `gorm:"column:mime_type"`
	SizeBytes      int64          `gorm:"column:size_bytes"`
	Type           string         `gorm:"column:type;not null;default:soc2"`
	Status         string         `gorm:"column:status;not null;default:uploaded"`
	UploadedBy     string         `gorm:"column:uploaded_by;type:uuid"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Document) TableName() string {
	return "documents"
}
