package model

import (
	"time"

	"gorm.io/gorm"
)

// Vendor risk tiers.
const (
	VendorTierCritical = "critical"
	VendorTierHigh     = "high"
	VendorTierMedium   = "medium"
	VendorTierLow      = "low"
)

// Vendor statuses.
const (
	VendorStatusActive      = "active"
	VendorStatusUnderReview = "under_review"
	VendorStatusOffboarded  = "offboarded"
)

// Vendor is a tracked third-party ICT service provider.
type Vendor struct {
	ID             string         `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string         `gorm:"column:organization_id;type:uuid;not null;index"`
	Name           string         `gorm:"column:name;not null"`
	Website        string         `gorm:"column:website"`
	ContactEmail   string         `gorm:"column:contact_email"`
	ServiceType    string         `gorm:"column:service_type"`
	RiskTier       string         `gorm:"column:risk_tier;not null;default:medium"`
	Status         string         `gorm:"column:status;not null;default:active"`
	Notes          string         `gorm:"column:notes"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Vendor) TableName() string {
	return "vendors"
}

// VendorAssessment is a point-in-time compliance assessment of a vendor,
// derived from an analyzed document.
type VendorAssessment struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	VendorID       string    `gorm:"column:vendor_id;type:uuid;not null;index"`
	OrganizationID string    `gorm:"column:organization_id;type:uuid;not null;index"`
	DocumentID     string    `gorm:"column:document_id;type:uuid"`
	OverallScore   float64   `gorm:"column:overall_score"`
	Summary        JSONB     `gorm:"column:summary;type:jsonb"`
	AssessedAt     time.Time `gorm:"column:assessed_at;autoCreateTime"`
}

func (VendorAssessment) TableName() string {
	return "vendor_assessments"
}
