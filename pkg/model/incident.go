package model

import "time"

// Incident severities, aligned with the DORA incident classification tiers.
const (
	IncidentSeverityCritical = "critical"
	IncidentSeverityMajor    = "major"
	IncidentSeverityMinor    = "minor"
)

// Incident statuses.
const (
	IncidentStatusOpen          = "open"
	IncidentStatusInvestigating = "investigating"
	IncidentStatusResolved      = "resolved"
	IncidentStatusReported      = "reported"
)

// Incident is a tracked ICT incident, optionally attributed to a vendor.
type Incident struct {
	ID             string     `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string     `gorm:"column:organization_id;type:uuid;not null;index"`
	Title          string     `gorm:"column:title;not null"`
	Description    string     `gorm:"column:description"`
	Severity       string     `gorm:"column:severity;not null;default:minor"`
	Status         string     `gorm:"column:status;not null;default:open"`
	VendorID       *string    `gorm:"column:vendor_id;type:uuid;index"`
	OccurredAt     time.Time  `gorm:"column:occurred_at;not null"`
	ResolvedAt     *time.Time `gorm:"column:resolved_at"`
	ReportedBy     string     `gorm:"column:reported_by;type:uuid"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Incident) TableName() string {
	return "incidents"
}
