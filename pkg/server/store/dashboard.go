package store

import "time"

// VendorSummary aggregates vendor counts for dashboard widgets.
type VendorSummary struct {
	Total      int64            `json:"total"`
	ByRiskTier map[string]int64 `json:"byRiskTier"`
	ByStatus   map[string]int64 `json:"byStatus"`
}

// TaskSummary aggregates task counts for dashboard widgets.
type TaskSummary struct {
	Total      int64            `json:"total"`
	Overdue    int64            `json:"overdue"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByPriority map[string]int64 `json:"byPriority"`
}

// IncidentSummary aggregates incident counts for dashboard widgets.
type IncidentSummary struct {
	Total      int64            `json:"total"`
	Open       int64            `json:"open"`
	BySeverity map[string]int64 `json:"bySeverity"`
}

// ComplianceSummary reports latest analysis scores for dashboard widgets.
type ComplianceSummary struct {
	DocumentsAnalyzed int64         `json:"documentsAnalyzed"`
	AverageScore      float64       `json:"averageScore"`
	LatestScores      []LatestScore `json:"latestScores"`
}

// LatestScore is one document's most recent overall score.
type LatestScore struct {
	DocumentID   string    `json:"documentId"`
	Filename     string    `json:"filename"`
	OverallScore float64   `json:"overallScore"`
	AnalyzedAt   time.Time `json:"analyzedAt"`
}

// DocumentSummary aggregates document pipeline counts for dashboard widgets.
type DocumentSummary struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
	ByType   map[string]int64 `json:"byType"`
}

// DashboardStore provides aggregate queries for dashboard widgets
type DashboardStore interface {
	// VendorSummary aggregates vendor counts by tier and status.
	VendorSummary(orgID string) (*VendorSummary, error)

	// TaskSummary aggregates task counts by status and priority.
	TaskSummary(orgID string) (*TaskSummary, error)

	// IncidentSummary aggregates incident counts by severity.
	IncidentSummary(orgID string) (*IncidentSummary, error)

	// ComplianceSummary reports analysis coverage and recent scores.
	ComplianceSummary(orgID string, limit int) (*ComplianceSummary, error)

	// DocumentSummary aggregates document counts by status and type.
	DocumentSummary(orgID string) (*DocumentSummary, error)
}
