package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// Ensure DashboardStore implements store.DashboardStore
var _ store.DashboardStore = (*DashboardStore)(nil)

// DashboardStore implements store.DashboardStore using GORM
type DashboardStore struct {
	db *gorm.DB
}

// NewDashboardStore creates a new DashboardStore
func NewDashboardStore(db *gorm.DB) *DashboardStore {
	return &DashboardStore{db: db}
}

type bucketCount struct {
	Bucket string
	Count  int64
}

func (s *DashboardStore) countBy(model any, orgID, column string) (map[string]int64, int64, error) {
	var rows []bucketCount
	err := s.db.Model(model).
		Select(column+" as bucket, count(*) as count").
		Where("organization_id = ?", orgID).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	counts := make(map[string]int64, len(rows))
	var total int64
	for _, row := range rows {
		counts[row.Bucket] = row.Count
		total += row.Count
	}
	return counts, total, nil
}

// VendorSummary aggregates vendor counts by tier and status.
func (s *DashboardStore) VendorSummary(orgID string) (*store.VendorSummary, error) {
	byTier, total, err := s.countBy(&model.Vendor{}, orgID, "risk_tier")
	if err != nil {
		return nil, err
	}
	byStatus, _, err := s.countBy(&model.Vendor{}, orgID, "status")
	if err != nil {
		return nil, err
	}

	return &store.VendorSummary{
		Total:      total,
		ByRiskTier: byTier,
		ByStatus:   byStatus,
	}, nil
}

// TaskSummary aggregates task counts by status and priority.
func (s *DashboardStore) TaskSummary(orgID string) (*store.TaskSummary, error) {
	byStatus, total, err := s.countBy(&model.Task{}, orgID, "status")
	if err != nil {
		return nil, err
	}
	byPriority, _, err := s.countBy(&model.Task{}, orgID, "priority")
	if err != nil {
		return nil, err
	}

	var overdue int64
	err = s.db.Model(&model.Task{}).
		Where("organization_id = ? AND due_date < ? AND status <> ?", orgID, time.Now().UTC(), model.TaskStatusDone).
		Count(&overdue).Error
	if err != nil {
		return nil, err
	}

	return &store.TaskSummary{
		Total:      total,
		Overdue:    overdue,
		ByStatus:   byStatus,
		ByPriority: byPriority,
	}, nil
}

// IncidentSummary aggregates incident counts by severity.
func (s *DashboardStore) IncidentSummary(orgID string) (*store.IncidentSummary, error) {
	bySeverity, total, err := s.countBy(&model.Incident{}, orgID, "severity")
	if err != nil {
		return nil, err
	}

	var open int64
	err = s.db.Model(&model.Incident{}).
		Where("organization_id = ? AND status IN ?", orgID, []string{model.IncidentStatusOpen, model.IncidentStatusInvestigating}).
		Count(&open).Error
	if err != nil {
		return nil, err
	}

	return &store.IncidentSummary{
		Total:      total,
		Open:       open,
		BySeverity: bySeverity,
	}, nil
}

// ComplianceSummary reports analysis coverage and recent scores.
func (s *DashboardStore) ComplianceSummary(orgID string, limit int) (*store.ComplianceSummary, error) {
	if limit <= 0 {
		limit = 5
	}

	var analyzed int64
	if err := s.db.Model(&model.ParsedSOC2{}).
		Where("organization_id = ?", orgID).
		Count(&analyzed).Error; err != nil {
		return nil, err
	}

	summary := &store.ComplianceSummary{DocumentsAnalyzed: analyzed}
	if analyzed == 0 {
		return summary, nil
	}

	var average *float64
	if err := s.db.Model(&model.ParsedSOC2{}).
		Select("avg(overall_score)").
		Where("organization_id = ?", orgID).
		Scan(&average).Error; err != nil {
		return nil, err
	}
	if average != nil {
		summary.AverageScore = *average
	}

	var latest []store.LatestScore
	err := s.db.Model(&model.ParsedSOC2{}).
		Select("parsed_soc2.document_id, documents.filename, parsed_soc2.overall_score, parsed_soc2.created_at as analyzed_at").
		Joins("JOIN documents ON documents.id = parsed_soc2.document_id").
		Where("parsed_soc2.organization_id = ?", orgID).
		Order("parsed_soc2.created_at desc").
		Limit(limit).
		Scan(&latest).Error
	if err != nil {
		return nil, err
	}
	summary.LatestScores = latest

	return summary, nil
}

// DocumentSummary aggregates document counts by status and type.
func (s *DashboardStore) DocumentSummary(orgID string) (*store.DocumentSummary, error) {
	byStatus, total, err := s.countBy(&model.Document{}, orgID, "status")
	if err != nil {
		return nil, err
	}
	byType, _, err := s.countBy(&model.Document{}, orgID, "type")
	if err != nil {
		return nil, err
	}

	return &store.DocumentSummary{
		Total:    total,
		ByStatus: byStatus,
		ByType:   byType,
	}, nil
}
