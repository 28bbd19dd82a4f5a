package gorm

import (
	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// Ensure IncidentsStore implements store.IncidentsStore
var _ store.IncidentsStore = (*IncidentsStore)(nil)

// IncidentsStore implements store.IncidentsStore using GORM
type IncidentsStore struct {
	db *gorm.DB
}

// NewIncidentsStore creates a new IncidentsStore
func NewIncidentsStore(db *gorm.DB) *IncidentsStore {
	return &IncidentsStore{db: db}
}

func (s *IncidentsStore) filtered(orgID string, filter store.IncidentFilter) *gorm.DB {
	query := s.db.Model(&model.Incident{}).Where("organization_id = ?", orgID)
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VendorID != "" {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	return query
}

// ListIncidents returns incidents for an organization, newest first.
func (s *IncidentsStore) ListIncidents(orgID string, filter store.IncidentFilter) ([]model.Incident, error) {
	query := s.filtered(orgID, filter).Order("occurred_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var incidents []model.Incident
	if err := query.Find(&incidents).Error; err != nil {
		return nil, err
	}
	return incidents, nil
}

// CountIncidents returns the count of incidents matching the filter.
func (s *IncidentsStore) CountIncidents(orgID string, filter store.IncidentFilter) (int64, error) {
	var count int64
	err := s.filtered(orgID, filter).Count(&count).Error
	return count, err
}

// GetIncident retrieves an incident scoped to an organization.
func (s *IncidentsStore) GetIncident(orgID, id string) (*model.Incident, error) {
	var incident model.Incident
	tx := s.db.First(&incident, "id = ? AND organization_id = ?", id, orgID)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrIncidentNotFound
		}
		return nil, tx.Error
	}
	return &incident, nil
}

// CreateIncident creates a new incident.
func (s *IncidentsStore) CreateIncident(incident *model.Incident) error {
	return s.db.Create(incident).Error
}

// UpdateIncident applies updates to an existing incident.
func (s *IncidentsStore) UpdateIncident(orgID, id string, updates map[string]any) (*model.Incident, error) {
	tx := s.db.Model(&model.Incident{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrIncidentNotFound
	}
	return s.GetIncident(orgID, id)
}

// DeleteIncident removes an incident.
func (s *IncidentsStore) DeleteIncident(orgID, id string) error {
	tx := s.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&model.Incident{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrIncidentNotFound
	}
	return nil
}
