package gorm

import (
	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// Ensure VendorsStore implements store.VendorsStore
var _ store.VendorsStore = (*VendorsStore)(nil)

// VendorsStore implements store.VendorsStore using GORM
type VendorsStore struct {
	db *gorm.DB
}

// NewVendorsStore creates a new VendorsStore
func NewVendorsStore(db *gorm.DB) *VendorsStore {
	return &VendorsStore{db: db}
}

func (s *VendorsStore) filtered(orgID string, filter store.VendorFilter) *gorm.DB {
	query := s.db.Model(&model.Vendor{}).Where("organization_id = ?", orgID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.RiskTier != "" {
		query = query.Where("risk_tier = ?", filter.RiskTier)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

// ListVendors returns vendors for an organization, by name.
func (s *VendorsStore) ListVendors(orgID string, filter store.VendorFilter) ([]model.Vendor, error) {
	query := s.filtered(orgID, filter).Order("name asc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var vendors []model.Vendor
	if err := query.Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// CountVendors returns the count of vendors matching the filter.
func (s *VendorsStore) CountVendors(orgID string, filter store.VendorFilter) (int64, error) {
	var count int64
	err := s.filtered(orgID, filter).Count(&count).Error
	return count, err
}

// GetVendor retrieves a vendor scoped to an organization.
func (s *VendorsStore) GetVendor(orgID, id string) (*model.Vendor, error) {
	var vendor model.Vendor
	tx := s.db.First(&vendor, "id = ? AND organization_id = ?", id, orgID)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrVendorNotFound
		}
		return nil, tx.Error
	}
	return &vendor, nil
}

// CreateVendor creates a new vendor.
func (s *VendorsStore) CreateVendor(vendor *model.Vendor) error {
	return s.db.Create(vendor).Error
}

// UpdateVendor applies updates to an existing vendor.
func (s *VendorsStore) UpdateVendor(orgID, id string, updates map[string]any) (*model.Vendor, error) {
	tx := s.db.Model(&model.Vendor{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrVendorNotFound
	}
	return s.GetVendor(orgID, id)
}

// DeleteVendor soft-deletes a vendor.
func (s *VendorsStore) DeleteVendor(orgID, id string) error {
	tx := s.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&model.Vendor{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrVendorNotFound
	}
	return nil
}

// ListAssessments returns assessments for a vendor, newest first.
func (s *VendorsStore) ListAssessments(orgID, vendorID string) ([]model.VendorAssessment, error) {
	var assessments []model.VendorAssessment
	err := s.db.Where("vendor_id = ? AND organization_id = ?", vendorID, orgID).
		Order("assessed_at desc").
		Find(&assessments).Error
	if err != nil {
		return nil, err
	}
	return assessments, nil
}
