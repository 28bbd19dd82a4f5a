package store

import (
	"errors"

	"github.com/doracomply/doracomply/pkg/model"
)

// ErrVendorNotFound is returned when a vendor doesn't exist
var ErrVendorNotFound = errors.New("vendor not found")

// VendorFilter narrows vendor listings.
type VendorFilter struct {
	Search   string
	RiskTier string
	Status   string
	Limit    int
	Offset   int
}

// VendorsStore abstracts vendor storage operations
type VendorsStore interface {
	// ListVendors returns vendors for an organization, by name.
	ListVendors(orgID string, filter VendorFilter) ([]model.Vendor, error)

	// CountVendors returns the count of vendors matching the filter.
	CountVendors(orgID string, filter VendorFilter) (int64, error)

	// GetVendor retrieves a vendor scoped to an organization.
	// Returns ErrVendorNotFound if the vendor doesn't exist.
	GetVendor(orgID, id string) (*model.Vendor, error)

	// CreateVendor creates a new vendor.
	CreateVendor(vendor *model.Vendor) error

	// UpdateVendor applies non-zero fields to an existing vendor.
	// Returns ErrVendorNotFound if the vendor doesn't exist.
	UpdateVendor(orgID, id string, updates map[string]any) (*model.Vendor, error)

	// DeleteVendor soft-deletes a vendor.
	// Returns ErrVendorNotFound if the vendor doesn't exist.
	DeleteVendor(orgID, id string) error

	// ListAssessments returns assessments for a vendor, newest first.
	ListAssessments(orgID, vendorID string) ([]model.VendorAssessment, error)
}
