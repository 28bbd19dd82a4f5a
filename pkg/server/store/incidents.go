package store

import (
	"errors"

	"github.com/doracomply/doracomply/pkg/model"
)

// ErrIncidentNotFound is returned when an incident doesn't exist
var ErrIncidentNotFound = errors.New("incident not found")

// IncidentFilter narrows incident listings.
type IncidentFilter struct {
	Severity string
	Status   string
	VendorID string
	Limit    int
	Offset   int
}

// IncidentsStore abstracts incident storage operations
type IncidentsStore interface {
	// ListIncidents returns incidents for an organization, newest first.
	ListIncidents(orgID string, filter IncidentFilter) ([]model.Incident, error)

	// CountIncidents returns the count of incidents matching the filter.
	CountIncidents(orgID string, filter IncidentFilter) (int64, error)

	// GetIncident retrieves an incident scoped to an organization.
	// Returns ErrIncidentNotFound if the incident doesn't exist.
	GetIncident(orgID, id string) (*model.Incident, error)

	// CreateIncident creates a new incident.
	CreateIncident(incident *model.Incident) error

	// UpdateIncident applies updates to an existing incident.
	// Returns ErrIncidentNotFound if the incident doesn't exist.
	UpdateIncident(orgID, id string, updates map[string]any) (*model.Incident, error)

	// DeleteIncident soft-deletes an incident.
	// Returns ErrIncidentNotFound if the incident doesn't exist.
	DeleteIncident(orgID, id string) error
}
