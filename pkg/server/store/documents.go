package store

import (
	"errors"

	"github.com/doracomply/doracomply/pkg/model"
)

// ErrDocumentNotFound is returned when a document doesn't exist
var ErrDocumentNotFound = errors.New("document not found")

// ErrAnalysisNotFound is returned when a document has no stored analysis
var ErrAnalysisNotFound = errors.New("analysis not found")

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	VendorID string
	Type     string
	Status   string
	Limit    int
	Offset   int
}

// DocumentsStore abstracts document storage operations
type DocumentsStore interface {
	// ListDocuments returns documents for an organization, newest first.
	ListDocuments(orgID string, filter DocumentFilter) ([]model.Document, error)

	// CountDocuments returns the count of documents matching the filter.
	CountDocuments(orgID string, filter DocumentFilter) (int64, error)

	// GetDocument retrieves a document scoped to an organization.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	GetDocument(orgID, id string) (*model.Document, error)

	// CreateDocument creates a new document record.
	CreateDocument(doc *model.Document) error

	// UpdateDocumentStatus sets the pipeline status of a document.
	UpdateDocumentStatus(id, status string) error

	// DeleteDocument soft-deletes a document.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	DeleteDocument(orgID, id string) error
}

// AnalysesStore abstracts access to stored analysis results
type AnalysesStore interface {
	// GetAnalysisByDocument retrieves the analysis for a document.
	// Returns ErrAnalysisNotFound if the document hasn't been analyzed.
	GetAnalysisByDocument(orgID, documentID string) (*model.ParsedSOC2, error)

	// GetLatestAnalysis retrieves the most recent analysis in the organization.
	// Returns ErrAnalysisNotFound if nothing has been analyzed.
	GetLatestAnalysis(orgID string) (*model.ParsedSOC2, error)
}
