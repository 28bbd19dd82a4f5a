package gorm

import (
	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// Ensure DocumentsStore implements store.DocumentsStore
var _ store.DocumentsStore = (*DocumentsStore)(nil)

// DocumentsStore implements store.DocumentsStore using GORM
type DocumentsStore struct {
	db *gorm.DB
}

// NewDocumentsStore creates a new DocumentsStore
func NewDocumentsStore(db *gorm.DB) *DocumentsStore {
	return &DocumentsStore{db: db}
}

func (s *DocumentsStore) filtered(orgID string, filter store.DocumentFilter) *gorm.DB {
	query := s.db.Model(&model.Document{}).Where("organization_id = ?", orgID)
	if filter.VendorID != "" {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

// ListDocuments returns documents for an organization, newest first.
func (s *DocumentsStore) ListDocuments(orgID string, filter store.DocumentFilter) ([]model.Document, error) {
	query := s.filtered(orgID, filter).Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var docs []model.Document
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// CountDocuments returns the count of documents matching the filter.
func (s *DocumentsStore) CountDocuments(orgID string, filter store.DocumentFilter) (int64, error) {
	var count int64
	err := s.filtered(orgID, filter).Count(&count).Error
	return count, err
}

// GetDocument retrieves a document scoped to an organization.
func (s *DocumentsStore) GetDocument(orgID, id string) (*model.Document, error) {
	var doc model.Document
	tx := s.db.First(&doc, "id = ? AND organization_id = ?", id, orgID)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrDocumentNotFound
		}
		return nil, tx.Error
	}
	return &doc, nil
}

// CreateDocument creates a new document record.
func (s *DocumentsStore) CreateDocument(doc *model.Document) error {
	return s.db.Create(doc).Error
}

// UpdateDocumentStatus sets the pipeline status of a document.
func (s *DocumentsStore) UpdateDocumentStatus(id, status string) error {
	return s.db.Model(&model.Document{}).Where("id = ?", id).Update("status", status).Error
}

// DeleteDocument soft-deletes a document.
func (s *DocumentsStore) DeleteDocument(orgID, id string) error {
	tx := s.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&model.Document{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrDocumentNotFound
	}
	return nil
}

// Ensure AnalysesStore implements store.AnalysesStore
var _ store.AnalysesStore = (*AnalysesStore)(nil)

// AnalysesStore implements store.AnalysesStore using GORM
type AnalysesStore struct {
	db *gorm.DB
}

// NewAnalysesStore creates a new AnalysesStore
func NewAnalysesStore(db *gorm.DB) *AnalysesStore {
	return &AnalysesStore{db: db}
}

// GetAnalysisByDocument retrieves the analysis for a document.
func (s *AnalysesStore) GetAnalysisByDocument(orgID, documentID string) (*model.ParsedSOC2, error) {
	var parsed model.ParsedSOC2
	tx := s.db.First(&parsed, "document_id = ? AND organization_id = ?", documentID, orgID)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrAnalysisNotFound
		}
		return nil, tx.Error
	}
	return &parsed, nil
}

// GetLatestAnalysis retrieves the most recent analysis in the organization.
func (s *AnalysesStore) GetLatestAnalysis(orgID string) (*model.ParsedSOC2, error) {
	var parsed model.ParsedSOC2
	tx := s.db.Order("created_at desc").First(&parsed, "organization_id = ?", orgID)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrAnalysisNotFound
		}
		return nil, tx.Error
	}
	return &parsed, nil
}
