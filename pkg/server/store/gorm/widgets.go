package gorm

import (
	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// Ensure WidgetsStore implements store.WidgetsStore
var _ store.WidgetsStore = (*WidgetsStore)(nil)

// WidgetsStore implements store.WidgetsStore using GORM
type WidgetsStore struct {
	db *gorm.DB
}

// NewWidgetsStore creates a new WidgetsStore
func NewWidgetsStore(db *gorm.DB) *WidgetsStore {
	return &WidgetsStore{db: db}
}

// ListWidgets returns a user's widgets ordered by position.
func (s *WidgetsStore) ListWidgets(orgID, userID string) ([]model.DashboardWidget, error) {
	var widgets []model.DashboardWidget
	err := s.db.Where("organization_id = ? AND user_id = ?", orgID, userID).
		Order("position asc, created_at asc").
		Find(&widgets).Error
	if err != nil {
		return nil, err
	}
	return widgets, nil
}

// GetWidget retrieves a widget scoped to a user.
func (s *WidgetsStore) GetWidget(orgID, userID, id string) (*model.DashboardWidget, error) {
	var widget model.DashboardWidget
	tx := s.db.First(&widget, "id = ? AND organization_id = ? AND user_id = ?", id, orgID, userID)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrWidgetNotFound
		}
		return nil, tx.Error
	}
	return &widget, nil
}

// CreateWidget creates a new widget.
func (s *WidgetsStore) CreateWidget(widget *model.DashboardWidget) error {
	return s.db.Create(widget).Error
}

// UpdateWidget applies updates to an existing widget.
func (s *WidgetsStore) UpdateWidget(orgID, userID, id string, updates map[string]any) (*model.DashboardWidget, error) {
	tx := s.db.Model(&model.DashboardWidget{}).
		Where("id = ? AND organization_id = ? AND user_id = ?", id, orgID, userID).
		Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrWidgetNotFound
	}
	return s.GetWidget(orgID, userID, id)
}

// DeleteWidget removes a widget.
func (s *WidgetsStore) DeleteWidget(orgID, userID, id string) error {
	tx := s.db.Where("id = ? AND organization_id = ? AND user_id = ?", id, orgID, userID).
		Delete(&model.DashboardWidget{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrWidgetNotFound
	}
	return nil
}
