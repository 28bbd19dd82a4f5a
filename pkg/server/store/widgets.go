package store

import (
	"errors"

	"github.com/doracomply/doracomply/pkg/model"
)

// ErrWidgetNotFound is returned when a dashboard widget doesn't exist
var ErrWidgetNotFound = errors.New("widget not found")

// WidgetsStore abstracts dashboard widget storage operations
type WidgetsStore interface {
	// ListWidgets returns a user's widgets ordered by position.
	ListWidgets(orgID, userID string) ([]model.DashboardWidget, error)

	// GetWidget retrieves a widget scoped to a user.
	// Returns ErrWidgetNotFound if the widget doesn't exist.
	GetWidget(orgID, userID, id string) (*model.DashboardWidget, error)

	// CreateWidget creates a new widget.
	CreateWidget(widget *model.DashboardWidget) error

	// UpdateWidget applies updates to an existing widget.
	// Returns ErrWidgetNotFound if the widget doesn't exist.
	UpdateWidget(orgID, userID, id string, updates map[string]any) (*model.DashboardWidget, error)

	// DeleteWidget removes a widget.
	// Returns ErrWidgetNotFound if the widget doesn't exist.
	DeleteWidget(orgID, userID, id string) error
}
