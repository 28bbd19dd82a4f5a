package model

import "time"

// DashboardWidget is one row of a user's dashboard layout. The widget type
// string selects a data provider; Position orders widgets on the board.
type DashboardWidget struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"column:organization_id;type:uuid;not null;index"`
	UserID         string    `gorm:"column:user_id;type:uuid;not null;index"`
	Type           string    `gorm:"column:type;not null"`
	Title          string    `gorm:"column:title"`
	Position       int       `gorm:"column:position;not null;default:0"`
	Config         JSONB     `gorm:"column:config;type:jsonb"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DashboardWidget) TableName() string {
	return "dashboard_widgets"
}
