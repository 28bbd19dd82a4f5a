package model

import "time"

// User is an authenticated dashboard user.
type User struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"column:organization_id;type:uuid;not null;index"`
	Email          string    `gorm:"column:email;not null;uniqueIndex"`
	DisplayName    string    `gorm:"column:display_name"`
	PasswordHash   []byte    `gorm:"column:password_hash;type:bytea;not null"`
	Role           string    `gorm:"column:role;not null;default:member"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// User roles. Admins may manage users and delete across the organization.
const (
	UserRoleAdmin  = "admin"
	UserRoleMember = "member"
)

func (User) TableName() string {
	return "users"
}
