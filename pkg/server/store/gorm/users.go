package gorm

import (
	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// GetUser retrieves a user by ID.
func (s *UsersStore) GetUser(id string) (*model.User, error) {
	var user model.User
	tx := s.db.First(&user, "id = ?", id)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *UsersStore) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	tx := s.db.First(&user, "email = ?", email)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

// CreateUser creates a new user.
func (s *UsersStore) CreateUser(user *model.User) error {
	return s.db.Create(user).Error
}

// UpdatePassword replaces the password hash for a user.
func (s *UsersStore) UpdatePassword(email string, passwordHash []byte) error {
	tx := s.db.Model(&model.User{}).Where("email = ?", email).Update("password_hash", passwordHash)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}
