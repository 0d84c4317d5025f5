package store

import (
	"context"
	"errors"
	"fmt"

	"gamecatalog/backend/internal/models"

	"gorm.io/gorm"
)

// UserStore persists caller identities.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// FindByLogin looks a registered user up by nickname or email.
func (s *UserStore) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("nickname = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by login: %w", err)
	}
	return &user, nil
}

// SetAdminCode overwrites the user's stored admin code.
func (s *UserStore) SetAdminCode(ctx context.Context, id uint, code string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("admin_code", code)
	if result.Error != nil {
		return fmt.Errorf("set admin code for user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
