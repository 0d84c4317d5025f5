package store

import (
	"context"
	"errors"
	"fmt"

	"gamecatalog/backend/internal/models"

	"gorm.io/gorm"
)

// TagStore persists tags.
type TagStore struct {
	db *gorm.DB
}

func NewTagStore(db *gorm.DB) *TagStore {
	return &TagStore{db: db}
}

// List returns every tag in creation order.
func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (s *TagStore) FindByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find tag %d: %w", id, err)
	}
	return &tag, nil
}

// FindByName returns the first tag whose name matches exactly.
func (s *TagStore) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find tag by name %q: %w", name, err)
	}
	return &tag, nil
}

func (s *TagStore) Create(ctx context.Context, tag *models.Tag) error {
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("create tag %q: %w", tag.Name, err)
	}
	return nil
}

// Update rewrites every mutable column of an existing tag.
func (s *TagStore) Update(ctx context.Context, tag *models.Tag) error {
	result := s.db.WithContext(ctx).Model(tag).
		Select("*").
		Omit("ID", "CreatedAt", "CreatedBy", "CreatedByName").
		Updates(tag)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return ErrDuplicateName
		}
		return fmt.Errorf("update tag %d: %w", tag.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TagStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Tag{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete tag %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
