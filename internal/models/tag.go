package models

import "time"

// Tag represents a game tag (e.g., "RPG", "Shooter", "Co-op").
// Group is the taxonomy bucket ("Genres", "Platforms"); legacy tags have none.
type Tag struct {
	ID          uint      `gorm:"primaryKey"`
	CreatedAt   time.Time `gorm:"not null;index"`
	Name        string    `gorm:"size:100;uniqueIndex;not null"`
	Group       *string   `gorm:"column:tag_group;size:100;index"`
	Description *string   `gorm:"type:text"`

	CreatedBy     uint       `gorm:"not null"`
	CreatedByName string     `gorm:"size:255"`
	UpdatedAt     *time.Time `gorm:"autoUpdateTime:false"`
	UpdatedBy     *uint
	UpdatedByName *string `gorm:"size:255"`
}
