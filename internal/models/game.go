package models

import (
	"time"

	"gorm.io/datatypes"
)

// Game represents a catalog entry.
// Categories holds tag names; they are matched against Tag.Name but not
// enforced as a foreign key, so a label may outlive its tag.
type Game struct {
	ID               uint      `gorm:"primaryKey"`
	CreatedAt        time.Time `gorm:"not null;index"`
	Title            string    `gorm:"size:255;not null;index"`
	Description      string    `gorm:"type:text;not null"`
	ImageURL         string    `gorm:"size:1024;not null"`
	AdditionalImages datatypes.JSONSlice[string]
	VideoURL         *string `gorm:"size:1024"`
	AdditionalVideos datatypes.JSONSlice[string]
	Categories       datatypes.JSONSlice[string]

	CreatedBy     uint   `gorm:"not null;index"`
	CreatedByName string `gorm:"size:255"`
	// Set only once the game has been edited.
	UpdatedAt     *time.Time `gorm:"autoUpdateTime:false"`
	UpdatedBy     *uint
	UpdatedByName *string `gorm:"size:255"`
}

// HasCategory reports whether name is one of the game's categories.
func (g *Game) HasCategory(name string) bool {
	for _, c := range g.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// InAnyCategory reports whether the game carries at least one of the given names.
func (g *Game) InAnyCategory(names map[string]struct{}) bool {
	for _, c := range g.Categories {
		if _, ok := names[c]; ok {
			return true
		}
	}
	return false
}
