package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"gamecatalog/backend/internal/models"

	"gorm.io/gorm"
)

// GameStore persists games.
type GameStore struct {
	db *gorm.DB
}

func NewGameStore(db *gorm.DB) *GameStore {
	return &GameStore{db: db}
}

// List returns every game, newest first.
func (s *GameStore) List(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// SearchTitle returns the games whose title matches every word of query.
// On Postgres each word is a prefix match against the title's text-search
// vector; other dialects use a case-insensitive substring match.
// The result order is unspecified.
func (s *GameStore) SearchTitle(ctx context.Context, query string) ([]models.Game, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return []models.Game{}, nil
	}

	if s.db.Dialector.Name() != "postgres" {
		return s.searchTitleFold(ctx, query, terms)
	}

	tsQuery := prefixTSQuery(terms)
	if tsQuery == "" {
		return []models.Game{}, nil
	}

	var games []models.Game
	err := s.db.WithContext(ctx).
		Where("to_tsvector('simple', title) @@ to_tsquery('simple', ?)", tsQuery).
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("search games %q: %w", query, err)
	}
	return games, nil
}

// searchTitleFold matches titles in Go: SQLite's LOWER folds ASCII only.
func (s *GameStore) searchTitleFold(ctx context.Context, query string, terms []string) ([]models.Game, error) {
	var all []models.Game
	if err := s.db.WithContext(ctx).Find(&all).Error; err != nil {
		return nil, fmt.Errorf("search games %q: %w", query, err)
	}

	for i := range terms {
		terms[i] = strings.ToLower(terms[i])
	}

	games := make([]models.Game, 0, len(all))
	for _, game := range all {
		title := strings.ToLower(game.Title)
		matched := true
		for _, term := range terms {
			if !strings.Contains(title, term) {
				matched = false
				break
			}
		}
		if matched {
			games = append(games, game)
		}
	}
	return games, nil
}

func (s *GameStore) FindByID(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find game %d: %w", id, err)
	}
	return &game, nil
}

func (s *GameStore) Create(ctx context.Context, game *models.Game) error {
	if err := s.db.WithContext(ctx).Create(game).Error; err != nil {
		return fmt.Errorf("create game %q: %w", game.Title, err)
	}
	return nil
}

// Update rewrites every mutable column of an existing game.
func (s *GameStore) Update(ctx context.Context, game *models.Game) error {
	result := s.db.WithContext(ctx).Model(game).
		Select("*").
		Omit("ID", "CreatedAt", "CreatedBy", "CreatedByName").
		Updates(game)
	if result.Error != nil {
		return fmt.Errorf("update game %d: %w", game.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a game. Deleting a missing id is not an error.
func (s *GameStore) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Game{}, id).Error; err != nil {
		return fmt.Errorf("delete game %d: %w", id, err)
	}
	return nil
}

// ReferencesCategory reports whether any game lists name among its categories.
// Categories live in a JSON column, so the check runs over the projected column
// rather than through a dialect-specific JSON operator.
func (s *GameStore) ReferencesCategory(ctx context.Context, name string) (bool, error) {
	var games []models.Game
	if err := s.db.WithContext(ctx).Select("id", "categories").Find(&games).Error; err != nil {
		return false, fmt.Errorf("scan game categories: %w", err)
	}
	for i := range games {
		if games[i].HasCategory(name) {
			return true, nil
		}
	}
	return false, nil
}

// prefixTSQuery turns words into "word1:* & word2:*". Punctuation splits a
// word the way the simple text-search parser does, so "Half-Life" becomes
// "half:* & life:*".
func prefixTSQuery(terms []string) string {
	var parts []string
	for _, term := range terms {
		pieces := strings.FieldsFunc(term, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, piece := range pieces {
			parts = append(parts, strings.ToLower(piece)+":*")
		}
	}
	return strings.Join(parts, " & ")
}
