package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gamecatalog/backend/internal/models"
	"gamecatalog/backend/internal/store"
)

// GameFilter narrows ListGames. Zero value lists everything.
type GameFilter struct {
	// Categories keeps games carrying at least one of these tag names.
	Categories []string
	// Search restricts to games whose title matches the search terms.
	Search string
}

// QueryService serves the read-only views of the catalog.
type QueryService struct {
	games GameStore
	tags  TagStore
}

func NewQueryService(games GameStore, tags TagStore) *QueryService {
	return &QueryService{games: games, tags: tags}
}

// ListGames returns the games matching filter, newest first.
func (s *QueryService) ListGames(ctx context.Context, filter GameFilter) ([]models.Game, error) {
	var (
		games []models.Game
		err   error
	)

	if search := strings.TrimSpace(filter.Search); search != "" {
		games, err = s.games.SearchTitle(ctx, search)
		if err != nil {
			return nil, err
		}
		sortNewestFirst(games)
	} else {
		games, err = s.games.List(ctx)
		if err != nil {
			return nil, err
		}
	}

	wanted := categorySet(filter.Categories)
	if len(wanted) == 0 {
		return games, nil
	}

	filtered := make([]models.Game, 0, len(games))
	for i := range games {
		if games[i].InAnyCategory(wanted) {
			filtered = append(filtered, games[i])
		}
	}
	return filtered, nil
}

// GetGame returns the game with id, or nil if there is none.
func (s *QueryService) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	if id == 0 {
		return nil, nil
	}
	game, err := s.games.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return game, nil
}

// ListTagNames returns the name of every tag.
func (s *QueryService) ListTagNames(ctx context.Context) ([]string, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names, nil
}

// ListTagsWithDetail returns every tag record.
func (s *QueryService) ListTagsWithDetail(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

// ListTagGroups returns every tag bucketed by group.
func (s *QueryService) ListTagGroups(ctx context.Context) ([]TagGroup, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	return GroupTags(tags), nil
}

func sortNewestFirst(games []models.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.After(games[j].CreatedAt)
		}
		return games[i].ID > games[j].ID
	})
}

func categorySet(categories []string) map[string]struct{} {
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if c == "" {
			continue
		}
		set[c] = struct{}{}
	}
	return set
}
