package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"gamecatalog/backend/internal/admin"
	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/identity"
	"gamecatalog/backend/internal/metrics"
	"gamecatalog/backend/internal/models"
	"gamecatalog/backend/internal/store"

	"github.com/sirupsen/logrus"
)

// Catalog change event types published on EventsTopic.
const (
	EventGameAdded   = "game.added"
	EventGameUpdated = "game.updated"
	EventGameRemoved = "game.removed"
	EventTagAdded    = "tag.added"
	EventTagUpdated  = "tag.updated"
	EventTagRemoved  = "tag.removed"
)

// GameInput carries the editable fields of a game.
type GameInput struct {
	Title            string
	Description      string
	ImageURL         string
	AdditionalImages []string
	VideoURL         *string
	AdditionalVideos []string
	Categories       []string
}

// TagInput carries the editable fields of a tag.
type TagInput struct {
	Name        string
	Group       *string
	Description *string
}

// MutationService performs admin-gated writes to the catalog.
type MutationService struct {
	games  GameStore
	tags   TagStore
	gate   AdminResolver
	events Publisher
	now    func() time.Time
}

// NewMutationService wires the write path. events may be nil.
func NewMutationService(games GameStore, tags TagStore, gate AdminResolver, events Publisher) *MutationService {
	return &MutationService{
		games:  games,
		tags:   tags,
		gate:   gate,
		events: events,
		now:    time.Now,
	}
}

// region --- Games ---

// AddGame inserts a game stamped with the admin who created it.
func (s *MutationService) AddGame(ctx context.Context, caller *identity.Caller, in GameInput) (game *models.Game, err error) {
	defer func() { metrics.ObserveMutation("add_game", err) }()

	info, err := s.requireAdmin(ctx, caller, "add games")
	if err != nil {
		return nil, err
	}
	in, err = in.normalize()
	if err != nil {
		return nil, err
	}

	game = &models.Game{
		Title:            in.Title,
		Description:      in.Description,
		ImageURL:         in.ImageURL,
		AdditionalImages: in.AdditionalImages,
		VideoURL:         in.VideoURL,
		AdditionalVideos: in.AdditionalVideos,
		Categories:       in.Categories,
		CreatedAt:        s.now().UTC(),
		CreatedBy:        info.UserID,
		CreatedByName:    info.Name,
	}
	if err = s.games.Create(ctx, game); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"game_id": game.ID, "admin": info.Name}).Info("Game added")
	s.publish(EventGameAdded, game.ID)
	return game, nil
}

// UpdateGame rewrites every editable field of an existing game.
func (s *MutationService) UpdateGame(ctx context.Context, caller *identity.Caller, id uint, in GameInput) (game *models.Game, err error) {
	defer func() { metrics.ObserveMutation("update_game", err) }()

	info, err := s.requireAdmin(ctx, caller, "edit games")
	if err != nil {
		return nil, err
	}
	in, err = in.normalize()
	if err != nil {
		return nil, err
	}

	game, err = s.games.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("game")
		}
		return nil, err
	}

	now := s.now().UTC()
	game.Title = in.Title
	game.Description = in.Description
	game.ImageURL = in.ImageURL
	game.AdditionalImages = in.AdditionalImages
	game.VideoURL = in.VideoURL
	game.AdditionalVideos = in.AdditionalVideos
	game.Categories = in.Categories
	game.UpdatedAt = &now
	game.UpdatedBy = &info.UserID
	game.UpdatedByName = &info.Name

	if err = s.games.Update(ctx, game); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("game")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"game_id": game.ID, "admin": info.Name}).Info("Game updated")
	s.publish(EventGameUpdated, game.ID)
	return game, nil
}

// RemoveGame deletes a game. Removing a missing game succeeds.
func (s *MutationService) RemoveGame(ctx context.Context, caller *identity.Caller, id uint) (err error) {
	defer func() { metrics.ObserveMutation("remove_game", err) }()

	info, err := s.requireAdmin(ctx, caller, "delete games")
	if err != nil {
		return err
	}
	if err = s.games.Delete(ctx, id); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"game_id": id, "admin": info.Name}).Info("Game removed")
	s.publish(EventGameRemoved, id)
	return nil
}

// endregion

// region --- Tags ---

// AddTag inserts a tag whose name no other tag uses.
func (s *MutationService) AddTag(ctx context.Context, caller *identity.Caller, in TagInput) (tag *models.Tag, err error) {
	defer func() { metrics.ObserveMutation("add_tag", err) }()

	info, err := s.requireAdmin(ctx, caller, "add tags")
	if err != nil {
		return nil, err
	}
	in, err = in.normalize()
	if err != nil {
		return nil, err
	}

	if _, err = s.tags.FindByName(ctx, in.Name); err == nil {
		return nil, &Error{Kind: ErrDuplicateName, Message: ErrDuplicateName.Error()}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	tag = &models.Tag{
		Name:          in.Name,
		Group:         in.Group,
		Description:   in.Description,
		CreatedAt:     s.now().UTC(),
		CreatedBy:     info.UserID,
		CreatedByName: info.Name,
	}
	if err = s.tags.Create(ctx, tag); err != nil {
		// Lost a race with a concurrent insert of the same name.
		if errors.Is(err, store.ErrDuplicateName) {
			return nil, &Error{Kind: ErrDuplicateName, Message: ErrDuplicateName.Error()}
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"tag_id": tag.ID, "tag": tag.Name, "admin": info.Name}).Info("Tag added")
	s.publish(EventTagAdded, tag.ID)
	return tag, nil
}

// UpdateTag renames or regroups a tag. Games keep the category labels they
// already carry.
func (s *MutationService) UpdateTag(ctx context.Context, caller *identity.Caller, id uint, in TagInput) (tag *models.Tag, err error) {
	defer func() { metrics.ObserveMutation("update_tag", err) }()

	info, err := s.requireAdmin(ctx, caller, "edit tags")
	if err != nil {
		return nil, err
	}
	in, err = in.normalize()
	if err != nil {
		return nil, err
	}

	tag, err = s.tags.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("tag")
		}
		return nil, err
	}

	existing, err := s.tags.FindByName(ctx, in.Name)
	switch {
	case err == nil && existing.ID != tag.ID:
		return nil, &Error{Kind: ErrDuplicateName, Message: "another tag with this name already exists"}
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	now := s.now().UTC()
	tag.Name = in.Name
	tag.Group = in.Group
	tag.Description = in.Description
	tag.UpdatedAt = &now
	tag.UpdatedBy = &info.UserID
	tag.UpdatedByName = &info.Name

	if err = s.tags.Update(ctx, tag); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateName):
			return nil, &Error{Kind: ErrDuplicateName, Message: "another tag with this name already exists"}
		case errors.Is(err, store.ErrNotFound):
			return nil, notFound("tag")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"tag_id": tag.ID, "tag": tag.Name, "admin": info.Name}).Info("Tag updated")
	s.publish(EventTagUpdated, tag.ID)
	return tag, nil
}

// RemoveTag deletes a tag that no game references.
func (s *MutationService) RemoveTag(ctx context.Context, caller *identity.Caller, id uint) (err error) {
	defer func() { metrics.ObserveMutation("remove_tag", err) }()

	info, err := s.requireAdmin(ctx, caller, "delete tags")
	if err != nil {
		return err
	}

	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("tag")
		}
		return err
	}

	inUse, err := s.games.ReferencesCategory(ctx, tag.Name)
	if err != nil {
		return err
	}
	if inUse {
		return &Error{Kind: ErrTagInUse, Message: ErrTagInUse.Error()}
	}

	if err = s.tags.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("tag")
		}
		return err
	}

	logrus.WithFields(logrus.Fields{"tag_id": id, "tag": tag.Name, "admin": info.Name}).Info("Tag removed")
	s.publish(EventTagRemoved, id)
	return nil
}

// endregion

// requireAdmin resolves the caller and denies anyone who is not an admin.
func (s *MutationService) requireAdmin(ctx context.Context, caller *identity.Caller, action string) (*admin.Info, error) {
	info, err := s.gate.ResolveAdmin(ctx, caller)
	if err != nil {
		return nil, err
	}
	if info == nil {
		entry := logrus.WithField("action", action)
		if caller != nil {
			entry = entry.WithField("user_id", caller.UserID)
		}
		entry.Warn("Catalog mutation denied")
		return nil, denied(action)
	}
	return info, nil
}

func (s *MutationService) publish(eventType string, id uint) {
	if s.events == nil {
		return
	}
	s.events.Broadcast(EventsTopic, hub.Event{
		Type:    eventType,
		Payload: map[string]uint{"id": id},
	})
}

func (in GameInput) normalize() (GameInput, error) {
	out := GameInput{
		Title:            strings.TrimSpace(in.Title),
		Description:      strings.TrimSpace(in.Description),
		ImageURL:         strings.TrimSpace(in.ImageURL),
		AdditionalImages: compact(in.AdditionalImages, false),
		VideoURL:         optional(in.VideoURL),
		AdditionalVideos: compact(in.AdditionalVideos, false),
		Categories:       compact(in.Categories, true),
	}

	switch {
	case out.Title == "":
		return out, invalid("title is required")
	case out.Description == "":
		return out, invalid("description is required")
	case out.ImageURL == "":
		return out, invalid("image url is required")
	case len(out.Categories) == 0:
		return out, invalid("at least one category is required")
	}
	return out, nil
}

func (in TagInput) normalize() (TagInput, error) {
	out := TagInput{
		Name:        strings.TrimSpace(in.Name),
		Group:       optional(in.Group),
		Description: optional(in.Description),
	}
	if out.Name == "" {
		return out, invalid("tag name is required")
	}
	return out, nil
}

// compact trims entries and drops blank ones, optionally dropping repeats.
// The result is never nil.
func compact(values []string, unique bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if unique {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
		}
		out = append(out, v)
	}
	return out
}

// optional trims s, mapping a blank value to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
