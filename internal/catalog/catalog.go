// Package catalog implements the read and write paths over games and tags.
package catalog

import (
	"context"

	"gamecatalog/backend/internal/admin"
	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/identity"
	"gamecatalog/backend/internal/models"
)

// EventsTopic is the hub topic catalog change events are published on.
const EventsTopic = "catalog"

// GameStore is the game persistence the services depend on.
type GameStore interface {
	List(ctx context.Context) ([]models.Game, error)
	SearchTitle(ctx context.Context, query string) ([]models.Game, error)
	FindByID(ctx context.Context, id uint) (*models.Game, error)
	Create(ctx context.Context, game *models.Game) error
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id uint) error
	ReferencesCategory(ctx context.Context, name string) (bool, error)
}

// TagStore is the tag persistence the services depend on.
type TagStore interface {
	List(ctx context.Context) ([]models.Tag, error)
	FindByID(ctx context.Context, id uint) (*models.Tag, error)
	FindByName(ctx context.Context, name string) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uint) error
}

// AdminResolver resolves a caller to an admin identity, nil meaning "not an admin".
type AdminResolver interface {
	ResolveAdmin(ctx context.Context, caller *identity.Caller) (*admin.Info, error)
}

// Publisher receives catalog change events.
type Publisher interface {
	Broadcast(topic string, event hub.Event)
}
