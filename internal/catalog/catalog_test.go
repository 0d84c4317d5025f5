package catalog_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"gamecatalog/backend/internal/admin"
	"gamecatalog/backend/internal/catalog"
	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/identity"
	"gamecatalog/backend/internal/models"
	"gamecatalog/backend/internal/store"
	"gamecatalog/backend/internal/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []hub.Event
}

func (r *recordedEvents) Broadcast(topic string, event hub.Event) {
	if topic != catalog.EventsTopic {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	games    *store.GameStore
	tags     *store.TagStore
	query    *catalog.QueryService
	mutation *catalog.MutationService
	events   *recordedEvents

	admin    *identity.Caller
	visitor  *identity.Caller
	stranger *identity.Caller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	ctx := context.Background()

	users := store.NewUserStore(db)
	adminUser := &models.User{IsAnonymous: true}
	require.NoError(t, users.Create(ctx, adminUser))
	visitorUser := &models.User{IsAnonymous: true}
	require.NoError(t, users.Create(ctx, visitorUser))

	gate := admin.NewGate(users, admin.CodeTable{"M16K3u6uAt": "Admin 1"})
	_, err := gate.VerifyAndAssignCode(ctx, &identity.Caller{UserID: adminUser.ID}, "M16K3u6uAt")
	require.NoError(t, err)

	f := &fixture{
		games:    store.NewGameStore(db),
		tags:     store.NewTagStore(db),
		events:   &recordedEvents{},
		admin:    &identity.Caller{UserID: adminUser.ID, Anonymous: true},
		visitor:  &identity.Caller{UserID: visitorUser.ID, Anonymous: true},
		stranger: nil,
	}
	f.query = catalog.NewQueryService(f.games, f.tags)
	f.mutation = catalog.NewMutationService(f.games, f.tags, gate, f.events)
	return f
}

func gameInput(title string, categories ...string) catalog.GameInput {
	return catalog.GameInput{
		Title:       title,
		Description: title + " is a game.",
		ImageURL:    "https://x/" + title + ".jpg",
		Categories:  categories,
	}
}

func str(s string) *string { return &s }

func titles(games []models.Game) []string {
	out := make([]string, 0, len(games))
	for _, g := range games {
		out = append(out, g.Title)
	}
	return out
}

// region --- Query ---

func TestListGames_CategoryFilterIsUnion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, in := range []catalog.GameInput{
		gameInput("Portal 2", "Co-op", "Puzzle"),
		gameInput("Diablo", "RPG"),
		gameInput("Tetris", "Puzzle"),
		gameInput("Doom", "Shooter"),
	} {
		_, err := f.mutation.AddGame(ctx, f.admin, in)
		require.NoError(t, err)
	}

	tests := []struct {
		name       string
		categories []string
		want       []string
	}{
		{"no filter", nil, []string{"Portal 2", "Diablo", "Tetris", "Doom"}},
		{"blank entries ignored", []string{""}, []string{"Portal 2", "Diablo", "Tetris", "Doom"}},
		{"single", []string{"Puzzle"}, []string{"Portal 2", "Tetris"}},
		{"or across categories", []string{"RPG", "Shooter"}, []string{"Diablo", "Doom"}},
		{"unknown category", []string{"Racing"}, []string{}},
		{"case-sensitive", []string{"puzzle"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.query.ListGames(ctx, catalog.GameFilter{Categories: tt.categories})
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, titles(got))
		})
	}
}

func TestListGames_SearchSortedNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	seed := []struct {
		title string
		at    time.Time
		cats  []string
	}{
		{"Portal", base, []string{"Puzzle"}},
		{"Portal 2", base.Add(2 * time.Hour), []string{"Co-op", "Puzzle"}},
		{"Half-Life", base.Add(time.Hour), []string{"Shooter"}},
		{"Portal Stories", base.Add(time.Hour), []string{"Puzzle"}},
	}
	for _, s := range seed {
		g := &models.Game{
			Title: s.title, Description: "d", ImageURL: "https://x/i.jpg",
			Categories: s.cats, CreatedAt: s.at, CreatedBy: 1,
		}
		require.NoError(t, f.games.Create(ctx, g))
	}

	got, err := f.query.ListGames(ctx, catalog.GameFilter{Search: "portal"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Portal 2", "Portal Stories", "Portal"}, titles(got))

	got, err = f.query.ListGames(ctx, catalog.GameFilter{Search: "portal", Categories: []string{"Co-op"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Portal 2"}, titles(got))

	got, err = f.query.ListGames(ctx, catalog.GameFilter{Search: "  "})
	require.NoError(t, err)
	assert.Len(t, got, 4, "a blank search lists everything")
}

func TestGetGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	added, err := f.mutation.AddGame(ctx, f.admin, gameInput("Portal 2", "Co-op"))
	require.NoError(t, err)

	got, err := f.query.GetGame(ctx, added.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Portal 2", got.Title)
	assert.Equal(t, "Admin 1", got.CreatedByName)
	assert.Nil(t, got.UpdatedAt)

	for _, id := range []uint{0, added.ID + 1} {
		got, err = f.query.GetGame(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestTagViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, in := range []catalog.TagInput{
		{Name: "RPG", Group: str("Genres")},
		{Name: "Legacy"},
		{Name: "PC", Group: str("Platforms")},
		{Name: "Puzzle", Group: str("Genres"), Description: str("Brain teasers")},
	} {
		_, err := f.mutation.AddTag(ctx, f.admin, in)
		require.NoError(t, err)
	}

	names, err := f.query.ListTagNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"RPG", "Legacy", "PC", "Puzzle"}, names)

	detailed, err := f.query.ListTagsWithDetail(ctx)
	require.NoError(t, err)
	require.Len(t, detailed, 4)
	assert.Nil(t, detailed[1].Group)
	require.NotNil(t, detailed[3].Description)
	assert.Equal(t, "Brain teasers", *detailed[3].Description)

	groups, err := f.query.ListTagGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Genres", groups[0].Name)
	assert.Len(t, groups[0].Tags, 2)
	assert.Equal(t, "Platforms", groups[1].Name)
	assert.True(t, groups[2].Ungrouped)
	assert.Equal(t, "Legacy", groups[2].Tags[0].Name)
}

func TestGroupTags_NoUngroupedBucketWhenEveryTagHasAGroup(t *testing.T) {
	groups := catalog.GroupTags([]models.Tag{
		{Name: "A", Group: str("G1")},
		{Name: "B", Group: str("G2")},
		{Name: "C", Group: str("G1")},
		{Name: "D", Group: str("")},
	})
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"G1", "G2", catalog.UngroupedName}, []string{groups[0].Name, groups[1].Name, groups[2].Name})

	assert.Empty(t, catalog.GroupTags(nil))
}

// endregion

// region --- Mutations ---

func TestAddGame_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*catalog.GameInput)
	}{
		{"missing title", func(in *catalog.GameInput) { in.Title = "  " }},
		{"missing description", func(in *catalog.GameInput) { in.Description = "" }},
		{"missing image", func(in *catalog.GameInput) { in.ImageURL = "" }},
		{"no categories", func(in *catalog.GameInput) { in.Categories = []string{" ", ""} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := gameInput("Portal 2", "Co-op")
			tt.mutate(&in)
			_, err := f.mutation.AddGame(ctx, f.admin, in)
			assert.ErrorIs(t, err, catalog.ErrInvalidInput)
		})
	}

	all, err := f.query.ListGames(ctx, catalog.GameFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddGame_NormalizesOptionalFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := gameInput("Portal 2", "Co-op", "Puzzle", "Co-op")
	in.VideoURL = str("   ")
	in.AdditionalImages = []string{"https://x/1.jpg", "", "https://x/2.jpg"}

	game, err := f.mutation.AddGame(ctx, f.admin, in)
	require.NoError(t, err)

	got, err := f.query.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Co-op", "Puzzle"}, []string(got.Categories))
	assert.Nil(t, got.VideoURL)
	assert.Equal(t, []string{"https://x/1.jpg", "https://x/2.jpg"}, []string(got.AdditionalImages))
	assert.NotNil(t, got.AdditionalVideos)
	assert.Empty(t, got.AdditionalVideos)
}

func TestUpdateGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fixed := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	catalog.SetClock(f.mutation, func() time.Time { return fixed })

	game, err := f.mutation.AddGame(ctx, f.admin, gameInput("Portl", "Puzzle"))
	require.NoError(t, err)

	in := gameInput("Portal", "Puzzle")
	in.VideoURL = str("https://video.example/portal")
	updated, err := f.mutation.UpdateGame(ctx, f.admin, game.ID, in)
	require.NoError(t, err)
	assert.Equal(t, game.ID, updated.ID)

	got, err := f.query.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portal", got.Title)
	require.NotNil(t, got.VideoURL)
	assert.Equal(t, "https://video.example/portal", *got.VideoURL)
	require.NotNil(t, got.UpdatedAt)
	assert.WithinDuration(t, fixed, *got.UpdatedAt, time.Second)
	require.NotNil(t, got.UpdatedByName)
	assert.Equal(t, "Admin 1", *got.UpdatedByName)
	assert.Equal(t, f.admin.UserID, got.CreatedBy)

	_, err = f.mutation.UpdateGame(ctx, f.admin, game.ID+10, in)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestRemoveGame_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	game, err := f.mutation.AddGame(ctx, f.admin, gameInput("Portal 2", "Co-op"))
	require.NoError(t, err)

	require.NoError(t, f.mutation.RemoveGame(ctx, f.admin, game.ID))
	require.NoError(t, f.mutation.RemoveGame(ctx, f.admin, game.ID))
	require.NoError(t, f.mutation.RemoveGame(ctx, f.admin, 9999))

	got, err := f.query.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTagNameUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mutation.AddTag(ctx, f.admin, catalog.TagInput{Name: "Action", Group: str("Genres")})
	require.NoError(t, err)

	_, err = f.mutation.AddTag(ctx, f.admin, catalog.TagInput{Name: "Action"})
	assert.ErrorIs(t, err, catalog.ErrDuplicateName)

	other, err := f.mutation.AddTag(ctx, f.admin, catalog.TagInput{Name: "Puzzle", Group: str("Genres")})
	require.NoError(t, err)

	_, err = f.mutation.UpdateTag(ctx, f.admin, other.ID, catalog.TagInput{Name: "Action"})
	assert.ErrorIs(t, err, catalog.ErrDuplicateName)

	// Keeping its own name is not a collision.
	updated, err := f.mutation.UpdateTag(ctx, f.admin, other.ID, catalog.TagInput{Name: "Puzzle", Description: str("Thinky")})
	require.NoError(t, err)
	assert.Nil(t, updated.Group, "an omitted group is cleared")
	require.NotNil(t, updated.UpdatedByName)
	assert.Equal(t, "Admin 1", *updated.UpdatedByName)

	_, err = f.mutation.UpdateTag(ctx, f.admin, other.ID+100, catalog.TagInput{Name: "Nope"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestRemoveTag_ReferenceGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tag, err := f.mutation.AddTag(ctx, f.admin, catalog.TagInput{Name: "Action", Group: str("Genres")})
	require.NoError(t, err)
	game, err := f.mutation.AddGame(ctx, f.admin, gameInput("Doom", "Action", "Shooter"))
	require.NoError(t, err)

	err = f.mutation.RemoveTag(ctx, f.admin, tag.ID)
	assert.ErrorIs(t, err, catalog.ErrTagInUse)

	_, err = f.mutation.UpdateGame(ctx, f.admin, game.ID, gameInput("Doom", "Shooter"))
	require.NoError(t, err)

	require.NoError(t, f.mutation.RemoveTag(ctx, f.admin, tag.ID))

	err = f.mutation.RemoveTag(ctx, f.admin, tag.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestMutations_DeniedForNonAdmins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tag, err := f.mutation.AddTag(ctx, f.admin, catalog.TagInput{Name: "Co-op", Group: str("Play Style")})
	require.NoError(t, err)
	game, err := f.mutation.AddGame(ctx, f.admin, gameInput("Portal 2", "Co-op"))
	require.NoError(t, err)

	snapshot := func() ([]models.Game, []models.Tag) {
		games, err := f.query.ListGames(ctx, catalog.GameFilter{})
		require.NoError(t, err)
		tags, err := f.query.ListTagsWithDetail(ctx)
		require.NoError(t, err)
		return games, tags
	}
	gamesBefore, tagsBefore := snapshot()
	eventsBefore := len(f.events.types())

	ops := map[string]struct {
		run     func(caller *identity.Caller) error
		message string
	}{
		"add game": {func(c *identity.Caller) error {
			_, err := f.mutation.AddGame(ctx, c, gameInput("Half-Life", "Shooter"))
			return err
		}, "not authorized to add games"},
		"update game": {func(c *identity.Caller) error {
			_, err := f.mutation.UpdateGame(ctx, c, game.ID, gameInput("Hacked", "Co-op"))
			return err
		}, "not authorized to edit games"},
		"remove game": {func(c *identity.Caller) error {
			return f.mutation.RemoveGame(ctx, c, game.ID)
		}, "not authorized to delete games"},
		"add tag": {func(c *identity.Caller) error {
			_, err := f.mutation.AddTag(ctx, c, catalog.TagInput{Name: "Hacked"})
			return err
		}, "not authorized to add tags"},
		"update tag": {func(c *identity.Caller) error {
			_, err := f.mutation.UpdateTag(ctx, c, tag.ID, catalog.TagInput{Name: "Hacked"})
			return err
		}, "not authorized to edit tags"},
		"remove tag": {func(c *identity.Caller) error {
			return f.mutation.RemoveTag(ctx, c, tag.ID)
		}, "not authorized to delete tags"},
	}

	for name, op := range ops {
		for label, caller := range map[string]*identity.Caller{"signed-in visitor": f.visitor, "no caller": f.stranger} {
			t.Run(name+"/"+label, func(t *testing.T) {
				err := op.run(caller)
				assert.ErrorIs(t, err, catalog.ErrUnauthorized)
				assert.EqualError(t, err, op.message)
			})
		}
	}

	gamesAfter, tagsAfter := snapshot()
	assert.Equal(t, gamesBefore, gamesAfter)
	assert.Equal(t, tagsBefore, tagsAfter)
	assert.Len(t, f.events.types(), eventsBefore, "denied mutations publish nothing")
}

func TestMutations_DenialPrecedesValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.mutation.AddGame(context.Background(), f.visitor, catalog.GameInput{})
	assert.ErrorIs(t, err, catalog.ErrUnauthorized)

	_, err = f.mutation.UpdateTag(context.Background(), f.visitor, 12345, catalog.TagInput{})
	assert.ErrorIs(t, err, catalog.ErrUnauthorized)
}

func TestMutations_PublishEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tag, err := f.mutation.AddTag(ctx, f.admin, catalog.TagInput{Name: "RPG"})
	require.NoError(t, err)
	game, err := f.mutation.AddGame(ctx, f.admin, gameInput("Diablo", "RPG"))
	require.NoError(t, err)
	_, err = f.mutation.UpdateGame(ctx, f.admin, game.ID, gameInput("Diablo II", "Action"))
	require.NoError(t, err)
	require.NoError(t, f.mutation.RemoveGame(ctx, f.admin, game.ID))
	_, err = f.mutation.UpdateTag(ctx, f.admin, tag.ID, catalog.TagInput{Name: "ARPG"})
	require.NoError(t, err)
	require.NoError(t, f.mutation.RemoveTag(ctx, f.admin, tag.ID))

	assert.Equal(t, []string{
		catalog.EventTagAdded,
		catalog.EventGameAdded,
		catalog.EventGameUpdated,
		catalog.EventGameRemoved,
		catalog.EventTagUpdated,
		catalog.EventTagRemoved,
	}, f.events.types())
}

func TestCoopScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tag, err := f.mutation.AddTag(ctx, f.admin, catalog.TagInput{Name: "Co-op", Group: str("Play Style")})
	require.NoError(t, err)
	_, err = f.mutation.AddGame(ctx, f.admin, catalog.GameInput{
		Title:       "Portal 2",
		Description: "Two robots, one testing facility.",
		ImageURL:    "https://x/y.jpg",
		Categories:  []string{"Co-op"},
	})
	require.NoError(t, err)
	_, err = f.mutation.AddGame(ctx, f.admin, gameInput("Tetris", "Puzzle"))
	require.NoError(t, err)

	listed, err := f.query.ListGames(ctx, catalog.GameFilter{Categories: []string{"Co-op"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Portal 2"}, titles(listed))

	err = f.mutation.RemoveTag(ctx, f.admin, tag.ID)
	assert.ErrorIs(t, err, catalog.ErrTagInUse)
}

// endregion
