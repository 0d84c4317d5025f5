package handler

import (
	"net/http"
	"strings"
	"time"

	"gamecatalog/backend/internal/auth"
	"gamecatalog/backend/internal/catalog"
	"gamecatalog/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// GameRequest carries the editable fields of a game. Required fields are
// validated by the catalog after the admin check.
type GameRequest struct {
	Title            string   `json:"title" example:"Portal 2"`
	Description      string   `json:"description" example:"A cooperative puzzle game."`
	ImageURL         string   `json:"image_url" example:"https://cdn.example.com/portal2.jpg"`
	AdditionalImages []string `json:"additional_images"`
	VideoURL         *string  `json:"video_url" example:"https://video.example.com/portal2"`
	AdditionalVideos []string `json:"additional_videos"`
	Categories       []string `json:"categories" example:"Co-op,Puzzle"`
}

func (r GameRequest) toInput() catalog.GameInput {
	return catalog.GameInput{
		Title:            r.Title,
		Description:      r.Description,
		ImageURL:         r.ImageURL,
		AdditionalImages: r.AdditionalImages,
		VideoURL:         r.VideoURL,
		AdditionalVideos: r.AdditionalVideos,
		Categories:       r.Categories,
	}
}

type GameResponse struct {
	ID               uint       `json:"id" example:"1"`
	Title            string     `json:"title" example:"Portal 2"`
	Description      string     `json:"description"`
	ImageURL         string     `json:"image_url"`
	AdditionalImages []string   `json:"additional_images"`
	VideoURL         *string    `json:"video_url,omitempty"`
	AdditionalVideos []string   `json:"additional_videos"`
	Categories       []string   `json:"categories"`
	CreatedAt        time.Time  `json:"created_at"`
	CreatedBy        uint       `json:"created_by"`
	CreatedByName    string     `json:"created_by_name"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
	UpdatedBy        *uint      `json:"updated_by,omitempty"`
	UpdatedByName    *string    `json:"updated_by_name,omitempty"`
}

func newGameResponse(game models.Game) GameResponse {
	return GameResponse{
		ID:               game.ID,
		Title:            game.Title,
		Description:      game.Description,
		ImageURL:         game.ImageURL,
		AdditionalImages: nonNil(game.AdditionalImages),
		VideoURL:         game.VideoURL,
		AdditionalVideos: nonNil(game.AdditionalVideos),
		Categories:       nonNil(game.Categories),
		CreatedAt:        game.CreatedAt,
		CreatedBy:        game.CreatedBy,
		CreatedByName:    game.CreatedByName,
		UpdatedAt:        game.UpdatedAt,
		UpdatedBy:        game.UpdatedBy,
		UpdatedByName:    game.UpdatedByName,
	}
}

// DeletedResponse reports the id of a removed record.
type DeletedResponse struct {
	ID uint `json:"id" example:"1"`
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// endregion

// region --- Public Handlers ---

// ListGames godoc
// @Summary      List games
// @Description  Lists every game, newest first. Filters by category (any of the given tags) and by title search.
// @Tags         games
// @Produce      json
// @Param        categories query     string  false  "Comma-separated tag names"
// @Param        q          query     string  false  "Title search"
// @Success      200        {array}   GameResponse
// @Failure      500        {object}  ErrorResponse
// @Router       /games [get]
func (h *Handler) ListGames(c *gin.Context) {
	filter := catalog.GameFilter{
		Categories: splitCategories(c.QueryArray("categories")),
		Search:     c.Query("q"),
	}

	games, err := h.query.ListGames(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]GameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, newGameResponse(game))
	}
	c.JSON(http.StatusOK, response)
}

// GetGame godoc
// @Summary      Get a game
// @Description  Retrieves a single game by its ID.
// @Tags         games
// @Produce      json
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  GameResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func (h *Handler) GetGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, http.StatusNotFound, codeNotFound, "game not found")
		return
	}

	game, err := h.query.GetGame(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if game == nil {
		respondError(c, http.StatusNotFound, codeNotFound, "game not found")
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game))
}

// splitCategories accepts both ?categories=a,b and repeated ?categories= values.
func splitCategories(values []string) []string {
	var out []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// endregion

// region --- Admin Handlers ---

// CreateGame godoc
// @Summary      Create a new game
// @Description  Adds a game to the catalog. Requires a verified admin code.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameRequest true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not authorized to add games"
// @Router       /admin/games [post]
func (h *Handler) CreateGame(c *gin.Context) {
	var input GameRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}

	game, err := h.mutation.AddGame(c.Request.Context(), auth.CallerFrom(c), input.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGameResponse(*game))
}

// UpdateGame godoc
// @Summary      Update a game
// @Description  Replaces every editable field of a game. Requires a verified admin code.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Game ID"
// @Param        input body      GameRequest  true  "New Game Info"
// @Success      200   {object}  GameResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Not authorized to edit games"
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /admin/games/{id} [put]
func (h *Handler) UpdateGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, codeInvalidInput, "Invalid ID")
		return
	}

	var input GameRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}

	game, err := h.mutation.UpdateGame(c.Request.Context(), auth.CallerFrom(c), id, input.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game))
}

// DeleteGame godoc
// @Summary      Delete a game
// @Description  Removes a game. Deleting a game that does not exist succeeds.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  DeletedResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not authorized to delete games"
// @Router       /admin/games/{id} [delete]
func (h *Handler) DeleteGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, codeInvalidInput, "Invalid ID")
		return
	}

	if err := h.mutation.RemoveGame(c.Request.Context(), auth.CallerFrom(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeletedResponse{ID: id})
}

// endregion
