package handler

import (
	"net/http"
	"time"

	"gamecatalog/backend/internal/auth"
	"gamecatalog/backend/internal/catalog"
	"gamecatalog/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type TagRequest struct {
	Name        string  `json:"name" example:"Co-op"`
	Group       *string `json:"group" example:"Play Style"`
	Description *string `json:"description" example:"Games played together with friends."`
}

type TagResponse struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Group         *string    `json:"group"`
	Description   *string    `json:"description,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CreatedBy     uint       `json:"created_by"`
	CreatedByName string     `json:"created_by_name"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	UpdatedBy     *uint      `json:"updated_by,omitempty"`
	UpdatedByName *string    `json:"updated_by_name,omitempty"`
}

func newTagResponse(tag models.Tag) TagResponse {
	return TagResponse{
		ID:            tag.ID,
		Name:          tag.Name,
		Group:         tag.Group,
		Description:   tag.Description,
		CreatedAt:     tag.CreatedAt,
		CreatedBy:     tag.CreatedBy,
		CreatedByName: tag.CreatedByName,
		UpdatedAt:     tag.UpdatedAt,
		UpdatedBy:     tag.UpdatedBy,
		UpdatedByName: tag.UpdatedByName,
	}
}

func newTagResponses(tags []models.Tag) []TagResponse {
	response := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		response = append(response, newTagResponse(tag))
	}
	return response
}

type TagGroupResponse struct {
	Name      string        `json:"name" example:"Genres"`
	Ungrouped bool          `json:"ungrouped"`
	Tags      []TagResponse `json:"tags"`
}

// endregion

// region --- Public Handlers ---

// ListTags godoc
// @Summary      Get all tags
// @Description  Retrieves every tag with its group and description.
// @Tags         tags
// @Produce      json
// @Success      200  {array}   TagResponse
// @Router       /tags [get]
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.query.ListTagsWithDetail(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTagResponses(tags))
}

// ListTagNames godoc
// @Summary      Get tag names
// @Description  Retrieves the name of every tag.
// @Tags         tags
// @Produce      json
// @Success      200  {array}   string
// @Router       /tags/names [get]
func (h *Handler) ListTagNames(c *gin.Context) {
	names, err := h.query.ListTagNames(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// ListTagGroups godoc
// @Summary      Get tags by group
// @Description  Retrieves tags bucketed by group. Tags without a group come last, in an "ungrouped" bucket.
// @Tags         tags
// @Produce      json
// @Success      200  {array}   TagGroupResponse
// @Router       /tags/groups [get]
func (h *Handler) ListTagGroups(c *gin.Context) {
	groups, err := h.query.ListTagGroups(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]TagGroupResponse, 0, len(groups))
	for _, group := range groups {
		response = append(response, TagGroupResponse{
			Name:      group.Name,
			Ungrouped: group.Ungrouped,
			Tags:      newTagResponses(group.Tags),
		})
	}
	c.JSON(http.StatusOK, response)
}

// endregion

// region --- Admin Handlers ---

// CreateTag godoc
// @Summary      Create a new tag
// @Description  Creates a new tag for games. Requires a verified admin code.
// @Tags         admin-tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body TagRequest true "Tag Info"
// @Success      201  {object}  TagResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not authorized to add tags"
// @Failure      409  {object}  ErrorResponse "Tag already exists"
// @Router       /admin/tags [post]
func (h *Handler) CreateTag(c *gin.Context) {
	var input TagRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}

	tag, err := h.mutation.AddTag(c.Request.Context(), auth.CallerFrom(c), catalog.TagInput(input))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTagResponse(*tag))
}

// UpdateTag godoc
// @Summary      Update a tag
// @Description  Renames or regroups a tag. Games keep the labels they already carry.
// @Tags         admin-tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int      true  "Tag ID"
// @Param        input body TagRequest true "New Tag Info"
// @Success      200  {object}  TagResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not authorized to edit tags"
// @Failure      404  {object}  ErrorResponse "Tag not found"
// @Failure      409  {object}  ErrorResponse "Another tag has this name"
// @Router       /admin/tags/{id} [put]
func (h *Handler) UpdateTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, codeInvalidInput, "Invalid ID")
		return
	}

	var input TagRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}

	tag, err := h.mutation.UpdateTag(c.Request.Context(), auth.CallerFrom(c), id, catalog.TagInput(input))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTagResponse(*tag))
}

// DeleteTag godoc
// @Summary      Delete a tag
// @Description  Deletes a tag that no game references.
// @Tags         admin-tags
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Tag ID"
// @Success      200  {object}  DeletedResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not authorized to delete tags"
// @Failure      404  {object}  ErrorResponse "Tag not found"
// @Failure      409  {object}  ErrorResponse "Tag is in use"
// @Router       /admin/tags/{id} [delete]
func (h *Handler) DeleteTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, codeInvalidInput, "Invalid ID")
		return
	}

	if err := h.mutation.RemoveTag(c.Request.Context(), auth.CallerFrom(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeletedResponse{ID: id})
}

// endregion
