package handler

import (
	"net/http"

	"gamecatalog/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

type VerifyCodeRequest struct {
	Code string `json:"code" example:"M16K3u6uAt"`
}

type VerifyCodeResponse struct {
	Name string `json:"name" example:"Admin 1"`
}

type AdminStatusResponse struct {
	IsAdmin   bool    `json:"is_admin"`
	AdminName *string `json:"admin_name"`
}

type AdminResponse struct {
	UserID uint   `json:"user_id" example:"1"`
	Name   string `json:"name" example:"Admin 1"`
}

// AdminStatus godoc
// @Summary      Check admin status
// @Description  Reports whether the caller holds a valid admin code. Anonymous requests are simply not admins.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  AdminStatusResponse
// @Router       /admin/status [get]
func (h *Handler) AdminStatus(c *gin.Context) {
	info, err := h.gate.ResolveAdmin(c.Request.Context(), auth.CallerFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := AdminStatusResponse{}
	if info != nil {
		response.IsAdmin = true
		response.AdminName = &info.Name
	}
	c.JSON(http.StatusOK, response)
}

// VerifyAdminCode godoc
// @Summary      Verify an admin code
// @Description  Stores a valid admin code on the caller's account and returns the admin display name.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body VerifyCodeRequest true "Admin code"
// @Success      200  {object}  VerifyCodeResponse
// @Failure      400  {object}  ErrorResponse "Invalid admin code"
// @Failure      401  {object}  ErrorResponse "Not signed in"
// @Router       /admin/verify [post]
func (h *Handler) VerifyAdminCode(c *gin.Context) {
	var input VerifyCodeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}

	name, err := h.gate.VerifyAndAssignCode(c.Request.Context(), auth.CallerFrom(c), input.Code)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, VerifyCodeResponse{Name: name})
}

// AdminMe godoc
// @Summary      Get the current admin
// @Description  Returns the admin identity of the caller.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  AdminResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/me [get]
func (h *Handler) AdminMe(c *gin.Context) {
	info := auth.AdminFrom(c)
	c.JSON(http.StatusOK, AdminResponse{UserID: info.UserID, Name: info.Name})
}
