package handler

import (
	"net/http"

	"gamecatalog/backend/internal/auth"
	"gamecatalog/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Nickname string `json:"nickname" binding:"required" example:"testuser"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UserResponse defines the structure for the authenticated user's own profile.
type UserResponse struct {
	ID          uint    `json:"id" example:"1"`
	Nickname    *string `json:"nickname,omitempty" example:"testuser"`
	Email       *string `json:"email,omitempty" example:"test@example.com"`
	IsAnonymous bool    `json:"is_anonymous"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Nickname:    user.Nickname,
		Email:       user.Email,
		IsAnonymous: user.IsAnonymous,
	}
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func newTokenResponse(session *auth.Session) TokenResponse {
	return TokenResponse{Token: session.Token, User: newUserResponse(session.User)}
}

// endregion

// region --- Auth Handlers ---

// SignInAnonymous godoc
// @Summary      Sign in anonymously
// @Description  Creates a credential-less user and returns an authentication token. Admin codes are verified against this identity.
// @Tags         auth
// @Produce      json
// @Success      201  {object}  TokenResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/anonymous [post]
func (h *Handler) SignInAnonymous(c *gin.Context) {
	session, err := h.auth.SignInAnonymous(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTokenResponse(session))
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}

	session, err := h.auth.Register(c.Request.Context(), auth.Registration(input))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTokenResponse(session))
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates a user with nickname/email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}

	session, err := h.auth.Login(c.Request.Context(), input.Login, input.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTokenResponse(session))
}

// GetMe godoc
// @Summary      Get current user
// @Description  Retrieves the profile of the currently authenticated user.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), auth.CallerFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// endregion
