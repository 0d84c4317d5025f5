package handler

import (
	"errors"
	"net/http"

	"gamecatalog/backend/internal/admin"
	"gamecatalog/backend/internal/auth"
	"gamecatalog/backend/internal/catalog"
	"gamecatalog/backend/internal/logging"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
	Code  string `json:"code" example:"not_found"`
}

// Machine-readable error codes.
const (
	codeUnauthenticated    = "unauthenticated"
	codeUnauthorized       = "unauthorized"
	codeInvalidCode        = "invalid_code"
	codeNotFound           = "not_found"
	codeDuplicateName      = "duplicate_name"
	codeTagInUse           = "tag_in_use"
	codeInvalidInput       = "invalid_input"
	codeAccountExists      = "account_exists"
	codeInvalidCredentials = "invalid_credentials"
	codeInternal           = "internal"
)

var errorKinds = []struct {
	err    error
	status int
	code   string
}{
	{admin.ErrUnauthenticated, http.StatusUnauthorized, codeUnauthenticated},
	{auth.ErrUnknownUser, http.StatusUnauthorized, codeUnauthenticated},
	{catalog.ErrUnauthorized, http.StatusForbidden, codeUnauthorized},
	{admin.ErrInvalidCode, http.StatusBadRequest, codeInvalidCode},
	{catalog.ErrNotFound, http.StatusNotFound, codeNotFound},
	{catalog.ErrDuplicateName, http.StatusConflict, codeDuplicateName},
	{catalog.ErrTagInUse, http.StatusConflict, codeTagInUse},
	{catalog.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput},
	{auth.ErrAccountExists, http.StatusConflict, codeAccountExists},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, codeInvalidCredentials},
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// handleServiceError maps a service error onto its HTTP status.
func handleServiceError(c *gin.Context, err error) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			respondError(c, kind.status, kind.code, err.Error())
			return
		}
	}

	logging.FromContext(c).WithError(err).Error("Request failed")
	respondError(c, http.StatusInternalServerError, codeInternal, "Internal server error")
}
