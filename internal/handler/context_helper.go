package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/appkademy-api/internal/middleware"
	"github.com/noah-isme/appkademy-api/internal/models"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
	"github.com/noah-isme/appkademy-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// authorizeOwner lets admins through and otherwise requires the caller to be
// the user that owns the profile. It writes the error response itself.
func authorizeOwner(c *gin.Context, ownerUserID string) bool {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return false
	}
	if claims.IsAdmin() || claims.UserID == ownerUserID {
		return true
	}
	response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "profile belongs to another user"))
	return false
}

func optionalQuery(c *gin.Context, key string) *string {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	return &raw
}

func optionalIntQuery(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, key+" must be an integer")
	}
	return &v, nil
}

// listQuery accepts both repeated and comma-separated values.
func listQuery(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
