package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawhub/vetbook-api/internal/model"
)

// Context keys set by the auth middleware.
const (
	ContextClaims = "claims"
)

// CurrentClaims returns the authenticated user's token claims, or nil on
// unauthenticated routes.
func CurrentClaims(c *gin.Context) *model.TokenClaims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, ok := v.(*model.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// CurrentUserID returns the authenticated user's ID, uuid.Nil if absent.
func CurrentUserID(c *gin.Context) uuid.UUID {
	if claims := CurrentClaims(c); claims != nil {
		return claims.UserID
	}
	return uuid.Nil
}

// CurrentClinicID returns the staff user's clinic, uuid.Nil for owners.
func CurrentClinicID(c *gin.Context) uuid.UUID {
	if claims := CurrentClaims(c); claims != nil && claims.ClinicID != nil {
		return *claims.ClinicID
	}
	return uuid.Nil
}
