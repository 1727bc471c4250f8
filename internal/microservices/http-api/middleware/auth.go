package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/service"
	"studytour/internal/shared"

	"github.com/gin-gonic/gin"
)

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(tokenString string) (*shared.AuthClaims, error)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// present is false when the header is missing.
func bearerToken(c *gin.Context) (token string, present bool, malformed bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false, false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", true, true
	}
	return parts[1], true, false
}

func setClaims(c *gin.Context, claims *shared.AuthClaims) {
	c.Set(shared.CtxClaims, claims)
	c.Set(shared.CtxUserID, claims.UserID)
	c.Set(shared.CtxEmail, claims.Email)
	c.Set(shared.CtxRole, claims.Role)
}

// OptionalAuth sets the caller's identity when a token is sent and lets
// anonymous requests through. A token that is sent but invalid is still a 401.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present, malformed := bearerToken(c)
		if !present {
			c.Next()
			return
		}
		if malformed {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}
		claims, err := validator.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. It relies on OptionalAuth having run.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		c.Next()
	}
}

// RequirePermission checks the caller's role against models.Permissions.
func RequirePermission(p models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		role := Role(c)
		if !role.Can(p) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Insufficient permissions",
				"required": string(p),
				"current":  string(role),
			})
			return
		}
		c.Next()
	}
}

// RoleSource loads the role currently stored for a user.
type RoleSource interface {
	CurrentRole(ctx context.Context, userID string) (models.Role, error)
}

// FreshRole replaces the role carried by the access token with the stored
// one, so a demotion applies before the token expires. Anonymous requests
// pass through untouched.
func FreshRole(src RoleSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == "" {
			c.Next()
			return
		}
		role, err := src.CurrentRole(c.Request.Context(), userID)
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		case err != nil:
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, please try again"})
			return
		}
		c.Set(shared.CtxRole, string(role))
		c.Next()
	}
}

// UserID returns the authenticated user's id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(shared.CtxUserID)
}

func Role(c *gin.Context) models.Role {
	return models.Role(c.GetString(shared.CtxRole))
}
