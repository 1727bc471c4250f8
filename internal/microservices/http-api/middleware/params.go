package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ValidIDParams answers 404 when one of the named path parameters is
// present but not a UUID. Every primary key is a uuid column, so such a
// request can never match a row.
func ValidIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			v := c.Param(name)
			if v == "" {
				continue
			}
			if _, err := uuid.Parse(v); err != nil {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found: " + name + " is not a valid id"})
				return
			}
		}
		c.Next()
	}
}
