package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StaffRequired lets through only tokens issued to staff users. Use after
// AuthRequired.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsStaff(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff access required"})
			return
		}
		c.Next()
	}
}
