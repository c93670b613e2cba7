package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps the request body at maxMB megabytes. maxMB <= 0 disables it.
// Reads past the limit fail with *http.MaxBytesError.
func BodyLimit(maxMB int64) gin.HandlerFunc {
	if maxMB <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	maxBytes := maxMB << 20

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "La solicitud excede el tamaño máximo permitido",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
