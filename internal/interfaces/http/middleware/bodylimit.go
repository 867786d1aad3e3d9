package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tradedocs/backend/internal/interfaces/http/dto"
)

// BodyLimit caps request bodies at maxBytes. A non-positive limit disables the check.
// Declared lengths are refused up front; chunked bodies fail with
// *http.MaxBytesError once the reader crosses the limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.Fail(
				dto.ErrCodeRequestTooLarge, "Request body is too large.", GetRequestID(c)))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
