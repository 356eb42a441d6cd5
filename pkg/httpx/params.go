// Package httpx holds small gin helpers shared by the delivery layers.
package httpx

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamID parses a positive integer path parameter. On failure it writes a
// 400 response and returns false.
func ParamID(c *gin.Context, name string) (uint, bool) {
	return parseID(c, c.Param(name), name)
}

// QueryID is ParamID for query string parameters.
func QueryID(c *gin.Context, name string) (uint, bool) {
	return parseID(c, c.Query(name), name)
}

func parseID(c *gin.Context, raw, name string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// IdempotencyKey returns the request's Idempotency-Key header, if any.
func IdempotencyKey(c *gin.Context) string {
	return c.GetHeader("Idempotency-Key")
}
