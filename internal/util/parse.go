package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// ParseLimit reads the "limit" query parameter. Missing, malformed or
// non-positive values fall back to defaultLimit; values above maxLimit are clamped.
func ParseLimit(c *gin.Context, defaultLimit, maxLimit int) int {
	limit := ParseInt(c.Query("limit"), defaultLimit)
	if limit <= 0 {
		return defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		return maxLimit
	}
	return limit
}
