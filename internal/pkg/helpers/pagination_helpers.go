package helpers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ParseLimit reads the "limit" query parameter. A missing value yields def;
// values above max are capped. Non-numeric or negative values are rejected.
func ParseLimit(c *gin.Context, def, max int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return def, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("limit must be a non-negative integer, got %q", raw))
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit, nil
}

// ParseBoolQuery reads a boolean query parameter, false when absent
func ParseBoolQuery(c *gin.Context, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationError(fmt.Sprintf("%s must be a boolean, got %q", key, raw))
	}
	return v, nil
}
