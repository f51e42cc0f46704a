package ginutil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// QueryInt extracts an integer from query parameters with default value
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// QueryBool returns nil when the parameter is absent or unparsable
func QueryBool(c *gin.Context, key string) *bool {
	valueStr := c.Query(key)
	if valueStr == "" {
		return nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return nil
	}
	return &value
}

// ParamInt extracts an integer from path parameters
func ParamInt(c *gin.Context, key string) (int, error) {
	return strconv.Atoi(c.Param(key))
}

// Pagination reads page and per_page, clamped to sane bounds
func Pagination(c *gin.Context) (page, perPage int) {
	page = QueryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage = QueryInt(c, "per_page", DefaultPerPage)
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}
