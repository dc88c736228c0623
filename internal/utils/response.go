package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseIDParam parses a positive integer path parameter
func ParseIDParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// SendListResponse sends a list with its derived count.
// A nil list is sent as [] so the UI never sees null.
func SendListResponse[T any](c *gin.Context, statusCode int, data []T, extra gin.H) {
	if data == nil {
		data = []T{}
	}
	body := gin.H{
		"data":  data,
		"count": len(data),
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// SendErrorResponse sends a standardized error response
func SendErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}
