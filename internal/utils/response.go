package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuccessResponse sends a standardized success response
func SuccessResponse(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// ErrorResponse sends a standardized error response
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}

// AbortWithAPIError writes apiErr and stops the handler chain.
func AbortWithAPIError(c *gin.Context, apiErr *APIError) {
	c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{
		"success": false,
		"error":   apiErr.Message,
		"code":    apiErr.Code,
	})
}

// ListResponse sends items with their count.
func ListResponse(c *gin.Context, items interface{}, count int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"count":   count,
	})
}
