package response

import "github.com/gin-gonic/gin"

// Pagination is attached to list responses next to data.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// OK is a success without a payload.
func OK(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"message": message,
	})
}

func Paginated(c *gin.Context, statusCode int, data interface{}, p Pagination) {
	c.JSON(statusCode, gin.H{
		"success":    true,
		"data":       data,
		"pagination": p,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// Abort writes an error and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// PaginatedError keeps the list shape so clients can render an empty page.
func PaginatedError(c *gin.Context, statusCode int, code string, message string, empty interface{}, p Pagination) {
	c.JSON(statusCode, gin.H{
		"success":    false,
		"error":      message,
		"code":       code,
		"data":       empty,
		"pagination": p,
	})
}
