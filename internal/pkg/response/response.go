// Package response writes the API's JSON envelope. Every endpoint
// replies with {"success": true, "data": ...} on the happy path or
// {"success": false, "error": {code, message, details?}} otherwise, so
// clients switch on a single boolean and a stable error code.
package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Error replies with a machine-readable code (e.g. BOOKING_CONFLICT,
// VALIDATION_ERROR) plus a human-readable message.
func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails is Error with a structured payload attached, used
// for per-field validation results.
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
