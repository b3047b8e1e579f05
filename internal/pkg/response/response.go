package response

import "github.com/gin-gonic/gin"

// Success writes data as the body as-is.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Message writes {"message": message}.
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// Error writes {"message": message, "error": err} for server faults.
func Error(c *gin.Context, statusCode int, message string, err error) {
	body := gin.H{"message": message}
	if err != nil {
		body["error"] = err.Error()
		_ = c.Error(err)
	}
	c.JSON(statusCode, body)
}

// ErrorWithDetails writes the message plus one extra keyed object.
func ErrorWithDetails(c *gin.Context, statusCode int, message string, key string, details any) {
	c.JSON(statusCode, gin.H{
		"message": message,
		key:       details,
	})
}

// Abort writes a message and stops the handler chain.
func Abort(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{"message": message})
}

// AbortError is Error that also stops the handler chain.
func AbortError(c *gin.Context, statusCode int, message string, err error) {
	body := gin.H{"message": message}
	if err != nil {
		body["error"] = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(statusCode, body)
}
