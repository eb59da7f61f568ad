package middleware

import "github.com/gin-gonic/gin"

// operatorKey stores the authenticated operator (JWT subject) in the request context.
const operatorKey = contextKey("operator")

// GetOperatorFromContext retrieves the authenticated operator from the Gin context.
// It returns the operator and a boolean indicating if it was found.
func GetOperatorFromContext(c *gin.Context) (string, bool) {
	operator, ok := c.Request.Context().Value(operatorKey).(string)
	if !ok || operator == "" {
		return "", false
	}
	return operator, true
}
