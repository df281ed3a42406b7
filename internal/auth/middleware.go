package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware guards API routes behind bearer token authentication.
type Middleware struct {
	manager *Manager
}

// ErrorResponse is the JSON body returned on authentication failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewMiddleware creates middleware backed by the given token manager.
func NewMiddleware(manager *Manager) *Middleware {
	return &Middleware{manager: manager}
}

// RequireAuth rejects requests without a valid bearer token and puts
// the token claims into the gin context for the handlers behind it.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header must start with 'Bearer '"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "JWT token is required"})
			c.Abort()
			return
		}

		claims, err := m.manager.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// GetUserID extracts the authenticated user id from the gin context.
// Only meaningful behind RequireAuth.
func GetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// GetUsername extracts the authenticated username from the gin context.
// Only meaningful behind RequireAuth.
func GetUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get("username")
	if !exists {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}
