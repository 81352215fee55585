package auth

import (
	"errors"
	"net/http"
	"strings"

	"ticwallet/internal/api"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the access token for browser clients that do not
// send an Authorization header.
const SessionCookie = "session_token"

func AuthMiddleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, msg := extractToken(c)
		if msg != "" {
			api.Fail(c, http.StatusUnauthorized, msg)
			c.Abort()
			return
		}

		claims, err := ValidateToken(tokenString, accessTokenSecret)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				api.Fail(c, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, ErrInvalidTokenType):
				api.Fail(c, http.StatusUnauthorized, "Invalid token type")
			default:
				api.Fail(c, http.StatusUnauthorized, "Invalid or malformed token")
			}
			c.Abort()
			return
		}

		if claims.TokenType != TokenAccess {
			api.Fail(c, http.StatusUnauthorized, "Access token required")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)

		c.Next()
	}
}

// extractToken prefers the Authorization header and falls back to the
// session cookie. A non-empty message means the request must be rejected.
func extractToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
			return cookie, ""
		}
		return "", "Authentication required"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
		return "", "Invalid authorization header format"
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", "Token is empty"
	}
	return tokenString, ""
}

func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			api.Fail(c, http.StatusUnauthorized, "User role not found")
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			api.Fail(c, http.StatusUnauthorized, "Invalid role type")
			c.Abort()
			return
		}

		if roleStr != requiredRole {
			api.Fail(c, http.StatusForbidden, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	id, ok := userID.(int)
	if !ok {
		return 0, false
	}

	return id, true
}

// GetUserEmail returns the wallet identity of the authenticated caller.
func GetUserEmail(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_email")
	if !exists {
		return "", false
	}

	email, ok := v.(string)
	if !ok || email == "" {
		return "", false
	}

	return email, true
}
