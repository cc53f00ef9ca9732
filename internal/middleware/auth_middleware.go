package middleware

import (
	"strings"

	"cleanwave/internal/models"
	"cleanwave/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and puts the caller's
// identity on the context. The email stored here is what the SOS
// resolve check compares against the alert sender.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// AuthOptional sets identity when a valid token is present and lets
// the request through otherwise. SOS triggers accept anonymous
// callers, so their endpoint uses this instead of AuthRequired.
func AuthOptional(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if ok {
			if claims, err := utils.ValidateToken(tokenString, jwtSecret); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("email", claims.Email)
				c.Set("role", claims.Role)
			}
		}

		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok || roleStr != string(models.UserRoleAdmin) {
			utils.ForbiddenResponse(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		// Browsers cannot set headers on websocket dials, so the
		// upgrade endpoint accepts the token as a query parameter.
		if token := c.Query("token"); token != "" {
			return token, true
		}
		return "", false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "", false
	}

	return tokenString, true
}

// UserEmail reads the authenticated email off the context, empty when
// the caller is anonymous.
func UserEmail(c *gin.Context) string {
	email, _ := c.Get("email")
	emailStr, _ := email.(string)
	return emailStr
}

func IsAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	roleStr, _ := role.(string)
	return roleStr == string(models.UserRoleAdmin)
}
