package middleware

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cartbound/storefront-golang/internal/auth"
	"github.com/cartbound/storefront-golang/internal/models"
)

// Context keys set by the auth middleware.
const (
	CtxUserID = "userID"
	CtxRole   = "userRole"
)

// Auth validates the Bearer token, loads the user's role, and enforces
// maintenance mode (admins may still pass when the store is down).
func Auth(tokens *auth.TokenService, db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}

		userID, err := tokens.Validate(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		var role string
		err = db.QueryRow("SELECT role FROM users WHERE id = ? AND status = 'active'", userID).Scan(&role)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found or inactive"})
			c.Abort()
			return
		}

		// Maintenance mode locks out everyone except admins. Missing
		// setting row reads as empty string, i.e. maintenance off.
		var maintenanceMode string
		_ = db.QueryRow("SELECT setting_value FROM settings WHERE setting_key = ?",
			models.SettingMaintenanceMode).Scan(&maintenanceMode)
		if maintenanceMode == "true" && role != models.RoleAdmin {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "The store is down for maintenance. Please try again later."})
			c.Abort()
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxRole, role)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Must run after
// Auth, which stores the role in the context.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleRaw, ok := c.Get(CtxRole)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		role := roleRaw.(string)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		c.Abort()
	}
}
