package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cartbound/storefront-golang/internal/models"
)

func newRoleRouter(role string, allowed ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/gated",
		func(c *gin.Context) {
			// Stand-in for Auth, which normally sets these.
			c.Set(CtxUserID, int64(1))
			c.Set(CtxRole, role)
		},
		RequireRole(allowed...),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)
	return router
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		allowed  []string
		wantCode int
	}{
		{"admin allowed", models.RoleAdmin, []string{models.RoleAdmin}, http.StatusOK},
		{"seller on seller route", models.RoleSeller, []string{models.RoleSeller, models.RoleAdmin}, http.StatusOK},
		{"customer blocked from admin", models.RoleCustomer, []string{models.RoleAdmin}, http.StatusForbidden},
		{"customer blocked from seller", models.RoleCustomer, []string{models.RoleSeller, models.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRoleRouter(tt.role, tt.allowed...)
			req := httptest.NewRequest(http.MethodGet, "/gated", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequireRole_NoRoleInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/gated", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
