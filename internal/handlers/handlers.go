package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/cartbound/storefront-golang/internal/auth"
	"github.com/cartbound/storefront-golang/internal/cache"
	"github.com/cartbound/storefront-golang/internal/config"
	"github.com/cartbound/storefront-golang/internal/middleware"
	"github.com/cartbound/storefront-golang/internal/orders"
	"github.com/cartbound/storefront-golang/internal/payment"
)

// Handlers holds every dependency the route handlers need. All handles
// are acquired once in main and injected here; no handler reaches for
// a global.
type Handlers struct {
	DB        *sql.DB
	Cache     cache.Store
	Cfg       config.Config
	Tokens    *auth.TokenService
	Verifier  *payment.Verifier
	Finalizer *orders.Finalizer
}

// currentUserID reads the authenticated user id set by the auth
// middleware. Only called on routes behind middleware.Auth.
func currentUserID(c *gin.Context) int64 {
	raw, _ := c.Get(middleware.CtxUserID)
	return raw.(int64)
}
