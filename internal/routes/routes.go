package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartbound/storefront-golang/internal/handlers"
	"github.com/cartbound/storefront-golang/internal/middleware"
	"github.com/cartbound/storefront-golang/internal/models"
)

// CORSMiddleware allows the configured frontend origin to call the API.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware(h.Cfg.FrontendOrigin))

	// The payment webhook lives outside /v1 and outside every
	// middleware that could touch the body: the signature covers the
	// raw bytes, so nothing may parse or transform them first.
	router.POST("/webhooks/payment", h.PaymentWebhook)

	v1 := router.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// --- Public Catalog ---
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/search", h.SearchProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/products/:id/reviews", h.GetProductReviews)
		v1.GET("/categories", h.GetAllCategories)
		v1.GET("/store-info", h.GetStoreInfo)

		// --- Customer Routes (Login Required) ---
		authed := v1.Group("/")
		authed.Use(middleware.Auth(h.Tokens, h.DB))
		{
			authed.GET("/me", h.GetMyProfile)
			authed.PATCH("/me", h.UpdateMyProfile)

			authed.GET("/cart", h.GetCart)
			authed.POST("/cart/items", h.AddToCart)
			authed.PUT("/cart/items/:product_id", h.UpdateCartItem)
			authed.DELETE("/cart/items/:product_id", h.DeleteCartItem)

			authed.POST("/checkout", h.Checkout)
			authed.GET("/orders", h.GetMyOrders)
			authed.GET("/orders/:id", h.GetOrderDetails)

			authed.POST("/products/:id/reviews", h.CreateReview)
			authed.POST("/coupons/validate", h.ValidateCoupon)
		}

		// --- Seller Routes ---
		seller := v1.Group("/seller")
		seller.Use(middleware.Auth(h.Tokens, h.DB))
		seller.Use(middleware.RequireRole(models.RoleSeller, models.RoleAdmin))
		{
			seller.GET("/products", h.GetMyProducts)
			seller.POST("/products", h.CreateProduct)
			seller.PUT("/products/:id", h.UpdateProduct)
			seller.DELETE("/products/:id", h.DeleteProduct)
		}

		// --- Admin Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.Auth(h.Tokens, h.DB))
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/categories", h.CreateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)

			admin.GET("/coupons", h.ListCoupons)
			admin.POST("/coupons", h.CreateCoupon)
			admin.DELETE("/coupons/:id", h.DeleteCoupon)

			admin.GET("/orders", h.ListOrders)
			admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)

			admin.GET("/settings", h.GetSettings)
			admin.PATCH("/settings", h.UpdateSettings)

			admin.GET("/dashboard-stats", h.GetDashboardStats)
		}
	}

	return router
}
