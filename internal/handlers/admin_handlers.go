package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cartbound/storefront-golang/internal/cache"
	"github.com/cartbound/storefront-golang/internal/models"
)

//
// --- Settings & Dashboard ---
//

// GetStoreInfo is the handler for GET /v1/store-info
// Public settings read through the cache with the fixed settings TTL.
func (h *Handlers) GetStoreInfo(c *gin.Context) {
	ctx := c.Request.Context()
	info := map[string]string{}

	for _, key := range []string{models.SettingStoreName, models.SettingSupportEmail} {
		cacheKey := cache.SettingKey(key)
		if cached, ok, err := h.Cache.Get(ctx, cacheKey); err == nil && ok {
			info[key] = cached
			continue
		}

		var value string
		err := h.DB.QueryRow("SELECT setting_value FROM settings WHERE setting_key = ?", key).Scan(&value)
		if err != nil {
			// Missing rows render as empty strings.
			info[key] = ""
			continue
		}
		info[key] = value
		_ = h.Cache.Set(ctx, cacheKey, value, cache.TTLSettings)
	}

	c.JSON(http.StatusOK, gin.H{"store": info})
}

// GetSettings is the handler for GET /v1/admin/settings
func (h *Handlers) GetSettings(c *gin.Context) {
	rows, err := h.DB.Query("SELECT setting_key, setting_value FROM settings")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan setting"})
			return
		}
		settings[s.Key] = s.Value
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettingsInput accepts a map of settings to upsert.
type UpdateSettingsInput struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

// UpdateSettings is the handler for PATCH /v1/admin/settings
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Settings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No settings provided"})
		return
	}

	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	query := `
		INSERT INTO settings (setting_key, setting_value)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)`
	cacheKeys := make([]string, 0, len(input.Settings))
	for key, value := range input.Settings {
		if _, err := tx.Exec(query, key, value); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save setting " + key})
			return
		}
		cacheKeys = append(cacheKeys, cache.SettingKey(key))
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	// Drop stale cached values; readers re-populate on next lookup.
	_ = h.Cache.Delete(c.Request.Context(), cacheKeys...)

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}

// GetDashboardStats is the handler for GET /v1/admin/dashboard-stats
func (h *Handlers) GetDashboardStats(c *gin.Context) {
	var stats struct {
		TotalUsers     int     `json:"totalUsers"`
		TotalProducts  int     `json:"totalProducts"`
		TotalOrders    int     `json:"totalOrders"`
		PaidOrders     int     `json:"paidOrders"`
		RevenueToDate  float64 `json:"revenueToDate"`
		OrdersLastWeek int     `json:"ordersLastWeek"`
	}

	queries := []struct {
		query string
		args  []interface{}
		dest  interface{}
	}{
		{"SELECT COUNT(*) FROM users", nil, &stats.TotalUsers},
		{"SELECT COUNT(*) FROM products WHERE status = ?", []interface{}{models.ProductPublished}, &stats.TotalProducts},
		{"SELECT COUNT(*) FROM orders", nil, &stats.TotalOrders},
		{"SELECT COUNT(*) FROM orders WHERE status NOT IN (?, ?, ?)",
			[]interface{}{models.OrderPending, models.OrderFailed, models.OrderCancelled}, &stats.PaidOrders},
		{"SELECT COALESCE(SUM(total), 0) FROM orders WHERE status NOT IN (?, ?, ?)",
			[]interface{}{models.OrderPending, models.OrderFailed, models.OrderCancelled}, &stats.RevenueToDate},
		{"SELECT COUNT(*) FROM orders WHERE created_at >= ?",
			[]interface{}{time.Now().AddDate(0, 0, -7)}, &stats.OrdersLastWeek},
	}

	for _, q := range queries {
		if err := h.DB.QueryRow(q.query, q.args...).Scan(q.dest); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
