package cache

import (
	"context"
	"fmt"
	"time"
)

// Store is the read-through cache used in front of hot storefront
// reads. Implementations: Redis (production) and Memory (tests).
type Store interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Key formats.
const (
	// Product detail cache: product:{id} -> JSON-encoded models.Product
	keyProduct = "product:%d"

	// Settings cache: setting:{key} -> raw value
	keySetting = "setting:%s"
)

// Fixed TTLs per key class.
var (
	TTLProduct  = 5 * time.Minute
	TTLSettings = 1 * time.Minute
)

func ProductKey(id int64) string { return fmt.Sprintf(keyProduct, id) }

func SettingKey(settingKey string) string { return fmt.Sprintf(keySetting, settingKey) }
