package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, ProductKey(1))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, ProductKey(1), `{"id":1}`, TTLProduct))

	val, ok, err := m.Get(ctx, ProductKey(1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":1}`, val)

	require.NoError(t, m.Delete(ctx, ProductKey(1)))
	_, ok, err = m.Get(ctx, ProductKey(1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, SettingKey("maintenance_mode"), "true", 5*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, ok, err := m.Get(ctx, SettingKey("maintenance_mode"))
	require.NoError(t, err)
	assert.False(t, ok)
}
