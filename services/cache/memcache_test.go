package cache

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	addr := os.Getenv("MEMCACHE_ADDR")
	if addr == "" {
		addr = "localhost:11211"
	}
	mc := NewMemcacheService(addr)

	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	err := mc.Set("test_key", []byte("test_value"), 1*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("test_key")
	assert.NoError(t, err)
	assert.Equal(t, "test_value", string(value))

	err = mc.Delete("test_key")
	assert.NoError(t, err)

	_, err = mc.Get("test_key")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// deleting a missing key is not an error
	assert.NoError(t, mc.Delete("test_key"))
}

func TestExpirationSeconds(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.Equal(t, int32(0), expirationSeconds(0, now))
	assert.Equal(t, int32(600), expirationSeconds(10*time.Minute, now))
	assert.Equal(t, int32(172800), expirationSeconds(48*time.Hour, now))
	assert.Equal(t, int32(1_700_000_000+31*24*3600), expirationSeconds(31*24*time.Hour, now))
}
