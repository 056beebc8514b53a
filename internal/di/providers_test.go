package di

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"FinDash/internal/repository"
	"FinDash/pkg/cache"
	"FinDash/pkg/config"
	"FinDash/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Logger.Level = "error"
	return cfg
}

func TestInitializeAppWithDefaults(t *testing.T) {
	app, err := InitializeApp(defaultConfig(t))
	require.NoError(t, err)
	assert.NotNil(t, app)
}

func TestProvideKafkaProducerDisabled(t *testing.T) {
	p, err := ProvideKafkaProducer(defaultConfig(t))
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProvideCacheMemory(t *testing.T) {
	c, err := ProvideCache(defaultConfig(t))
	require.NoError(t, err)
	defer c.Close()
	_, ok := c.(*cache.MemoryCache)
	assert.True(t, ok)
}

func TestProvideCatalog(t *testing.T) {
	cfg := defaultConfig(t)
	c, err := ProvideCatalog(cfg)
	require.NoError(t, err)
	assert.Len(t, c.ListPatterns(), len(repository.DefaultCatalog().ListPatterns()))

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("indicators:\n  - id: \"1\"\n    name: X\n    time: \"8:30\"\n    previous: \"1\"\n    forecast: \"2\"\n"), 0o600))
	cfg.Calendar.CatalogFile = path
	_, err = ProvideCatalog(cfg)
	assert.True(t, errors.Is(err, util.ErrInvalidInput))
}

func TestProvideClientLimiterDisabled(t *testing.T) {
	cfg := defaultConfig(t)
	assert.NotNil(t, ProvideClientLimiter(cfg))
	cfg.RateLimit.Disabled = true
	assert.Nil(t, ProvideClientLimiter(cfg))
}
