package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 3000, c.Server.Port)
	assert.Equal(t, []string{"*"}, c.Server.CORSOrigins)
	assert.Equal(t, "/metrics", c.Metrics.Path)
	assert.Equal(t, -5, *c.Calendar.SourceOffsetHours)
	assert.Equal(t, 9, *c.Calendar.TargetOffsetHours)
	assert.Equal(t, "catalog", c.Calendar.Ordering)
	assert.Equal(t, 60*time.Second, c.Cache.TTL.Crypto)
	assert.Equal(t, 300*time.Second, c.Cache.TTL.News)
	assert.Len(t, c.Upstream.Yahoo.Indexes, 5)
	assert.False(t, c.Upstream.FRED.Enabled)

	loc, err := c.Calendar.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadFileKeepsExplicitZero(t *testing.T) {
	p := writeFile(t, "config.yaml", `
environment: test
server:
  port: 8081
calendar:
  source_offset_hours: 0
  ordering: chronological
cache:
  ttl:
    crypto: 5s
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 8081, c.Server.Port)
	assert.Equal(t, 0, *c.Calendar.SourceOffsetHours)
	assert.Equal(t, "chronological", c.Calendar.Ordering)
	assert.Equal(t, 5*time.Second, c.Cache.TTL.Crypto)
	assert.Equal(t, 60*time.Second, c.Cache.TTL.Indexes)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"ordering":  "calendar:\n  ordering: random\n",
		"offset":    "calendar:\n  target_offset_hours: 20\n",
		"timezone":  "calendar:\n  timezone: Mars/Olympus\n",
		"fred key":  "upstream:\n  fred:\n    enabled: true\n",
		"kafka":     "kafka:\n  enabled: true\n",
		"bad yaml":  "server: [\n",
		"log level": "logger:\n  level: loud\n",
	}
	for name, body := range cases {
		_, err := Load(writeFile(t, "c.yaml", body))
		assert.Error(t, err, name)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	p := writeFile(t, "config.yaml", "server:\n  port: 8081\ncalendar:\n  timezone: UTC\n")
	envFile := writeFile(t, ".env", "CALENDAR_TIMEZONE=Asia/Seoul\n")

	t.Setenv("PORT", "9090")
	t.Setenv("FRED_API_KEY", "secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	t.Cleanup(func() { os.Unsetenv("CALENDAR_TIMEZONE") })
	c, err := LoadWithEnv(p, envFile)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "Asia/Seoul", c.Calendar.Timezone)
	assert.True(t, c.Upstream.FRED.Enabled)
	assert.Equal(t, "secret", c.Upstream.FRED.APIKey)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
}

func TestLoadWithEnvSkipsMissingDotEnv(t *testing.T) {
	c, err := LoadWithEnv("", filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
	assert.Equal(t, "catalog", c.Calendar.Ordering)
}
