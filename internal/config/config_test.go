package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SECRET_KEY", "secret")
	t.Setenv("GMAPS_API", "maps")
	t.Setenv("OW_API", "weather")
}

// chdirTemp runs the test from an empty directory so a developer's .env is not picked up.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "city.list.json.gz", cfg.CitiesPath)
	assert.Equal(t, "secret", cfg.SecretKey)
	assert.Equal(t, "maps", cfg.MapsAPIKey)
	assert.Equal(t, "weather", cfg.WeatherAPIKey)
	assert.Empty(t, cfg.WeatherBaseURL)
	assert.Empty(t, cfg.CountryBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 1.0, cfg.WeatherRPS)
	assert.Equal(t, 5, cfg.WeatherBurst)
	assert.Equal(t, SessionBackendMemory, cfg.SessionBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "city_selections", cfg.KafkaTopic)
	assert.True(t, cfg.ResetOnRepeat)
}

func TestLoad_Overrides(t *testing.T) {
	chdirTemp(t)
	setRequired(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("SESSION_TTL_SECONDS", "60")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("RESET_ON_REPEAT", "false")
	t.Setenv("OW_RATE_LIMIT_RPS", "2.5")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("OW_BASE_URL", "http://weather.local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, SessionBackendRedis, cfg.SessionBackend)
	assert.Equal(t, time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.ResetOnRepeat)
	assert.Equal(t, 2.5, cfg.WeatherRPS)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "http://weather.local", cfg.WeatherBaseURL)
}

func TestLoad_MissingSecrets(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SECRET_KEY", "")
	t.Setenv("GMAPS_API", "maps")
	t.Setenv("OW_API", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
	assert.Contains(t, err.Error(), "OW_API")
	assert.NotContains(t, err.Error(), "GMAPS_API")
}

func TestLoad_UnknownSessionBackend(t *testing.T) {
	chdirTemp(t)
	setRequired(t)
	t.Setenv("SESSION_BACKEND", "memcached")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	chdirTemp(t)
	// godotenv never overrides a variable that is already set, even to "".
	for _, key := range []string{"SECRET_KEY", "GMAPS_API", "OW_API"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	require.NoError(t, os.WriteFile(".env", []byte("SECRET_KEY=from-file\nGMAPS_API=maps\nOW_API=weather\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.SecretKey)
}

func TestLoadAggregator(t *testing.T) {
	chdirTemp(t)
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("REPORT_INTERVAL_SECONDS", "5")

	cfg, err := LoadAggregator()
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "city_selections", cfg.KafkaTopic)
	assert.Equal(t, 5*time.Second, cfg.ReportEvery)
	assert.Equal(t, 10, cfg.TopN)
}
