package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
monitor:
  skus: ["94693225"]
  zip_codes: ["30313"]
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "testdb", cfg.Database.Name)
				assert.Equal(t, []string{"94693225"}, cfg.Monitor.SKUs)
				assert.Equal(t, []string{"30313"}, cfg.Monitor.ZipCodes)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
monitor:
  skus: ["94693225"]
  zip_codes: ["30313"]
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 10, cfg.Database.PoolSize)
				assert.Equal(t, "https://api.snormax.com/stock/target", cfg.Target.StockURL)
				assert.Equal(t, 30*time.Second, cfg.Target.Timeout)
				assert.Equal(t, 3, cfg.Target.MaxRetries)
				assert.Equal(t, 1.0, cfg.Target.RateLimit.PerSecond)
				assert.Equal(t, 1, cfg.Target.RateLimit.Burst)
				assert.Equal(t, int64(40000), cfg.Target.RateLimit.DailyLimit)
				assert.Equal(t, 2*time.Minute, cfg.Monitor.Interval)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
  password: "${TEST_DB_PASSWORD}"
monitor:
  skus: ["94693225"]
  zip_codes: ["30313"]
`,
			envVars: map[string]string{
				"TEST_DB_PASSWORD": "secret123",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "secret123", cfg.Database.Password)
			},
		},
		{
			name: "missing database host",
			yaml: `
database:
  name: testdb
  user: testuser
monitor:
  skus: ["94693225"]
  zip_codes: ["30313"]
`,
			wantErr: "database.host is required",
		},
		{
			name: "no SKUs configured",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
monitor:
  zip_codes: ["30313"]
`,
			wantErr: "monitor.skus must list at least one SKU",
		},
		{
			name: "no ZIP codes configured",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
monitor:
  skus: ["94693225"]
`,
			wantErr: "monitor.zip_codes must list at least one ZIP code",
		},
		{
			name: "discord enabled with placeholder webhook",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
monitor:
  skus: ["94693225"]
  zip_codes: ["30313"]
notifications:
  discord:
    enabled: true
    webhook_url: "https://discord.com/api/webhooks/YOUR_WEBHOOK_URL"
`,
			wantErr: "notifications.discord.webhook_url is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDatabaseConfigDSN(t *testing.T) {
	t.Parallel()

	d := DatabaseConfig{
		Host: "db", Port: 5433, Name: "target_monitor",
		User: "postgres", Password: "pw", SSLMode: "disable",
	}
	assert.Equal(
		t,
		"host=db port=5433 dbname=target_monitor user=postgres password=pw sslmode=disable",
		d.DSN(),
	)
}

func TestMonitorConfigPairs(t *testing.T) {
	t.Parallel()

	m := MonitorConfig{
		SKUs:     []string{"111", "222"},
		ZipCodes: []string{"30313", "10001"},
	}

	pairs := m.Pairs()
	require.Len(t, pairs, 4)
	assert.Equal(t, [2]string{"111", "30313"}, pairs[0])
	assert.Equal(t, [2]string{"111", "10001"}, pairs[1])
	assert.Equal(t, [2]string{"222", "30313"}, pairs[2])
	assert.Equal(t, [2]string{"222", "10001"}, pairs[3])
}
