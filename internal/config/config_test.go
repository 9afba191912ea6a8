package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	envVars := []string{
		"TRADEPULSE_CONFIG_FILE",
		"TRADEPULSE_SERVER_PORT", "TRADEPULSE_SERVER_READ_TIMEOUT",
		"TRADEPULSE_SECURITY_ALLOWED_ORIGINS", "TRADEPULSE_SECURITY_ENABLE_CORS",
		"TRADEPULSE_SECURITY_RATE_LIMIT_RPS",
		"TRADEPULSE_LOGGING_LEVEL", "TRADEPULSE_LOGGING_FORMAT", "TRADEPULSE_LOGGING_OUTPUT",
		"TRADEPULSE_IMPORT_DEFAULT_PLATFORM", "TRADEPULSE_IMPORT_MAX_UPLOAD_BYTES",
		"TRADEPULSE_IMPORT_CACHE_TTL", "TRADEPULSE_IMPORT_TIMEZONE",
	}

	// Run from an empty directory so no stray config.yaml or .env is picked up
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })

	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				def := Default()
				assert.Equal(t, def.Server, cfg.Server)
				assert.Equal(t, def.Security, cfg.Security)
				assert.Equal(t, def.Logging, cfg.Logging)
				assert.Equal(t, def.Import, cfg.Import)
				assert.Equal(t, def.Telemetry, cfg.Telemetry)
			},
		},
		{
			name: "custom environment variables",
			env: map[string]string{
				"TRADEPULSE_SERVER_PORT":              "9090",
				"TRADEPULSE_SERVER_READ_TIMEOUT":      "30s",
				"TRADEPULSE_SECURITY_ALLOWED_ORIGINS": "http://example.com,https://example.com",
				"TRADEPULSE_LOGGING_LEVEL":            "debug",
				"TRADEPULSE_LOGGING_FORMAT":           "text",
				"TRADEPULSE_IMPORT_DEFAULT_PLATFORM":  "prop-reports",
				"TRADEPULSE_IMPORT_CACHE_TTL":         "90s",
				"TRADEPULSE_IMPORT_TIMEZONE":          "America/New_York",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format) // validate() forces json
				assert.Equal(t, "prop-reports", cfg.Import.DefaultPlatform)
				assert.Equal(t, 90*time.Second, cfg.Import.CacheTTL)

				loc, err := cfg.Import.Location()
				require.NoError(t, err)
				assert.Equal(t, "America/New_York", loc.String())
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"TRADEPULSE_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"TRADEPULSE_SERVER_READ_TIMEOUT": "-5s"},
			wantErr: true,
		},
		{
			name:    "empty allowed origins with cors",
			env:     map[string]string{"TRADEPULSE_SECURITY_ALLOWED_ORIGINS": ""},
			wantErr: true,
		},
		{
			name: "empty allowed origins without cors",
			env: map[string]string{
				"TRADEPULSE_SECURITY_ALLOWED_ORIGINS": "",
				"TRADEPULSE_SECURITY_ENABLE_CORS":     "false",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Security.AllowedOrigins)
			},
		},
		{
			name:    "invalid logging output",
			env:     map[string]string{"TRADEPULSE_LOGGING_OUTPUT": "syslog"},
			wantErr: true,
		},
		{
			name:    "zero upload limit",
			env:     map[string]string{"TRADEPULSE_IMPORT_MAX_UPLOAD_BYTES": "0"},
			wantErr: true,
		},
		{
			name:    "unknown timezone",
			env:     map[string]string{"TRADEPULSE_IMPORT_TIMEZONE": "Mars/Olympus_Mons"},
			wantErr: true,
		},
		{
			name: "config file with environment override",
			env: map[string]string{
				"TRADEPULSE_SERVER_PORT":   "7070",
				"TRADEPULSE_LOGGING_LEVEL": "warn",
			},
			file: `
server:
  port: 6060
  read_timeout: 20s
logging:
  level: error
security:
  allowed_origins: ["http://file.example.com"]
import:
  default_platform: prop-reports
  schema_file: platforms.yaml
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)                     // from env
				assert.Equal(t, "warn", cfg.Logging.Level)                 // from env
				assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)    // from file
				assert.Equal(t, "prop-reports", cfg.Import.DefaultPlatform) // from file
				assert.Equal(t, "platforms.yaml", cfg.Import.SchemaFile)
				assert.Equal(t, []string{"http://file.example.com"}, cfg.Security.AllowedOrigins)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, envVar := range envVars {
				t.Setenv(envVar, "")
				os.Unsetenv(envVar)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if tt.file != "" {
				path := filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o644))
				t.Setenv("TRADEPULSE_CONFIG_FILE", path)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })

	t.Setenv("TRADEPULSE_SERVER_PORT", "")
	os.Unsetenv("TRADEPULSE_SERVER_PORT")
	t.Cleanup(func() { os.Unsetenv("TRADEPULSE_SERVER_PORT") })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TRADEPULSE_SERVER_PORT=8181\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestLoadInvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not, a, map"), 0o644))
	t.Setenv("TRADEPULSE_CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}
