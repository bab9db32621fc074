package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

// clearEnv blanks every variable Load consults so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OCTOBER_URL", "OCTOBER_API_KEY", "OCTOBER_API_SECRET", "OCTOBER_PROJECT_HASH",
		"OCTOBER_TIMEOUT", "OCTOBER_LOG_LEVEL", "OCTOBER_LOG_FORMAT", "OCTOBER_CONFIG",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("OCTOBER_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.False(t, cfg.HasCredentials())
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}

func TestLoadOptionalToleratesMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OCTOBER_CONFIG", writeFile(t, "api_key: from-default-path\n"))

	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg, "the default path must not be consulted")
}

func TestLoadOptionalReadsExistingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadOptional(writeFile(t, "api_key: k\napi_secret: s\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, "s", cfg.APISecret)
}

func TestLoadInvalidYAMLFails(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeFile(t, "url: [unterminated"), nil)
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, `
url: https://gateway.example.com
api_key: file-key
api_secret: ZmlsZS1zZWNyZXQ=
project_hash: hash-1
timeout: 45s
log_level: DEBUG
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example.com", cfg.URL)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "ZmlsZS1zZWNyZXQ=", cfg.APISecret)
	assert.Equal(t, "hash-1", cfg.ProjectHash)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, `
url: https://file.example.com
api_key: file-key
api_secret: file-secret
`)
	t.Setenv("OCTOBER_API_KEY", "env-key")
	t.Setenv("OCTOBER_API_SECRET", "env-secret")
	t.Setenv("OCTOBER_TIMEOUT", "10s")

	cfg, err := Load(path, newFlags(t, "--api-secret", "flag-secret"))
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.URL, "file beats default")
	assert.Equal(t, "env-key", cfg.APIKey, "env beats file")
	assert.Equal(t, "flag-secret", cfg.APISecret, "flag beats env")
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadUnchangedFlagsDoNotOverride(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "url: https://file.example.com\nlog_level: info\n")

	cfg, err := Load(path, newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.URL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"missing credentials are fine", func(c *Config) { c.APIKey, c.APISecret = "", "" }, ""},
		{"empty url", func(c *Config) { c.URL = "" }, "url is required"},
		{"not a url", func(c *Config) { c.URL = "octobercms" }, "is not a URL"},
		{"plain http", func(c *Config) { c.URL = "http://octobercms.com" }, "must use https://"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout must not be negative"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Defaults()
	cfg.APIKey = "k"
	cfg.APISecret = "czNjcjN0"
	cfg.Timeout = 12 * time.Second

	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	cfg := &Config{APIKey: "k", APISecret: "s", ProjectHash: "h"}
	creds := cfg.Credentials()
	assert.Equal(t, "k", creds.Key)
	assert.Equal(t, "s", creds.Secret)
	assert.Equal(t, "h", creds.ProjectHash)
	assert.True(t, cfg.HasCredentials())
}

func TestFilePath(t *testing.T) {
	t.Setenv("OCTOBER_CONFIG", "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", FilePath())

	t.Setenv("OCTOBER_CONFIG", "")
	assert.Equal(t, "config.yaml", filepath.Base(FilePath()))
	assert.Equal(t, "october-cli", filepath.Base(filepath.Dir(FilePath())))
}
