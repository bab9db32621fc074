package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ngmaloney/october-cli/internal/gateway"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Environment variables are OCTOBER_<KEY>, e.g. OCTOBER_API_KEY.
const envPrefix = "OCTOBER"

// Config is the top-level application configuration.
// Priority: CLI flags > environment variables > config file > defaults.
type Config struct {
	URL         string        `mapstructure:"url" yaml:"url" validate:"required,url,startswith=https://"`
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	APISecret   string        `mapstructure:"api_secret" yaml:"api_secret"`
	ProjectHash string        `mapstructure:"project_hash" yaml:"project_hash"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
	LogLevel    string        `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string        `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
}

// fileConfig is the on-disk shape written by Save.
type fileConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	APISecret   string `yaml:"api_secret"`
	ProjectHash string `yaml:"project_hash,omitempty"`
	Timeout     string `yaml:"timeout"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// flagKeys maps config keys to the CLI flag names bound to them.
var flagKeys = map[string]string{
	"url":          "url",
	"api_key":      "api-key",
	"api_secret":   "api-secret",
	"project_hash": "project-hash",
	"timeout":      "timeout",
	"log_level":    "log-level",
	"log_format":   "log-format",
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		URL:       gateway.DefaultBaseURL,
		Timeout:   30 * time.Second,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// RegisterFlags defines the config flags on fs with defaults as help text.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String("url", d.URL, "Gateway API base URL (OCTOBER_URL)")
	fs.String("api-key", "", "Gateway API key (OCTOBER_API_KEY)")
	fs.String("api-secret", "", "Gateway API secret, base64 (OCTOBER_API_SECRET)")
	fs.String("project-hash", "", "Project hash (OCTOBER_PROJECT_HASH)")
	fs.Duration("timeout", d.Timeout, "Per-request timeout (OCTOBER_TIMEOUT)")
	fs.String("log-level", d.LogLevel, `Log level: "debug", "info", "warn" or "error" (OCTOBER_LOG_LEVEL)`)
	fs.String("log-format", d.LogFormat, `Log format: "text" or "json" (OCTOBER_LOG_FORMAT)`)
}

// Load reads config from file, applies env overrides, then flag overrides.
// An empty path means FilePath(); a missing default file is not an error,
// a missing explicit one is. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FilePath()
	}
	return load(path, !explicit, flags)
}

// LoadOptional is Load for an explicit path that may not exist yet; a
// missing file leaves defaults, env and flags in effect.
func LoadOptional(path string, flags *pflag.FlagSet) (*Config, error) {
	if path == "" {
		path = FilePath()
	}
	return load(path, true, flags)
}

func load(path string, allowMissing bool, flags *pflag.FlagSet) (*Config, error) {
	path = ExpandTilde(path)

	vip := viper.New()
	vip.SetConfigType("yaml")
	vip.SetConfigFile(path)

	d := Defaults()
	vip.SetDefault("url", d.URL)
	vip.SetDefault("api_key", "")
	vip.SetDefault("api_secret", "")
	vip.SetDefault("project_hash", "")
	vip.SetDefault("timeout", d.Timeout)
	vip.SetDefault("log_level", d.LogLevel)
	vip.SetDefault("log_format", d.LogFormat)

	// 1. Config file
	if err := vip.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
		if !missing || !allowMissing {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	// 2. Environment variables
	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vip.AutomaticEnv()

	// 3. CLI flags
	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := vip.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	return cfg, nil
}

// Save writes the config as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	path = ExpandTilde(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(fileConfig{
		URL:         c.URL,
		APIKey:      c.APIKey,
		APISecret:   c.APISecret,
		ProjectHash: c.ProjectHash,
		Timeout:     c.Timeout.String(),
		LogLevel:    c.LogLevel,
		LogFormat:   c.LogFormat,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate returns an error if a field is malformed. Missing credentials
// are not checked here; the client reports them on the first signed call.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s %q is not a URL", fe.Field(), fe.Value())
	case "startswith":
		return fmt.Sprintf("%s %q must use %s", fe.Field(), fe.Value(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s %q must be one of: %s", fe.Field(), fe.Value(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", fe.Field())
	}
	return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
}

// Credentials returns the gateway credentials carried by the config.
func (c *Config) Credentials() gateway.Credentials {
	return gateway.Credentials{
		Key:         c.APIKey,
		Secret:      c.APISecret,
		ProjectHash: c.ProjectHash,
	}
}

// HasCredentials reports whether both API key and secret are set.
func (c *Config) HasCredentials() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// FilePath returns the path to the config file.
// Always uses ~/.config (XDG convention) regardless of platform.
func FilePath() string {
	if v := os.Getenv("OCTOBER_CONFIG"); v != "" {
		return ExpandTilde(v)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "october-cli", "config.yaml")
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
