package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. NEWSCHAT_API_BASE_URL
const EnvPrefix = "NEWSCHAT"

// Config is the client configuration
type Config struct {
	API       APIConfig       `mapstructure:"api" yaml:"api"`
	State     StateConfig     `mapstructure:"state" yaml:"state"`
	Session   SessionConfig   `mapstructure:"session" yaml:"session"`
	HTTP      HTTPConfig      `mapstructure:"http" yaml:"http"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	DevServer DevServerConfig `mapstructure:"devserver" yaml:"devserver"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

type StateConfig struct {
	DBPath    string `mapstructure:"db_path" yaml:"db_path"`
	Ephemeral bool   `mapstructure:"ephemeral" yaml:"ephemeral"`
}

type SessionConfig struct {
	Key string `mapstructure:"key" yaml:"key"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// MarshalYAML writes the timeout as a duration string
func (h HTTPConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Timeout string `yaml:"timeout"`
	}{Timeout: h.Timeout.String()}, nil
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type DevServerConfig struct {
	Port           int      `mapstructure:"port" yaml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// NewViper returns a viper instance with defaults and environment overrides
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("api.base_url", DefaultAPIBase)
	v.SetDefault("state.db_path", "")
	v.SetDefault("state.ephemeral", false)
	v.SetDefault("session.key", DefaultSessionKey)
	v.SetDefault("http.timeout", "60s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("devserver.port", 3000)
	v.SetDefault("devserver.allowed_origins", []string{"*"})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads path into v and decodes the result. A missing file is an
// error only when required is set.
func LoadConfig(v *viper.Viper, path string, required bool) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, &ConfigError{Key: path, Err: err}
			}
			LogDebug("Loaded config from %s", path)
		} else if required {
			return nil, &ConfigError{Key: path, Err: err}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &ConfigError{Key: "config", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the client cannot run without
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return &ConfigError{Key: "api.base_url", Err: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Key: "api.base_url", Err: fmt.Errorf("must be an absolute http(s) URL, got %q", c.API.BaseURL)}
	}
	if strings.TrimSpace(c.Session.Key) == "" {
		return &ConfigError{Key: "session.key", Err: errors.New("must not be empty")}
	}
	if c.HTTP.Timeout < 0 {
		return &ConfigError{Key: "http.timeout", Err: errors.New("must not be negative")}
	}
	return nil
}
