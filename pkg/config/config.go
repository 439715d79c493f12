package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/shlapabank/dashboard-go/internal"
	"github.com/shlapabank/dashboard-go/pkg/validation"
)

const EnvPrefix = "DASHBOARD"

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
	UI      UIConfig
	Lookup  LookupConfig
	Log     LogConfig
	Limits  map[string]LimitConfig
}

type ServerConfig struct {
	Address string
}

type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	TokenFile     string        `mapstructure:"token_file"`
	RedirectDelay time.Duration `mapstructure:"redirect_delay"`
	LoginPath     string        `mapstructure:"login_path"`
}

type UIConfig struct {
	Locale string
}

type LookupConfig struct {
	Debounce time.Duration
}

type LogConfig struct {
	Enabled bool
	File    string
	Level   string
}

// LimitConfig overrides the bounds of one amount rule. Empty values keep
// the built-in bound.
type LimitConfig struct {
	Min  string
	Max  string
	Unit string
}

func DefaultTokenFile() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "shlapabank", "session.json")
}

// NewViper returns a viper instance with defaults and DASHBOARD_ env
// overrides. Flags may be bound to it before Load.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.address", "127.0.0.1:0")
	v.SetDefault("backend.base_url", "http://localhost:8001/api/v1")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("session.token_file", DefaultTokenFile())
	v.SetDefault("session.redirect_delay", internal.DefaultRedirectDelay)
	v.SetDefault("session.login_path", "/login")
	v.SetDefault("ui.locale", "ru")
	v.SetDefault("lookup.debounce", internal.DefaultLookupDebounce)
	v.SetDefault("log.enabled", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "")

	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (when set) into v and validates the result. A missing
// default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config %s", path)
		}
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "shlapabank"))
		v.SetConfigName("dashboard")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, errors.Wrap(err, "failed to read config")
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal config")
	}
	if _, err := c.Rules(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Rules applies the configured limit overrides to the built-in rule set.
func (c Config) Rules() (validation.RuleSet, error) {
	rules := validation.DefaultRules()
	for name, limit := range c.Limits {
		rule, err := rules.Get(name)
		if err != nil {
			return nil, errors.Wrap(err, "invalid limits section")
		}

		if limit.Min != "" {
			if rule.Min, err = decimal.NewFromString(limit.Min); err != nil {
				return nil, errors.Wrapf(err, "limits.%s.min", name)
			}
		}
		if limit.Max != "" {
			if rule.Max, err = decimal.NewFromString(limit.Max); err != nil {
				return nil, errors.Wrapf(err, "limits.%s.max", name)
			}
			rule.HasMax = true
		}
		if limit.Unit != "" {
			rule.Unit = limit.Unit
		}
		rules[name] = rule
	}

	if err := rules.Check(); err != nil {
		return nil, err
	}
	return rules, nil
}
