package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const envPrefix = "SHELFMATE_"

type Config struct {
	DataPath   string
	StateDir   string
	DBPath     string
	ConfigPath string

	MinSessionSeconds int `env:"MIN_SESSION_SECONDS"`
	MaxPagesPerMinute int `env:"MAX_PAGES_PER_MINUTE"`
	DailyPagesCap     int `env:"DAILY_PAGES_CAP"`
	DefaultTotalPages int `env:"DEFAULT_TOTAL_PAGES"`

	TimeZone     string        `env:"TIME_ZONE"`
	TokenSecret  string        `env:"TOKEN_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL"`
	PasswordCost int           `env:"PASSWORD_COST"`

	KakaoAPIKey   string        `env:"KAKAO_API_KEY"`
	KakaoBaseURL  string        `env:"KAKAO_BASE_URL"`
	LookupTimeout time.Duration `env:"LOOKUP_TIMEOUT"`

	LogLevel string `env:"LOG_LEVEL"`
	LogJSON  bool   `env:"LOG_JSON"`
}

// FileConfig mirrors config.toml. Nil fields keep the built-in default.
type FileConfig struct {
	Rules   RulesFile   `toml:"rules"`
	Account AccountFile `toml:"account"`
	Lookup  LookupFile  `toml:"lookup"`
	Log     LogFile     `toml:"log"`
}

type RulesFile struct {
	MinSessionSeconds *int `toml:"min-session-seconds"`
	MaxPagesPerMinute *int `toml:"max-pages-per-minute"`
	DailyPagesCap     *int `toml:"daily-pages-cap"`
	DefaultTotalPages *int `toml:"default-total-pages"`
}

type AccountFile struct {
	TimeZone     *string `toml:"time-zone"`
	TokenTTL     *string `toml:"token-ttl"`
	PasswordCost *int    `toml:"password-cost"`
}

type LookupFile struct {
	KakaoAPIKey  *string `toml:"kakao-api-key"`
	KakaoBaseURL *string `toml:"kakao-base-url"`
	Timeout      *string `toml:"timeout"`
}

type LogFile struct {
	Level *string `toml:"level"`
	JSON  *bool   `toml:"json"`
}

func Default(dataPath string) Config {
	stateDir := filepath.Join(dataPath, ".shelfmate")
	return Config{
		DataPath:          dataPath,
		StateDir:          stateDir,
		DBPath:            filepath.Join(stateDir, "shelfmate.db"),
		ConfigPath:        filepath.Join(stateDir, "config.toml"),
		MinSessionSeconds: 180,
		MaxPagesPerMinute: 5,
		DailyPagesCap:     300,
		DefaultTotalPages: 320,
		TimeZone:          "Local",
		TokenTTL:          30 * 24 * time.Hour,
		PasswordCost:      10,
		KakaoBaseURL:      "https://dapi.kakao.com",
		LookupTimeout:     5 * time.Second,
		LogLevel:          "warn",
	}
}

// New builds the configuration for dataPath: defaults, then config.toml, then SHELFMATE_* variables.
func New(dataPath string) (Config, error) {
	if dataPath == "" {
		return Config{}, fmt.Errorf("data path is required")
	}
	cfg := Default(dataPath)
	file, err := LoadFile(cfg.ConfigPath)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.apply(file); err != nil {
		return Config{}, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a TOML config from path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}
	var file FileConfig
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return FileConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return file, nil
}

func (c *Config) apply(file FileConfig) error {
	setInt(&c.MinSessionSeconds, file.Rules.MinSessionSeconds)
	setInt(&c.MaxPagesPerMinute, file.Rules.MaxPagesPerMinute)
	setInt(&c.DailyPagesCap, file.Rules.DailyPagesCap)
	setInt(&c.DefaultTotalPages, file.Rules.DefaultTotalPages)
	setString(&c.TimeZone, file.Account.TimeZone)
	setInt(&c.PasswordCost, file.Account.PasswordCost)
	setString(&c.KakaoAPIKey, file.Lookup.KakaoAPIKey)
	setString(&c.KakaoBaseURL, file.Lookup.KakaoBaseURL)
	setString(&c.LogLevel, file.Log.Level)
	if file.Log.JSON != nil {
		c.LogJSON = *file.Log.JSON
	}
	if err := setDuration(&c.TokenTTL, file.Account.TokenTTL, "account.token-ttl"); err != nil {
		return err
	}
	return setDuration(&c.LookupTimeout, file.Lookup.Timeout, "lookup.timeout")
}

func (c Config) Validate() error {
	if c.MinSessionSeconds < 0 {
		return fmt.Errorf("min session seconds must not be negative")
	}
	if c.MaxPagesPerMinute <= 0 {
		return fmt.Errorf("max pages per minute must be positive")
	}
	if c.DailyPagesCap < 0 {
		return fmt.Errorf("daily pages cap must not be negative")
	}
	if c.DefaultTotalPages <= 0 {
		return fmt.Errorf("default total pages must be positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	// bcrypt accepts costs 4 through 31
	if c.PasswordCost < 4 || c.PasswordCost > 31 {
		return fmt.Errorf("password cost must be between 4 and 31")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the zone whose calendar day keys the daily cap and mission windows.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.TimeZone)
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

func (c Config) PluginsPath() string {
	return filepath.Join(c.DataPath, "plugins", "plugins.json")
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setDuration(dst *time.Duration, v *string, key string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*v))
	if err != nil {
		return fmt.Errorf("config %s: %w", key, err)
	}
	*dst = d
	return nil
}
