package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment   string `toml:"environment"`
	Port          string `toml:"port"`
	Timezone      string `toml:"timezone"`
	WaterTargetML int    `toml:"water_target_ml"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`

	Redis     RedisConfig     `toml:"redis"`
	DB        DBConfig        `toml:"db"`
	Garmin    GarminConfig    `toml:"garmin"`
	Sync      SyncConfig      `toml:"sync"`
	Admin     AdminConfig     `toml:"admin"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Profile   Profile         `toml:"profile"`
}

type RedisConfig struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
}

// Enabled reports whether a Postgres database was configured.
func (c DBConfig) Enabled() bool {
	return c.Name != ""
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type GarminConfig struct {
	BaseURL     string        `toml:"base_url"`
	Token       string        `toml:"token"`
	DisplayName string        `toml:"display_name"`
	Timeout     time.Duration `toml:"timeout"`
}

type SyncConfig struct {
	StartDate string        `toml:"start_date"`
	Interval  time.Duration `toml:"interval"`
}

type AdminConfig struct {
	PasswordHash string        `toml:"password_hash"`
	JWTSecret    string        `toml:"jwt_secret"`
	Issuer       string        `toml:"issuer"`
	TokenTTL     time.Duration `toml:"token_ttl"`
}

type RateLimitConfig struct {
	Requests int           `toml:"requests"`
	Window   time.Duration `toml:"window"`
}

type Profile struct {
	Name     string `toml:"name" json:"name"`
	Telegram string `toml:"telegram" json:"telegram"`
	Role     string `toml:"role" json:"role"`
	Hobbies  string `toml:"hobbies" json:"hobbies"`
}

func Default() *Config {
	return &Config{
		Environment:   "development",
		Port:          "8080",
		Timezone:      "UTC",
		WaterTargetML: 2000,
		LogLevel:      "info",
		LogToStdout:   true,
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		DB: DBConfig{
			Host: "localhost",
			Port: "5432",
		},
		Garmin: GarminConfig{
			BaseURL: "https://connectapi.garmin.com",
			Timeout: 15 * time.Second,
		},
		Sync: SyncConfig{
			StartDate: "2025-01-01",
			Interval:  6 * time.Hour,
		},
		Admin: AdminConfig{
			Issuer:   "kanso-vitals",
			TokenTTL: 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
	}
}

// Load reads the optional TOML file at path, then .env, then the process environment.
// Later sources override earlier ones.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
		}
	}

	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	if _, err := time.Parse("2006-01-02", c.Sync.StartDate); err != nil {
		return fmt.Errorf("config: invalid sync start date %q", c.Sync.StartDate)
	}
	if c.Sync.Interval < 0 {
		return errors.New("config: sync interval cannot be negative")
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c *Config) applyEnv() error {
	setString(&c.Environment, "APP_ENV")
	setString(&c.Port, "PORT")
	setString(&c.Timezone, "TIMEZONE")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogsPath, "LOGS_PATH")

	setString(&c.Redis.Host, "REDIS_HOST")
	setString(&c.Redis.Port, "REDIS_PORT")
	setString(&c.Redis.Password, "REDIS_PASSWORD")

	setString(&c.DB.Host, "DB_HOST")
	setString(&c.DB.Port, "DB_PORT")
	setString(&c.DB.User, "DB_USER")
	setString(&c.DB.Password, "DB_PASSWORD")
	setString(&c.DB.Name, "DB_NAME")

	setString(&c.Garmin.BaseURL, "GARMIN_BASE_URL")
	setString(&c.Garmin.Token, "GARMIN_TOKEN")
	setString(&c.Garmin.DisplayName, "GARMIN_DISPLAY_NAME")

	setString(&c.Sync.StartDate, "SYNC_START_DATE")

	setString(&c.Admin.PasswordHash, "ADMIN_PASSWORD_HASH")
	setString(&c.Admin.JWTSecret, "JWT_SECRET")

	setString(&c.Profile.Name, "PROFILE_NAME")
	setString(&c.Profile.Telegram, "PROFILE_TELEGRAM")

	var errs []error
	errs = append(errs,
		setInt(&c.Redis.DB, "REDIS_DB"),
		setInt(&c.WaterTargetML, "WATER_TARGET_ML"),
		setInt(&c.RateLimit.Requests, "RATE_LIMIT_REQUESTS"),
		setDuration(&c.Sync.Interval, "SYNC_INTERVAL"),
		setDuration(&c.Admin.TokenTTL, "TOKEN_TTL"),
		setDuration(&c.Garmin.Timeout, "GARMIN_TIMEOUT"),
		setBool(&c.LogToStdout, "LOG_TO_STDOUT"),
		setBool(&c.LogFormatJSON, "LOG_FORMAT_JSON"),
	)
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s must be a duration: %w", key, err)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: %s must be a boolean: %w", key, err)
	}
	*dst = b
	return nil
}
