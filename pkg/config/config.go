package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is everything the API and registrarctl read from the environment.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Admin    AdminConfig
	Settings SettingsConfig
	Sections SectionsConfig
	Mail     MailConfig
	Events   EventsConfig
}

type DatabaseConfig struct {
	// URL, when set, is used as the connection string and the discrete fields are ignored.
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AdminConfig holds the single administrator account.
type AdminConfig struct {
	Email        string
	PasswordHash string
	DisplayName  string
}

// SettingsConfig tunes the in-process cache for AppConfig rows.
type SettingsConfig struct {
	CacheTTL time.Duration
}

// SectionsConfig governs caching of the public sections listing.
type SectionsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// MailConfig configures the transactional email provider.
type MailConfig struct {
	ResendAPIKey string
	From         string
	OwnerEmail   string
	SchoolName   string
	ZelleHandle  string
	SendTimeout  time.Duration
}

// EventsConfig configures registration event publishing.
type EventsConfig struct {
	NATSURL    string
	Subject    string
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
	// DrainTimeout bounds how long shutdown waits for queued events.
	DrainTimeout time.Duration
}

// Load reads .env (when present) and the process environment, applies defaults
// and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		URL:          v.GetString("DATABASE_URL"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: duration(v, "JWT_EXPIRATION"),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: origins(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Admin = AdminConfig{
		Email:        strings.ToLower(strings.TrimSpace(v.GetString("ADMIN_EMAIL"))),
		PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		DisplayName:  v.GetString("ADMIN_DISPLAY_NAME"),
	}

	cfg.Settings = SettingsConfig{
		CacheTTL: duration(v, "SETTINGS_CACHE_TTL"),
	}

	cfg.Sections = SectionsConfig{
		CacheEnabled: v.GetBool("ENABLE_SECTIONS_CACHE"),
		CacheTTL:     duration(v, "SECTIONS_CACHE_TTL"),
	}

	cfg.Mail = MailConfig{
		ResendAPIKey: v.GetString("RESEND_API_KEY"),
		From:         v.GetString("MAIL_FROM"),
		OwnerEmail:   v.GetString("OWNER_EMAIL"),
		SchoolName:   v.GetString("SCHOOL_NAME"),
		ZelleHandle:  v.GetString("ZELLE_HANDLE"),
		SendTimeout:  duration(v, "MAIL_SEND_TIMEOUT"),
	}

	cfg.Events = EventsConfig{
		NATSURL:      v.GetString("NATS_URL"),
		Subject:      v.GetString("EVENTS_SUBJECT"),
		Workers:      v.GetInt("EVENTS_WORKERS"),
		MaxRetries:   v.GetInt("EVENTS_MAX_RETRIES"),
		RetryDelay:   duration(v, "EVENTS_RETRY_DELAY"),
		DrainTimeout: duration(v, "EVENTS_DRAIN_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const devJWTSecret = "dev_secret"

// Validate reports every setting that would make the service misbehave. In
// production it also refuses the development JWT secret and a missing admin login.
func (c *Config) Validate() error {
	var problems []error
	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if h := c.Admin.PasswordHash; h != "" && !strings.HasPrefix(h, "$2") {
		problems = append(problems, errors.New("ADMIN_PASSWORD_HASH must be a bcrypt hash"))
	}
	if c.Settings.CacheTTL <= 0 {
		problems = append(problems, errors.New("SETTINGS_CACHE_TTL must be positive"))
	}
	if c.Events.Workers < 1 {
		problems = append(problems, errors.New("EVENTS_WORKERS must be at least 1"))
	}
	if c.Env == EnvProduction {
		if c.JWT.Secret == devJWTSecret || len(c.JWT.Secret) < 32 {
			problems = append(problems, errors.New("JWT_SECRET must be set to at least 32 characters in production"))
		}
		if c.Admin.Email == "" || c.Admin.PasswordHash == "" {
			problems = append(problems, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD_HASH are required in production"))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(problems...))
	}
	return nil
}

// defaults covers every key Load reads, so AutomaticEnv sees all of them.
var defaults = map[string]any{
	"ENV":        EnvDevelopment,
	"PORT":       8080,
	"API_PREFIX": "/api",

	"DATABASE_URL":      "",
	"DB_HOST":           "localhost",
	"DB_PORT":           5432,
	"DB_USER":           "postgres",
	"DB_PASSWORD":       "postgres",
	"DB_NAME":           "baila_kids",
	"DB_SSL_MODE":       "disable",
	"DB_MAX_OPEN_CONNS": 10,
	"DB_MAX_IDLE_CONNS": 5,

	"REDIS_HOST":     "localhost",
	"REDIS_PORT":     6379,
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,

	"JWT_SECRET":     devJWTSecret,
	"JWT_EXPIRATION": "12h",
	"JWT_ISSUER":     "baila-kids-registration",

	"ALLOWED_ORIGINS": "",
	"LOG_LEVEL":       "info",
	"LOG_FORMAT":      "json",

	"ADMIN_EMAIL":         "",
	"ADMIN_PASSWORD_HASH": "",
	"ADMIN_DISPLAY_NAME":  "Administrator",

	"SETTINGS_CACHE_TTL":    "60s",
	"ENABLE_SECTIONS_CACHE": false,
	"SECTIONS_CACHE_TTL":    "30s",

	"RESEND_API_KEY":    "",
	"MAIL_FROM":         "Baila Kids <registration@bailakids.org>",
	"OWNER_EMAIL":       "",
	"SCHOOL_NAME":       "Baila Kids",
	"ZELLE_HANDLE":      "",
	"MAIL_SEND_TIMEOUT": "10s",

	"NATS_URL":             "",
	"EVENTS_SUBJECT":       "registrations.created",
	"EVENTS_WORKERS":       1,
	"EVENTS_MAX_RETRIES":   3,
	"EVENTS_RETRY_DELAY":   "1s",
	"EVENTS_DRAIN_TIMEOUT": "10s",
}

// duration reads key as a Go duration. A malformed value falls back to the
// key's default rather than to zero.
func duration(v *viper.Viper, key string) time.Duration {
	if d, err := time.ParseDuration(v.GetString(key)); err == nil {
		return d
	}
	d, _ := time.ParseDuration(defaults[key].(string))
	return d
}

// origins splits ALLOWED_ORIGINS on commas, dropping blanks.
func origins(raw string) []string {
	out := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
	if len(out) == 0 {
		return nil
	}
	return out
}
