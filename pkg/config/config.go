package config

import (
	"errors"
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

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	CORS        CORSConfig
	Log         LogConfig
	Optimizer   OptimizerConfig
	Preferences PreferencesConfig
}

type DatabaseConfig struct {
	Enabled      bool
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

// AuthConfig gates the API behind HS256 bearer tokens.
type AuthConfig struct {
	Enabled bool
	Secret  string
	Issuer  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// OptimizerConfig bounds searches and tunes caching, persistence and the async queue.
type OptimizerConfig struct {
	MaxEvaluations int64
	Timeout        time.Duration
	MaxSubjects    int
	CacheEnabled   bool
	CacheTTL       time.Duration
	PersistRuns    bool
	Workers        int
	QueueSize      int
}

// PreferencesConfig holds CLI defaults for preferences not given as flags.
type PreferencesConfig struct {
	AvoidDays   []string
	WindowStart string
	WindowEnd   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Enabled:      v.GetBool("DB_ENABLED"),
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

	cfg.Auth = AuthConfig{
		Enabled: v.GetBool("AUTH_ENABLED"),
		Secret:  v.GetString("JWT_SECRET"),
		Issuer:  v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Optimizer = OptimizerConfig{
		MaxEvaluations: v.GetInt64("OPTIMIZER_MAX_EVALUATIONS"),
		Timeout:        parseDuration(v.GetString("OPTIMIZER_TIMEOUT"), 30*time.Second),
		MaxSubjects:    v.GetInt("OPTIMIZER_MAX_SUBJECTS"),
		CacheEnabled:   v.GetBool("OPTIMIZER_CACHE_ENABLED"),
		CacheTTL:       parseDuration(v.GetString("OPTIMIZER_CACHE_TTL"), 15*time.Minute),
		PersistRuns:    v.GetBool("OPTIMIZER_PERSIST_RUNS"),
		Workers:        v.GetInt("OPTIMIZER_WORKERS"),
		QueueSize:      v.GetInt("OPTIMIZER_QUEUE_SIZE"),
	}

	cfg.Preferences = PreferencesConfig{
		AvoidDays:   splitAndTrim(v.GetString("PREFERENCES_AVOID_DAYS")),
		WindowStart: v.GetString("PREFERENCES_WINDOW_START"),
		WindowEnd:   v.GetString("PREFERENCES_WINDOW_END"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("OPTIMIZER_MAX_EVALUATIONS", 0)
	v.SetDefault("OPTIMIZER_TIMEOUT", "30s")
	v.SetDefault("OPTIMIZER_MAX_SUBJECTS", 12)
	v.SetDefault("OPTIMIZER_CACHE_ENABLED", false)
	v.SetDefault("OPTIMIZER_CACHE_TTL", "15m")
	v.SetDefault("OPTIMIZER_PERSIST_RUNS", false)
	v.SetDefault("OPTIMIZER_WORKERS", 2)
	v.SetDefault("OPTIMIZER_QUEUE_SIZE", 32)

	v.SetDefault("PREFERENCES_AVOID_DAYS", "")
	v.SetDefault("PREFERENCES_WINDOW_START", "00:00")
	v.SetDefault("PREFERENCES_WINDOW_END", "24:00")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
