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
	Env  string
	Port int

	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Admin     AdminConfig
	Log       LogConfig
	Scheduler SchedulerConfig

	DefaultRateLimit int
}

// DatabaseConfig selects Postgres when URL is set and SQLite otherwise.
type DatabaseConfig struct {
	URL      string
	DataPath string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type AuthConfig struct {
	JWTSecret     string
	JWTExpiration time.Duration
	MasterSecret  string
	BcryptCost    int
}

type AdminConfig struct {
	Username string
	Password string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig holds the allocator thresholds in minutes.
type SchedulerConfig struct {
	SubjectMinBlock  int
	ActivityMinBlock int
	MaxBlock         int
	MinFreeBlock     int
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

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.DefaultRateLimit = positive(v.GetInt("DEFAULT_RATE_LIMIT"), 10000)

	cfg.Database = DatabaseConfig{
		URL:      v.GetString("DATABASE_URL"),
		DataPath: v.GetString("DATA_PATH"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      parseDuration(v.GetString("SCHEDULE_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Auth = AuthConfig{
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTExpiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		MasterSecret:  v.GetString("API_MASTER_SECRET"),
		BcryptCost:    positive(v.GetInt("BCRYPT_COST"), 14),
	}

	cfg.Admin = AdminConfig{
		Username: v.GetString("ADMIN_USERNAME"),
		Password: v.GetString("ADMIN_PASSWORD"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		SubjectMinBlock:  positive(v.GetInt("SCHEDULER_SUBJECT_MIN_BLOCK"), 30),
		ActivityMinBlock: positive(v.GetInt("SCHEDULER_ACTIVITY_MIN_BLOCK"), 30),
		MaxBlock:         positive(v.GetInt("SCHEDULER_MAX_BLOCK"), 60),
		MinFreeBlock:     positive(v.GetInt("SCHEDULER_MIN_FREE_BLOCK"), 15),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8000)
	v.SetDefault("DEFAULT_RATE_LIMIT", 10000)

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATA_PATH", "api_keys.db")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SCHEDULE_CACHE_TTL", "10m")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("API_MASTER_SECRET", "dev_master_secret")
	v.SetDefault("BCRYPT_COST", 14)

	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_SUBJECT_MIN_BLOCK", 30)
	v.SetDefault("SCHEDULER_ACTIVITY_MIN_BLOCK", 30)
	v.SetDefault("SCHEDULER_MAX_BLOCK", 60)
	v.SetDefault("SCHEDULER_MIN_FREE_BLOCK", 15)
}

// IsProduction reports whether ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
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

func positive(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
