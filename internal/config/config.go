package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string         `yaml:"env"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	S3       S3Config       `yaml:"s3"`
	Auth     AuthConfig     `yaml:"auth"`
	Media    MediaConfig    `yaml:"media"`
	Chat     ChatConfig     `yaml:"chat"`
	Cache    CacheConfig    `yaml:"cache"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"`
	JWTAccessTTL     time.Duration `yaml:"jwt_access_ttl"`
	RefreshTTL       time.Duration `yaml:"refresh_ttl"`
	LoginMaxAttempts int           `yaml:"login_max_attempts"`
	LoginWindow      time.Duration `yaml:"login_window"`
}

type MediaConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	MaxWidth       int   `yaml:"max_width"`
	JPEGQuality    int   `yaml:"jpeg_quality"`
}

type ChatConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type CacheConfig struct {
	PortfolioTTL time.Duration `yaml:"portfolio_ttl"`
}

func Default() Config {
	return Config{
		Env: "dev",
		HTTP: HTTPConfig{
			Addr:        ":8080",
			ReadTimeout: 15 * time.Second,
			// Watch streams stay open indefinitely; no server-wide write
			// deadline.
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Auth: AuthConfig{
			JWTAccessTTL:     15 * time.Minute,
			RefreshTTL:       45 * 24 * time.Hour,
			LoginMaxAttempts: 5,
			LoginWindow:      15 * time.Minute,
		},
		Media: MediaConfig{
			MaxUploadBytes: 5 << 20,
			MaxWidth:       800,
			JPEGQuality:    70,
		},
		Chat: ChatConfig{
			Model: "gemini-2.0-flash",
		},
		Cache: CacheConfig{
			PortfolioTTL: time.Minute,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if err := loadFromYAML(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if err := overrideDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout); err != nil {
		return err
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if err := overrideInt("REDIS_DB", &cfg.Redis.DB); err != nil {
		return err
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		cfg.S3.Endpoint = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		cfg.S3.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		cfg.S3.SecretKey = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.S3.Bucket = v
	}
	if err := overrideBool("S3_USE_SSL", &cfg.S3.UseSSL); err != nil {
		return err
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if err := overrideDuration("JWT_ACCESS_TTL", &cfg.Auth.JWTAccessTTL); err != nil {
		return err
	}
	if err := overrideDuration("REFRESH_TTL", &cfg.Auth.RefreshTTL); err != nil {
		return err
	}
	if err := overrideInt("LOGIN_MAX_ATTEMPTS", &cfg.Auth.LoginMaxAttempts); err != nil {
		return err
	}
	if err := overrideDuration("LOGIN_WINDOW", &cfg.Auth.LoginWindow); err != nil {
		return err
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Chat.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Chat.Model = v
	}
	if err := overrideDuration("PORTFOLIO_CACHE_TTL", &cfg.Cache.PortfolioTTL); err != nil {
		return err
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.Env == "prod" && cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required in production")
	}
	if cfg.Media.MaxWidth <= 0 {
		return errors.New("media.max_width must be positive")
	}
	if cfg.Media.JPEGQuality <= 0 || cfg.Media.JPEGQuality > 100 {
		return errors.New("media.jpeg_quality must be in (0, 100]")
	}
	if cfg.Auth.LoginMaxAttempts < 0 {
		return errors.New("auth.login_max_attempts must not be negative")
	}
	return nil
}

func overrideDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = parsed
	return nil
}

func overrideInt(key string, target *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = parsed
	return nil
}

func overrideBool(key string, target *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = parsed
	return nil
}
