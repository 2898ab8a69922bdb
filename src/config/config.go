package config

import (
	"strings"
	"time"

	"learnhub-backend/src/notify"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string        `mapstructure:"APP_ENV"`
	Port           string        `mapstructure:"APP_PORT"`
	MongoURI       string        `mapstructure:"MONGO_URI"`
	MongoDatabase  string        `mapstructure:"MONGO_DATABASE"`
	RedisURI       string        `mapstructure:"REDIS_URI"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	JWTTTL         time.Duration `mapstructure:"JWT_TTL"`
	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"`
	RateLimit      int           `mapstructure:"RATE_LIMIT"`
	RateWindow     time.Duration `mapstructure:"RATE_WINDOW"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`
	PublicURL      string        `mapstructure:"PUBLIC_URL"`
	SMTPHost       string        `mapstructure:"SMTP_HOST"`
	SMTPPort       int           `mapstructure:"SMTP_PORT"`
	SMTPUser       string        `mapstructure:"SMTP_USER"`
	SMTPPass       string        `mapstructure:"SMTP_PASS"`
	SMTPFrom       string        `mapstructure:"SMTP_FROM"`
}

var keys = []string{
	"APP_ENV", "APP_PORT", "MONGO_URI", "MONGO_DATABASE", "REDIS_URI",
	"JWT_SECRET", "JWT_TTL", "ALLOWED_ORIGINS", "RATE_LIMIT", "RATE_WINDOW", "CACHE_TTL",
	"PUBLIC_URL", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_FROM",
}

// Load reads app.env from path (optional) and the environment. A .env file in
// the working directory is loaded first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8888")
	v.SetDefault("MONGO_DATABASE", "learnhub")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT", 20)
	v.SetDefault("RATE_WINDOW", "1m")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("SMTP_PORT", 587)
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, errors.Wrap(err, "read config")
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decode config")
	}
	return cfg, cfg.Validate()
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	switch {
	case c.MongoURI == "":
		return errors.New("MONGO_URI is required")
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET is required")
	case c.RateLimit < 1:
		return errors.New("RATE_LIMIT must be positive")
	case c.RateWindow <= 0:
		return errors.New("RATE_WINDOW must be positive")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Origins splits ALLOWED_ORIGINS for the CORS middleware.
func (c Config) Origins() string {
	parts := strings.Split(c.AllowedOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}

// SMTP returns the mail settings; mail stays off until SMTP_HOST is set.
func (c Config) SMTP() notify.SMTPConfig {
	return notify.SMTPConfig{
		Host: c.SMTPHost,
		Port: c.SMTPPort,
		User: c.SMTPUser,
		Pass: c.SMTPPass,
		From: c.SMTPFrom,
	}
}
