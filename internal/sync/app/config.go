package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port         int    `env:"PORT"               envDefault:"8080"`
	DatabaseFile string `env:"SYNC_DATABASE_FILE" envDefault:"sync.db"`

	// JWTSecret signs every access and refresh token; rotating it logs
	// everyone out.
	JWTSecret  string        `env:"SYNC_JWT_SECRET,required"`
	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	Env       string `env:"ENV"        envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
