package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=4000"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET, default=todoapp_jwt_secret_key"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`

	SQLite SQLiteConfig
	Redis  RedisConfig
}

type SQLiteConfig struct {
	// Path is the database file. Empty selects the in-memory store, which
	// loses all state on restart.
	Path string `env:"SQLITE_PATH, default=todosync.sqlite3"`
}

type RedisConfig struct {
	// Addr enables the todo snapshot cache when non-empty.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	return &cfg
}
