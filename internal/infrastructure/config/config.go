package config

import (
	"context"
	"log/slog"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// DataDir backs the file store used when no MongoDB is configured.
	DataDir string `env:"DATA_DIR, default=./data"`
	// PublicBaseURL prefixes generated attachment links; empty keeps them relative.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	Mongo MongoConfig
	Redis RedisConfig
}

// MongoConfig selects the bulletin store. An empty URI switches the server
// to the file-backed local store.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=bulletin_board"`
}

// RedisConfig selects the lockout counter and image memo cache backend. An
// empty Addr switches both to their in-process fallbacks.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
