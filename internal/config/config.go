package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment.
type Config struct {
	Addr          string `env:"KATALOG_ADDR" envDefault:":8080"`
	DBPath        string `env:"KATALOG_DB" envDefault:"katalog.sqlite3"`
	JWTSecret     string `env:"KATALOG_JWT_SECRET"`
	AdminEmail    string `env:"KATALOG_ADMIN_EMAIL" envDefault:"admin@katalog.local"`
	AdminUsername string `env:"KATALOG_ADMIN_USERNAME" envDefault:"admin"`
	MaxImageBytes int64  `env:"KATALOG_MAX_IMAGE_BYTES" envDefault:"5242880"`

	Log LogConfig
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level    string `env:"LOG_LEVEL" envDefault:"info"`
	Encoding string `env:"LOG_ENCODING" envDefault:"console"`
	File     string `env:"LOG_FILE"`
}

// Load reads an optional .env file and parses the environment.
// A missing .env file is not an error.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
