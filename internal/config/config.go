package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	DatabaseURL   string // DATABASE_URL, default "poscake.db"
	LogLevel      string // LOG_LEVEL, default "info"
	Environment   string // ENVIRONMENT, default "development"
	AdminEmail    string // POSCAKE_ADMIN_EMAIL, default "admin@poscake.local"
	AdminPassword string // POSCAKE_ADMIN_PASSWORD, default "admin123"
	SchemaOut     string // POSCAKE_SCHEMA_OUT, default "prisma/schema.prisma"
}

// IsDevelopment reports whether logs should be human-readable.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		DatabaseURL:   envOr("DATABASE_URL", "poscake.db"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		Environment:   envOr("ENVIRONMENT", "development"),
		AdminEmail:    envOr("POSCAKE_ADMIN_EMAIL", "admin@poscake.local"),
		AdminPassword: envOr("POSCAKE_ADMIN_PASSWORD", "admin123"),
		SchemaOut:     envOr("POSCAKE_SCHEMA_OUT", "prisma/schema.prisma"),
	}
}

// LoadDotenv reads the named .env files (".env" when none are given) into the
// environment without overriding variables that are already set. Missing
// files are not an error.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
