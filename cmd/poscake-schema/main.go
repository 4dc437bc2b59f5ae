// Command poscake-schema writes the point-of-sale Prisma schema.
//
// Usage:
//
//	poscake-schema [output]
//
// The output path defaults to POSCAKE_SCHEMA_OUT, or prisma/schema.prisma.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nguyenlanh282/poscake-skill/internal/config"
	"github.com/nguyenlanh282/poscake-skill/internal/logger"
	"github.com/nguyenlanh282/poscake-skill/internal/schema"
)

func main() {
	if err := config.LoadDotenv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load()
	logger.Init("poscake-schema", cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	ctx := context.Background()
	path, err := run(os.Args[1:], cfg)
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Msg("fatal error")
		os.Exit(1)
	}
	logger.WithContext(ctx).Info().Str("path", path).Msg("schema written")
}

// run writes the schema to the first argument, or to cfg.SchemaOut, and
// returns the path written.
func run(args []string, cfg config.Config) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("usage: poscake-schema [output]")
	}
	path := cfg.SchemaOut
	if len(args) == 1 {
		path = args[0]
	}

	m := schema.POS()
	if err := m.Validate(); err != nil {
		return "", fmt.Errorf("invalid schema model: %w", err)
	}
	if err := m.WriteFile(path); err != nil {
		return "", err
	}
	return path, nil
}
