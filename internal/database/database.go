// Package database wires the application to PostgreSQL: connection
// settings from the environment, schema creation from registered model
// metadata, and the baseline catalog seed.
package database

import (
	"context"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/soundstore/soundstore/internal/models"
	"github.com/soundstore/soundstore/pkg/builder"
	"github.com/soundstore/soundstore/pkg/runtime"
)

// ConfigFromEnv builds a connection config from the environment. A
// .env file in the working directory is loaded first when present.
func ConfigFromEnv() *runtime.Config {
	_ = godotenv.Load()

	config := runtime.DefaultConfig()
	if v := os.Getenv("DB_HOST"); v != "" {
		config.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Port = port
		}
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		config.Database = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		config.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		config.Password = v
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		config.SSLMode = v
	}
	return config
}

// Connect opens a pooled connection and registers the domain models so
// query building and DDL generation see the full schema.
func Connect(ctx context.Context) (*builder.DB, error) {
	if err := models.RegisterAll(); err != nil {
		return nil, err
	}

	db, err := runtime.Connect(ctx, ConfigFromEnv())
	if err != nil {
		return nil, err
	}
	return builder.New(db), nil
}

// ConnectURL opens a pooled connection from a connection URL. Used by
// tests running against a throwaway server.
func ConnectURL(ctx context.Context, url string) (*builder.DB, error) {
	if err := models.RegisterAll(); err != nil {
		return nil, err
	}

	db, err := runtime.ConnectWithURL(ctx, url)
	if err != nil {
		return nil, err
	}
	return builder.New(db), nil
}
