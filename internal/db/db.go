package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"blogtalks/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var embedMigrations embed.FS

func NewPostgresConnection(cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := cfg.GetDSN()
	pool, err := pgxpool.New(context.Background(), dsn)

	if err != nil {
		return nil, err
	}

	err = pool.Ping(context.Background())
	if err != nil {
		return nil, err
	}

	return pool, nil
}

// Migrate прогоняет встроенные goose-миграции через stdlib-адаптер pgx.
func Migrate(cfg *config.Config) error {
	sqlDB, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("открытие соединения для миграций: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
