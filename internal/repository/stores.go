package repository

import (
	"context"
	"fmt"

	"questionnaire/internal/config"
	"questionnaire/internal/db"
)

// Stores agrupa ambos almacenes sobre el mismo backend.
type Stores struct {
	Respondents RespondentRepository
	Answers     AnswerRepository
	Ping        func(ctx context.Context) error
	Close       func()
}

// Open construye los almacenes según STORAGE_DRIVER y crea el esquema si falta.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite, "":
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := db.MigrateSQLite(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
		return &Stores{
			Respondents: NewSQLiteRespondentRepository(conn),
			Answers:     NewSQLiteAnswerRepository(conn),
			Ping:        func(ctx context.Context) error { return db.Ping(ctx, db.SQLitePinger{DB: conn}) },
			Close:       func() { conn.Close() },
		}, nil
	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for driver %q", cfg.StorageDriver)
		}
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := db.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Stores{
			Respondents: NewPgRespondentRepository(pool),
			Answers:     NewPgAnswerRepository(pool),
			Ping:        func(ctx context.Context) error { return db.Ping(ctx, pool) },
			Close:       pool.Close,
		}, nil
	case config.DriverMemory:
		return &Stores{
			Respondents: NewMemoryRespondentRepository(),
			Answers:     NewMemoryAnswerRepository(),
			Ping:        func(context.Context) error { return nil },
			Close:       func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
