package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"

	"questionnaire/internal/config"
)

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Configuración razonable para ambientes iniciales.
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// OpenSQLite abre (o crea) el archivo SQLite de la encuesta.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=off")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Un solo escritor: SQLite serializa igual, así evitamos SQLITE_BUSY.
	conn.SetMaxOpenConns(1)
	return conn, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	user_id INTEGER PRIMARY KEY AUTOINCREMENT,
	age INTEGER NOT NULL,
	level_of_education TEXT NOT NULL,
	specialization TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS answers (
	answer_id INTEGER PRIMARY KEY,
	q1 TEXT NOT NULL DEFAULT '',
	q2 TEXT NOT NULL DEFAULT '',
	q3 TEXT NOT NULL DEFAULT '',
	q4 TEXT NOT NULL DEFAULT ''
);
`

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGSERIAL PRIMARY KEY,
		age INTEGER NOT NULL,
		level_of_education TEXT NOT NULL,
		specialization TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS answers (
		answer_id BIGINT PRIMARY KEY,
		q1 TEXT NOT NULL DEFAULT '',
		q2 TEXT NOT NULL DEFAULT '',
		q3 TEXT NOT NULL DEFAULT '',
		q4 TEXT NOT NULL DEFAULT ''
	)`,
}

// MigrateSQLite crea las tablas users y answers si no existen.
func MigrateSQLite(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}

// MigratePostgres crea las tablas users y answers si no existen.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return nil
}

// Pinger lo cumplen *pgxpool.Pool y SQLitePinger.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SQLitePinger adapta *sql.DB a Pinger.
type SQLitePinger struct {
	DB *sql.DB
}

func (p SQLitePinger) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

const defaultPingTimeout = 2 * time.Second

// Ping verifica conectividad con la base de datos. Sin deadline en ctx aplica
// defaultPingTimeout.
func Ping(ctx context.Context, p Pinger) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultPingTimeout)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
