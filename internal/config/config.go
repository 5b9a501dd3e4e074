package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort         string        `env:"HTTP_PORT" envDefault:"8080"`
	StorageDriver    string        `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath       string        `env:"SQLITE_PATH" envDefault:"questionnaire.db"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	ChartDir         string        `env:"CHART_DIR" envDefault:"static"`
	ChartFile        string        `env:"CHART_FILE" envDefault:"level_of_education_distribution.html"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	IntakeRateLimit  int           `env:"INTAKE_RATE_LIMIT" envDefault:"30"`
	IntakeRateWindow time.Duration `env:"INTAKE_RATE_WINDOW" envDefault:"1m"`
}

// Drivers de almacenamiento soportados.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
