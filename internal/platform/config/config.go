package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Server captures process level configuration.
type Server struct {
	Addr        string `env:"HUDUMA_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"HUDUMA_METRICS_ADDR" envDefault:":9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Timezone decides where "today" starts for officer statistics.
	Timezone string `env:"HUDUMA_TIMEZONE" envDefault:"Africa/Dar_es_Salaam"`

	Database Database
	Redis    RedisConfig
	Auth     Auth
	Admin    Admin
}

// Database configures Postgres. An empty URL selects in-memory stores.
type Database struct {
	URL         string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	MaxOpen     int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
}

// RedisConfig configures the refresh token revocation list. An empty URL
// selects the in-memory list.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

type Auth struct {
	// Use a default for development; override in production.
	JWTSigningKey   string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer       string        `env:"JWT_ISSUER" envDefault:"huduma"`
	JWTAudience     string        `env:"JWT_AUDIENCE" envDefault:"huduma-api"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"24h"`
}

// Admin holds the bootstrap administrator used by cmd/initadmin.
type Admin struct {
	Email    string `env:"SUPERUSER_EMAIL"`
	Password string `env:"SUPERUSER_PASSWORD"`
	FullName string `env:"SUPERUSER_FULL_NAME" envDefault:"Admin User"`
}

// FromEnv loads an optional .env file and parses the environment.
func FromEnv() (Server, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured timezone.
func (s Server) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}
