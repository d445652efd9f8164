package config

import (
	"fmt"
	"net"
	"strconv"
)

// DBConfig contains PostgreSQL configuration. The database is only used
// when the allow-list source is "postgres".
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"nova"`
	Password string `env:"PASSWORD" envDefault:"nova"`
	Name     string `env:"NAME"     envDefault:"nova"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
}

// DSN returns the Postgres connection string.
func (d DBConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User, d.Password, hostPort, d.Name, d.SSLMode)
}

// RedisConfig contains Redis configuration for the session store and the
// dataset cache.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}
