package store

import (
	"fmt"
	"strings"
	"time"
)

// Driver names a change log backend
type Driver string

// Supported drivers
const (
	DriverPostgres   Driver = "postgres"
	DriverClickHouse Driver = "clickhouse"
	DriverSQLite     Driver = "sqlite"
)

// ParseDriver accepts a driver name and a few common aliases
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	case "clickhouse", "ch":
		return DriverClickHouse, nil
	case "sqlite", "sqlite3", "lite":
		return DriverSQLite, nil
	}
	return "", fmt.Errorf("store: unknown driver %q", s)
}

// LangPlaceholder is replaced by the edition code in URL templates
const LangPlaceholder = "{lang}"

// Config aggregates connection settings for one change log replica
type Config struct {
	AppName string
	Driver  Driver

	// URL is a DSN for postgres and clickhouse or a file path for sqlite
	// it may contain {lang}, see ForLang
	URL         string
	MaxConns    int
	LogSQL      bool
	SlowQueryMs int

	// QueryTimeout bounds each statement server side where the driver supports it
	QueryTimeout time.Duration

	Connect ConnectConfig
	CH      CHConfig
	Lite    LiteConfig
}

// ConnectConfig holds the boot ping guardrails
type ConnectConfig struct {
	Retries     int           // default 6
	PingTimeout time.Duration // default 3s
}

// CHConfig holds clickhouse only knobs
type CHConfig struct {
	ClientName  string
	ClientTag   string
	DialTimeout time.Duration
}

// LiteConfig holds sqlite only knobs
type LiteConfig struct {
	ReadOnly bool
}

// ForLang returns a copy with {lang} expanded in the URL
func (c Config) ForLang(lang string) Config {
	c.URL = strings.ReplaceAll(c.URL, LangPlaceholder, lang)
	return c
}

// PerEdition reports whether the URL differs per language
func (c Config) PerEdition() bool { return strings.Contains(c.URL, LangPlaceholder) }

func (c ConnectConfig) withDefaults() ConnectConfig {
	if c.Retries <= 0 {
		c.Retries = 6
	}
	if c.PingTimeout <= 0 {
		c.PingTimeout = 3 * time.Second
	}
	return c
}
