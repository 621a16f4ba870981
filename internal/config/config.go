package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	CORS     CORSConfig     `yaml:"cors"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	SLA      SLAConfig      `yaml:"sla"`
	Timeline TimelineConfig `yaml:"timeline"`
	Batch    BatchConfig    `yaml:"batch"`
	AMQP     AMQPConfig     `yaml:"amqp"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// CORSConfig holds browser cross-origin settings. AllowedOrigins is a
// comma-separated list; "*" allows any origin. The same list guards the
// WebSocket upgrade.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// Allows reports whether origin is in AllowedOrigins.
func (c CORSConfig) Allows(origin string) bool {
	for _, a := range strings.Split(c.AllowedOrigins, ",") {
		a = strings.TrimSpace(a)
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SLAConfig holds material classification and SLA thresholds.
type SLAConfig struct {
	ColdChainCodesRaw string `yaml:"cold_chain_codes" env:"SLA_COLD_CHAIN_CODES" env-default:""`
	FlammableCodesRaw string `yaml:"flammable_codes"  env:"SLA_FLAMMABLE_CODES"  env-default:""`
	ColdChainMinutes  int    `yaml:"cold_chain_minutes" env:"SLA_COLD_CHAIN_MINUTES" env-default:"240"`
	FlammableMinutes  int    `yaml:"flammable_minutes"  env:"SLA_FLAMMABLE_MINUTES"  env-default:"240"`
	StandardMinutes   int    `yaml:"standard_minutes"   env:"SLA_STANDARD_MINUTES"   env-default:"120"`
	Timezone          string `yaml:"timezone"           env:"SLA_TIMEZONE"           env-default:"Local"`
}

// TimelineConfig holds timeline reconciler settings.
type TimelineConfig struct {
	Limit           int           `yaml:"limit"            env:"TIMELINE_LIMIT"            env-default:"50"`
	FetchWindow     int           `yaml:"fetch_window"     env:"TIMELINE_FETCH_WINDOW"     env-default:"200"`
	HighlightWindow time.Duration `yaml:"highlight_window" env:"TIMELINE_HIGHLIGHT_WINDOW" env-default:"45s"`
	Tick            time.Duration `yaml:"tick"             env:"TIMELINE_TICK"             env-default:"1m"`
	Coalesce        time.Duration `yaml:"coalesce"         env:"TIMELINE_COALESCE"         env-default:"100ms"`
	RetryMin        time.Duration `yaml:"retry_min"        env:"TIMELINE_RETRY_MIN"        env-default:"1s"`
	RetryMax        time.Duration `yaml:"retry_max"        env:"TIMELINE_RETRY_MAX"        env-default:"30s"`
}

// BatchConfig holds notification batcher settings.
type BatchConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"BATCH_TIMEOUT" env-default:"5s"`
}

// AMQPConfig holds the optional RabbitMQ notification sink settings.
// An empty URL disables the sink.
type AMQPConfig struct {
	URL      string `yaml:"url"      env:"AMQP_URL"      env-default:""`
	Exchange string `yaml:"exchange" env:"AMQP_EXCHANGE" env-default:"nt_notifications"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}

// Location resolves Timezone. Civil dates and times stored without a zone
// are interpreted in this location.
func (c SLAConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// ColdChainCodes returns the configured cold-chain material codes.
func (c SLAConfig) ColdChainCodes() []string { return splitCodes(c.ColdChainCodesRaw) }

// FlammableCodes returns the configured flammable material codes.
func (c SLAConfig) FlammableCodes() []string { return splitCodes(c.FlammableCodesRaw) }

func splitCodes(raw string) []string {
	var codes []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}
