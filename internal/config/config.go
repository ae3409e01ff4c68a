package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
)

type Config struct {
	DB db.Options

	HTTPPort    string
	GRPCPort    string
	MetricsPort string

	KafkaBrokers  []string
	EventsTopic   string
	ConsumerGroup string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int

	AuditWorkers   int
	AuditBatchSize int
	AuditTimeout   time.Duration

	ApprovalPolicy string

	OTLPEndpoint string
	OTLPInsecure bool

	LogLevel string

	AdminUsername string
	AdminPassword string
}

// LoadEnv reads the first .env found in dir or up to two parents, falling
// back to .example.env in the same places. Variables already set in the
// process environment win. It returns the loaded path, or "" when nothing
// was found.
func LoadEnv(dir string) string {
	possiblePaths := []string{
		filepath.Join(dir, ".env"),
		filepath.Join(dir, "..", ".env"),
		filepath.Join(dir, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			return envPath
		}
	}

	for _, envPath := range possiblePaths {
		examplePath := filepath.Join(filepath.Dir(envPath), ".example.env")
		if err := godotenv.Load(examplePath); err == nil {
			return examplePath
		}
	}

	return ""
}

// Load loads the env file next to the working directory and parses the
// process environment into a Config.
func Load(logger *zap.Logger) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	if path := LoadEnv(wd); path != "" {
		logger.Info("loaded environment variables", zap.String("path", path))
	} else {
		logger.Warn("no .env or .example.env file found, using process environment")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	p := parser{}
	cfg := &Config{
		DB: db.Options{
			Host:     p.str("DB_HOST", "localhost"),
			Port:     p.integer("DB_PORT", 5432),
			User:     p.str("POSTGRES_USER", "postgres"),
			Password: p.str("POSTGRES_PASSWORD", ""),
			Name:     p.str("POSTGRES_DB", "custody"),
			MaxConns: int32(p.integer("DB_MAX_CONNS", 0)),
		},

		HTTPPort:    p.str("HTTP_PORT", "9000"),
		GRPCPort:    p.str("GRPC_PORT", "9001"),
		MetricsPort: p.str("METRICS_PORT", "9002"),

		KafkaBrokers:  p.list("KAFKA_BROKERS"),
		EventsTopic:   p.str("KAFKA_EVENTS_TOPIC", "custody_events"),
		ConsumerGroup: p.str("KAFKA_CONSUMER_GROUP", "custody-events-consumer-group"),

		OutboxPollInterval: p.duration("OUTBOX_POLL_INTERVAL", time.Second),
		OutboxBatchSize:    p.integer("OUTBOX_BATCH_SIZE", 10),
		OutboxMaxAttempts:  p.integer("OUTBOX_MAX_ATTEMPTS", 5),

		AuditWorkers:   p.integer("AUDIT_WORKERS", 2),
		AuditBatchSize: p.integer("AUDIT_BATCH_SIZE", 5),
		AuditTimeout:   p.duration("AUDIT_TIMEOUT", 500*time.Millisecond),

		ApprovalPolicy: p.str("CUSTODY_APPROVAL_POLICY", "first_approver"),

		OTLPEndpoint: p.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure: p.boolean("OTEL_EXPORTER_OTLP_INSECURE", false),

		LogLevel: p.str("LOG_LEVEL", "debug"),

		AdminUsername: p.str("ADMIN_USERNAME", ""),
		AdminPassword: p.str("ADMIN_PASSWORD", ""),
	}
	if p.err != nil {
		return nil, p.err
	}
	if cfg.OutboxBatchSize <= 0 || cfg.AuditWorkers <= 0 || cfg.AuditBatchSize <= 0 {
		return nil, fmt.Errorf("outbox batch size, audit workers and audit batch size must be positive")
	}
	return cfg, nil
}

// parser keeps the first conversion error so FromEnv can report it once.
type parser struct {
	err error
}

func (p *parser) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return n
}

func (p *parser) boolean(key string, def bool) bool {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return b
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return d
}

func (p *parser) list(key string) []string {
	var out []string
	for _, part := range strings.Split(p.str(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid value for %s: %w", key, err)
	}
}
