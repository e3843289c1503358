package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// BillingPolicy controls what happens to consumed tokens when every
// provider candidate fails after a successful debit.
type BillingPolicy string

const (
	// BillingChargeOnAttempt keeps the debit even when generation fails.
	BillingChargeOnAttempt BillingPolicy = "charge_on_attempt"
	// BillingRefundOnFailure credits the debit back when generation fails.
	BillingRefundOnFailure BillingPolicy = "refund_on_failure"
)

// Config holds all configuration for the bongo-server service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"bongo-server"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort     int           `env:"METRICS_PORT" envDefault:"9091"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Provider invocation. The bearer credential and home region must be
	// present before any provider call is attempted; a missing credential is
	// a fatal configuration error at startup.
	BearerToken       string        `env:"AWS_BEARER_TOKEN_BEDROCK,notEmpty"`
	HomeRegion        string        `env:"AWS_REGION" envDefault:"us-east-1"`
	CrossRegion       string        `env:"BEDROCK_CROSS_REGION" envDefault:"us-east-1"`
	CrossRegionMarker string        `env:"BEDROCK_CROSS_REGION_MARKER" envDefault:"us"`
	AltRegion         string        `env:"BEDROCK_ALT_REGION" envDefault:"us-west-2"`
	CandidateTimeout  time.Duration `env:"CANDIDATE_TIMEOUT" envDefault:"30s"`

	// Billing
	BillingPolicy     BillingPolicy `env:"BILLING_POLICY" envDefault:"charge_on_attempt"`
	SignupBonusTokens int64         `env:"SIGNUP_BONUS_TOKENS" envDefault:"10"`

	// Auth. The identity-provider handshake lives outside this service; it
	// issues HS256 session tokens that we only validate.
	SessionTokenSecret string   `env:"SESSION_TOKEN_SECRET,notEmpty"`
	AdminSubjects      []string `env:"ADMIN_SUBJECTS" envSeparator:","`

	// Account store. When DATABASE_URL is empty the in-memory store is used
	// (local development only; balances do not survive a restart).
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	// Generated media persistence. Empty backend keeps media inline as data URIs.
	MediaStorageBackend string `env:"MEDIA_STORAGE"` // "", "local" or "s3"
	MediaLocalDir       string `env:"MEDIA_LOCAL_DIR" envDefault:"./media"`
	MediaBaseURL        string `env:"MEDIA_BASE_URL" envDefault:"/media"`
	MediaS3Bucket       string `env:"MEDIA_S3_BUCKET"`
	MediaS3Prefix       string `env:"MEDIA_S3_PREFIX" envDefault:"generated"`
	MediaS3PublicURL    string `env:"MEDIA_S3_PUBLIC_URL"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
}

// Load parses environment variables into Config and performs minimal validation.
// A .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if strings.TrimSpace(cfg.HomeRegion) == "" {
		return nil, fmt.Errorf("AWS_REGION must not be blank")
	}

	switch cfg.BillingPolicy {
	case BillingChargeOnAttempt, BillingRefundOnFailure:
	default:
		return nil, fmt.Errorf("BILLING_POLICY must be %q or %q, got %q",
			BillingChargeOnAttempt, BillingRefundOnFailure, cfg.BillingPolicy)
	}

	switch cfg.MediaStorageBackend {
	case "", "local":
	case "s3":
		if strings.TrimSpace(cfg.MediaS3Bucket) == "" {
			return nil, fmt.Errorf("MEDIA_S3_BUCKET is required when MEDIA_STORAGE is s3")
		}
	default:
		return nil, fmt.Errorf("unsupported MEDIA_STORAGE backend %q", cfg.MediaStorageBackend)
	}

	if cfg.CandidateTimeout <= 0 {
		return nil, fmt.Errorf("CANDIDATE_TIMEOUT must be positive")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	return cfg, nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// MetricsAddr returns the metrics server address.
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf(":%d", c.MetricsPort)
}

// RefundOnFailure reports whether failed generations are credited back.
func (c *Config) RefundOnFailure() bool {
	return c.BillingPolicy == BillingRefundOnFailure
}

// IsAdminSubject reports whether the given subject may call admin endpoints.
func (c *Config) IsAdminSubject(subject string) bool {
	for _, s := range c.AdminSubjects {
		if strings.TrimSpace(s) == subject {
			return true
		}
	}
	return false
}
