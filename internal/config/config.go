package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress           string
	DatabaseURI          string
	JWTSecret            string
	AuthStrategy         string
	TokenTTL             time.Duration
	NotifyPollInterval   time.Duration
	WorkerPoolSize       int
	NotifyBatchSize      int
	NotifyMaxAttempts    int
	ShutdownTimeout      time.Duration
	StorageDir           string
	PublicBaseURL        string
	Mailer               string
	SMTP                 SMTPConfig
	LogLevel             string
	LogFormat            string
	InvoiceSweepSchedule string
	CORSOrigins          []string
	AdminLogin           string
	AdminPassword        string
}

// SMTPConfig describes the outgoing mail relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

const (
	defaultRunAddress           = ":8080"
	defaultJWTSecret            = "change-me-in-production"
	defaultAuthStrategy         = "jwt"
	defaultTokenTTL             = 24 * time.Hour
	defaultNotifyPollInterval   = 3 * time.Second
	defaultWorkerPoolSize       = 4
	defaultNotifyBatchSize      = 32
	defaultNotifyMaxAttempts    = 5
	defaultShutdownTimeout      = 10 * time.Second
	defaultStorageDir           = "./data"
	defaultPublicBaseURL        = "http://localhost:8080"
	defaultMailer               = "log"
	defaultSMTPPort             = 587
	defaultMailFrom             = "orders@letterdesk.local"
	defaultSMTPTimeout          = 15 * time.Second
	defaultLogLevel             = "info"
	defaultLogFormat            = "json"
	defaultInvoiceSweepSchedule = "0 6 * * *"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		JWTSecret:          getString(lookup, "JWT_SECRET", defaultJWTSecret),
		AuthStrategy:       getString(lookup, "AUTH_STRATEGY", defaultAuthStrategy),
		TokenTTL:           getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		NotifyPollInterval: getDuration(lookup, "NOTIFY_POLL_INTERVAL", defaultNotifyPollInterval),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		NotifyBatchSize:    getInt(lookup, "NOTIFY_BATCH_SIZE", defaultNotifyBatchSize),
		NotifyMaxAttempts:  getInt(lookup, "NOTIFY_MAX_ATTEMPTS", defaultNotifyMaxAttempts),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		StorageDir:         getString(lookup, "STORAGE_DIR", defaultStorageDir),
		PublicBaseURL:      getString(lookup, "PUBLIC_BASE_URL", defaultPublicBaseURL),
		Mailer:             getString(lookup, "MAILER", defaultMailer),
		SMTP: SMTPConfig{
			Host:     getString(lookup, "SMTP_HOST", ""),
			Port:     getInt(lookup, "SMTP_PORT", defaultSMTPPort),
			Username: getString(lookup, "SMTP_USERNAME", ""),
			Password: getString(lookup, "SMTP_PASSWORD", ""),
			From:     getString(lookup, "MAIL_FROM", defaultMailFrom),
			Timeout:  getDuration(lookup, "SMTP_TIMEOUT", defaultSMTPTimeout),
		},
		LogLevel:             getString(lookup, "LOG_LEVEL", defaultLogLevel),
		LogFormat:            getString(lookup, "LOG_FORMAT", defaultLogFormat),
		InvoiceSweepSchedule: getString(lookup, "INVOICE_SWEEP_SCHEDULE", defaultInvoiceSweepSchedule),
		CORSOrigins:          splitList(getString(lookup, "CORS_ORIGINS", "")),
		AdminLogin:           getString(lookup, "ADMIN_LOGIN", ""),
		AdminPassword:        getString(lookup, "ADMIN_PASSWORD", ""),
	}

	fs := flag.NewFlagSet("letterdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.NotifyPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		tokenTTLStr        = cfg.TokenTTL.String()
		corsOrigins        = strings.Join(cfg.CORSOrigins, ",")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.AuthStrategy, "auth-strategy", cfg.AuthStrategy, "Token strategy: jwt or hmac")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Auth token lifetime")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent notification workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between outbox polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.NotifyBatchSize, "poll-batch", cfg.NotifyBatchSize, "Maximum notifications per polling batch")
	fs.StringVar(&cfg.StorageDir, "storage-dir", cfg.StorageDir, "Directory for uploaded files")
	fs.StringVar(&cfg.PublicBaseURL, "public-url", cfg.PublicBaseURL, "Public base URL used in proof links")
	fs.StringVar(&cfg.Mailer, "mailer", cfg.Mailer, "Mail transport: smtp or log")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: json or text")
	fs.StringVar(&cfg.InvoiceSweepSchedule, "invoice-sweep", cfg.InvoiceSweepSchedule, "Cron schedule of the overdue invoice sweep")
	fs.StringVar(&corsOrigins, "cors-origins", corsOrigins, "Comma separated list of allowed CORS origins")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.NotifyPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	cfg.CORSOrigins = splitList(corsOrigins)

	secrets := []struct {
		env    string
		target *string
	}{
		{"JWT_SECRET_FILE", &cfg.JWTSecret},
		{"SMTP_PASSWORD_FILE", &cfg.SMTP.Password},
		{"ADMIN_PASSWORD_FILE", &cfg.AdminPassword},
	}
	for _, s := range secrets {
		if file, ok := lookup(s.env); ok && file != "" {
			content, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", strings.ToLower(s.env), err)
			}
			*s.target = strings.TrimSpace(string(content))
		}
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.NotifyBatchSize <= 0 {
		cfg.NotifyBatchSize = defaultNotifyBatchSize
	}

	if cfg.NotifyMaxAttempts <= 0 {
		cfg.NotifyMaxAttempts = defaultNotifyMaxAttempts
	}

	if cfg.NotifyPollInterval <= 0 {
		cfg.NotifyPollInterval = defaultNotifyPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	switch cfg.AuthStrategy {
	case "jwt", "hmac":
	default:
		return nil, fmt.Errorf("unknown auth strategy %q", cfg.AuthStrategy)
	}

	switch cfg.Mailer {
	case "log":
	case "smtp":
		if cfg.SMTP.Host == "" {
			return nil, fmt.Errorf("smtp host must be provided for smtp mailer")
		}
	default:
		return nil, fmt.Errorf("unknown mailer %q", cfg.Mailer)
	}

	if (cfg.AdminLogin == "") != (cfg.AdminPassword == "") {
		return nil, fmt.Errorf("admin login and password must be provided together")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
