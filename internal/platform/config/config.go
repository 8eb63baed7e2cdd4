package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                      string
	DatabaseURL               string
	DBMaxConns                int
	JWTSecret                 string
	FrontendDir               string
	Environment               string
	LogLevel                  string
	SeedTenantName            string
	SeedAdminEmail            string
	SeedAdminPassword         string
	EmailFrom                 string
	EmailEnabled              bool
	SMTPHost                  string
	SMTPPort                  int
	SMTPUser                  string
	SMTPPassword              string
	SMTPUseTLS                bool
	RunMigrations             bool
	RunSeed                   bool
	MigrationsDir             string
	MaxBodyBytes              int64
	RateLimitPerMinute        int
	CORSAllowedOrigins        []string
	TrustedProxies            []string
	AccessTokenTTL            time.Duration
	RefreshTokenTTL           time.Duration
	StorageDriver             string
	StorageDir                string
	StoragePublicURL          string
	S3Endpoint                string
	S3Region                  string
	S3Bucket                  string
	S3AccessKey               string
	S3SecretKey               string
	MongoURI                  string
	MongoDatabase             string
	OTELServiceName           string
	PayrollAutorunInterval    time.Duration
	AnalyticsSnapshotInterval time.Duration
	NotifyConcurrent          bool
	PayslipVerifyURL          string
	MetricsEnabled            bool
}

func Load() Config {
	return Config{
		Addr:                      getEnv("APP_ADDR", ":8080"),
		DatabaseURL:               getEnv("DATABASE_URL", ""),
		DBMaxConns:                getEnvInt("DB_MAX_CONNS", 10),
		JWTSecret:                 getEnv("JWT_SECRET", ""),
		FrontendDir:               getEnv("FRONTEND_DIR", "frontend/dist"),
		Environment:               getEnv("APP_ENV", "development"),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		SeedTenantName:            getEnv("SEED_TENANT_NAME", "Default Tenant"),
		SeedAdminEmail:            getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:         getEnv("SEED_ADMIN_PASSWORD", ""),
		EmailFrom:                 getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailEnabled:              getEnvBool("EMAIL_ENABLED", false),
		SMTPHost:                  getEnv("SMTP_HOST", ""),
		SMTPPort:                  getEnvInt("SMTP_PORT", 587),
		SMTPUser:                  getEnv("SMTP_USER", ""),
		SMTPPassword:              getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:                getEnvBool("SMTP_USE_TLS", true),
		RunMigrations:             getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:                   getEnvBool("RUN_SEED", true),
		MigrationsDir:             getEnv("MIGRATIONS_DIR", "migrations"),
		MaxBodyBytes:              int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:        getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		CORSAllowedOrigins:        getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		TrustedProxies:            getEnvList("TRUSTED_PROXIES", nil),
		AccessTokenTTL:            getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:           getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		StorageDriver:             getEnv("STORAGE_DRIVER", "local"),
		StorageDir:                getEnv("STORAGE_DIR", "storage"),
		StoragePublicURL:          getEnv("STORAGE_PUBLIC_URL", "/files"),
		S3Endpoint:                getEnv("S3_ENDPOINT", ""),
		S3Region:                  getEnv("S3_REGION", "auto"),
		S3Bucket:                  getEnv("S3_BUCKET", ""),
		S3AccessKey:               getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:               getEnv("S3_SECRET_KEY", ""),
		MongoURI:                  getEnv("MONGO_URI", ""),
		MongoDatabase:             getEnv("MONGO_DATABASE", "peoplehub"),
		OTELServiceName:           getEnv("OTEL_SERVICE_NAME", "peoplehub"),
		PayrollAutorunInterval:    getEnvDuration("PAYROLL_AUTORUN_INTERVAL", 0),
		AnalyticsSnapshotInterval: getEnvDuration("ANALYTICS_SNAPSHOT_INTERVAL", 24*time.Hour),
		NotifyConcurrent:          getEnvBool("NOTIFY_CONCURRENT", false),
		PayslipVerifyURL:          getEnv("PAYSLIP_VERIFY_URL", "http://localhost:8080/api/payroll/verify"),
		MetricsEnabled:            getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() {
		if len(strings.TrimSpace(c.JWTSecret)) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
	} else if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	switch c.StorageDriver {
	case "local":
	case "s3":
		if c.S3Bucket == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY are required when STORAGE_DRIVER is s3")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be local or s3")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("REFRESH_TOKEN_TTL must exceed a positive ACCESS_TOKEN_TTL")
	}
	return nil
}
