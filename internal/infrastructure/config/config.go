package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the fraud predictor.
type Config struct {
	GRPCPort            string
	HTTPPort            string
	ArtifactPath        string
	Environment         string
	LogLevel            string
	LogFormat           string
	OTLPEndpoint        string
	GRPCTLSCertFile     string
	GRPCTLSKeyFile      string
	ArtifactLoadTimeout time.Duration
	RateLimit           int // requests per second
	GRPCReflection      bool
}

// Load reads configuration from environment variables with sensible defaults.
// Variables from a .env file in the working directory are applied first when
// present; real environment variables always win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		GRPCPort:            getEnv("GRPC_PORT", "8088"),
		HTTPPort:            getEnv("HTTP_PORT", "9088"),
		ArtifactPath:        getEnv("ARTIFACT_PATH", "fraud_detection_rf_model.json"),
		ArtifactLoadTimeout: getEnvDuration("ARTIFACT_LOAD_TIMEOUT", 30*time.Second),
		Environment:         getEnv("ENVIRONMENT", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
		RateLimit:           getEnvInt("RATE_LIMIT", 100),
		OTLPEndpoint:        getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		GRPCTLSCertFile:     getEnv("GRPC_TLS_CERT_FILE", ""),
		GRPCTLSKeyFile:      getEnv("GRPC_TLS_KEY_FILE", ""),
		GRPCReflection:      getEnvBool("GRPC_REFLECTION", false),
	}
}

// Validate reports configuration that cannot be served.
func (c *Config) Validate() error {
	if c.ArtifactPath == "" {
		return fmt.Errorf("ARTIFACT_PATH is required")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if (c.GRPCTLSCertFile == "") != (c.GRPCTLSKeyFile == "") {
		return fmt.Errorf("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together")
	}
	return nil
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

// TracingEnabled reports whether an OTLP endpoint is configured.
func (c *Config) TracingEnabled() bool {
	return c.OTLPEndpoint != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
