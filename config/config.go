package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Upload backends
const (
	UploadBackendDisk = "disk"
	UploadBackendS3   = "s3"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Port    string
	GinMode string

	MongoURI      string
	MongoDatabase string
	DBTimeout     time.Duration

	RedisAddress          string
	RedisPassword         string
	RedisDB               int
	RedisEventsChannel    string
	RedisReportLimitQueue string
	ReportSubmissionLimit int

	UploadBackend  string
	UploadDir      string
	UploadMaxBytes int64
	PublicBaseURL  string

	S3 S3Config

	CorsAllowedOrigins []string

	LogLevel  string
	LogFormat string

	EnvFileLoaded bool
}

// S3Config configures the S3 upload backend.
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// Load reads .env (if present) and the process environment.
// EnvFileLoaded reports whether a .env file was found.
func Load() (*Config, error) {
	envErr := godotenv.Load()

	cfg, err := FromViper(newViper())
	if err != nil {
		return nil, err
	}
	cfg.EnvFileLoaded = envErr == nil
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("MONGODB_DATABASE", "mangroveApp")
	v.SetDefault("DB_TIMEOUT", "10s")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_EVENTS_CHANNEL", "mangrove:reports")
	v.SetDefault("REDIS_QUEUE_FOR_REPORT_LIMIT", "mangrove:report-limit")
	v.SetDefault("REPORT_SUBMISSION_LIMIT", 20)
	v.SetDefault("UPLOAD_BACKEND", UploadBackendDisk)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	return v
}

// FromViper builds a Config out of an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                  v.GetString("PORT"),
		GinMode:               v.GetString("GIN_MODE"),
		MongoURI:              v.GetString("MONGODB_URI"),
		MongoDatabase:         v.GetString("MONGODB_DATABASE"),
		DBTimeout:             v.GetDuration("DB_TIMEOUT"),
		RedisAddress:          v.GetString("REDIS_ADDRESS"),
		RedisPassword:         v.GetString("REDIS_PASSWORD"),
		RedisDB:               v.GetInt("REDIS_DB"),
		RedisEventsChannel:    v.GetString("REDIS_EVENTS_CHANNEL"),
		RedisReportLimitQueue: v.GetString("REDIS_QUEUE_FOR_REPORT_LIMIT"),
		ReportSubmissionLimit: v.GetInt("REPORT_SUBMISSION_LIMIT"),
		UploadBackend:         strings.ToLower(v.GetString("UPLOAD_BACKEND")),
		UploadDir:             v.GetString("UPLOAD_DIR"),
		UploadMaxBytes:        v.GetInt64("UPLOAD_MAX_BYTES"),
		PublicBaseURL:         v.GetString("PUBLIC_BASE_URL"),
		S3: S3Config{
			Region:    v.GetString("S3_REGION"),
			Bucket:    v.GetString("S3_BUCKET"),
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			PublicURL: v.GetString("S3_PUBLIC_URL"),
		},
		CorsAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:          strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.Port
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	if cfg.DBTimeout <= 0 {
		cfg.DBTimeout = 10 * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("please define the MONGODB_URI environment variable")
	}
	switch c.UploadBackend {
	case UploadBackendDisk:
		if c.UploadDir == "" {
			return errors.New("UPLOAD_DIR must not be empty for the disk upload backend")
		}
	case UploadBackendS3:
		if c.S3.Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 upload backend")
		}
	default:
		return fmt.Errorf("unknown UPLOAD_BACKEND %q", c.UploadBackend)
	}
	if c.UploadMaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddress != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
