package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BlobFS     = "fs"
	BlobMemory = "memory"
	BlobMinio  = "minio"
)

type Config struct {
	Port        string
	DatabaseURL string // empty selects the in-memory store

	BlobBackend string
	BlobDir     string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	CORSOrigins     []string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:           env("PORT", "8080"),
		DatabaseURL:    env("DATABASE_URL", ""),
		BlobBackend:    env("BLOB_BACKEND", BlobFS),
		BlobDir:        env("BLOB_DIR", "./data/blobs"),
		MinioEndpoint:  env("MINIO_ENDPOINT", ""),
		MinioAccessKey: env("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: env("MINIO_SECRET_KEY", ""),
		MinioBucket:    env("MINIO_BUCKET", "media"),
	}

	for _, o := range strings.Split(env("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	var err error
	if cfg.MinioUseSSL, err = strconv.ParseBool(env("MINIO_USE_SSL", "false")); err != nil {
		return nil, fmt.Errorf("MINIO_USE_SSL: %w", err)
	}

	mb, err := strconv.ParseInt(env("MAX_UPLOAD_MB", "32"), 10, 64)
	if err != nil || mb <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be a positive integer, got %q", getenv("MAX_UPLOAD_MB"))
	}
	cfg.MaxUploadBytes = mb << 20

	if cfg.ShutdownTimeout, err = time.ParseDuration(env("SHUTDOWN_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}

	switch cfg.BlobBackend {
	case BlobFS, BlobMemory:
	case BlobMinio:
		if cfg.MinioEndpoint == "" {
			return nil, fmt.Errorf("MINIO_ENDPOINT is not set")
		}
	default:
		return nil, fmt.Errorf("BLOB_BACKEND %q is not one of fs, memory, minio", cfg.BlobBackend)
	}
	return cfg, nil
}
