package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Content store drivers.
const (
	ContentStorePostgres = "postgres"
	ContentStoreSQLite   = "sqlite"
)

// Object store drivers.
const (
	ObjectStoreMinIO = "minio"
	ObjectStoreS3    = "s3"
	ObjectStoreGCS   = "gcs"
)

// Config aggregates runtime configuration for the pressroom API.
type Config struct {
	Server       ServerConfig
	ContentStore ContentStoreConfig
	Postgres     PostgresConfig
	SQLite       SQLiteConfig
	ObjectStore  ObjectStoreConfig
	MinIO        MinIOConfig
	S3           S3Config
	GCS          GCSConfig
	Auth         AuthConfig
	Upload       UploadConfig
	Cache        CacheConfig
	CORS         CORSConfig
	Metrics      MetricsConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ContentStoreConfig selects the structured-data backend.
type ContentStoreConfig struct {
	Driver      string
	AutoMigrate bool
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// SQLiteConfig points at the local database file.
type SQLiteConfig struct {
	Path string
}

// ObjectStoreConfig holds settings shared by every blob backend.
type ObjectStoreConfig struct {
	Driver string
	Bucket string

	// PublicBaseURL overrides the backend default used to build public object URLs.
	PublicBaseURL string
}

// MinIOConfig carries MinIO connection information.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Region          string
	PublicRead      bool
}

// S3Config carries AWS S3 (or S3-compatible) connection information.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
}

// GCSConfig carries Google Cloud Storage settings.
type GCSConfig struct {
	CredentialsFile string
}

// AuthConfig groups the shared-secret settings.
type AuthConfig struct {
	// AdminPassword is either the plain secret or a bcrypt hash of it.
	AdminPassword       string
	VerifyRatePerMinute int
	VerifyBurst         int
}

// UploadConfig bounds attachment uploads.
type UploadConfig struct {
	MaxAttachmentBytes int64
}

// CacheConfig controls the public read cache and the Cache-Control hint.
type CacheConfig struct {
	TTL  time.Duration
	Size int
}

// CORSConfig lists the website origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("PRESSROOM_API_HOST", "0.0.0.0"),
			Port:         getInt("PRESSROOM_API_PORT", 8080),
			ReadTimeout:  getDuration("PRESSROOM_API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("PRESSROOM_API_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:  getDuration("PRESSROOM_API_IDLE_TIMEOUT", 60*time.Second),
		},
		ContentStore: ContentStoreConfig{
			Driver:      strings.ToLower(getString("CONTENT_STORE_DRIVER", ContentStorePostgres)),
			AutoMigrate: getBool("CONTENT_STORE_AUTO_MIGRATE", true),
		},
		Postgres: PostgresConfig{
			Host:     getString("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			User:     getString("POSTGRES_USER", "pressroom_app"),
			Password: getString("POSTGRES_PASSWORD", "change-me"),
			Database: getString("POSTGRES_DB", "pressroom"),
			SSLMode:  strings.ToLower(getString("POSTGRES_SSL_MODE", "disable")),
		},
		SQLite: SQLiteConfig{
			Path: getString("SQLITE_PATH", "pressroom.db"),
		},
		ObjectStore: ObjectStoreConfig{
			Driver:        strings.ToLower(getString("OBJECT_STORE_DRIVER", ObjectStoreMinIO)),
			Bucket:        getString("OBJECT_STORE_BUCKET", "pressroom"),
			PublicBaseURL: getString("OBJECT_STORE_PUBLIC_BASE_URL", ""),
		},
		MinIO: MinIOConfig{
			Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getString("MINIO_ROOT_USER", "pressroom"),
			SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
			UseSSL:          getBool("MINIO_USE_SSL", false),
			Region:          getString("MINIO_REGION", ""),
			PublicRead:      getBool("MINIO_PUBLIC_READ", true),
		},
		S3: S3Config{
			Region:          getString("S3_REGION", "us-east-1"),
			AccessKeyID:     getString("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getString("S3_SECRET_ACCESS_KEY", ""),
			Endpoint:        getString("S3_ENDPOINT", ""),
			UsePathStyle:    getBool("S3_USE_PATH_STYLE", false),
		},
		GCS: GCSConfig{
			CredentialsFile: getString("GCS_CREDENTIALS_FILE", ""),
		},
		Auth: AuthConfig{
			AdminPassword:       getString("ADMIN_PASSWORD", ""),
			VerifyRatePerMinute: getInt("AUTH_VERIFY_RATE_PER_MINUTE", 10),
			VerifyBurst:         getInt("AUTH_VERIFY_BURST", 5),
		},
		Upload: UploadConfig{
			MaxAttachmentBytes: getInt64("UPLOAD_MAX_BYTES", 50*1024*1024),
		},
		Cache: CacheConfig{
			TTL:  getDuration("CACHE_TTL", 30*time.Second),
			Size: getInt("CACHE_SIZE", 256),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("PRESSROOM_METRICS_PATH", "/metrics"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.ContentStore.Driver {
	case ContentStorePostgres, ContentStoreSQLite:
	default:
		return fmt.Errorf("unsupported content store driver %q", c.ContentStore.Driver)
	}
	switch c.ObjectStore.Driver {
	case ObjectStoreMinIO, ObjectStoreS3, ObjectStoreGCS:
	default:
		return fmt.Errorf("unsupported object store driver %q", c.ObjectStore.Driver)
	}
	if strings.TrimSpace(c.ObjectStore.Bucket) == "" {
		return fmt.Errorf("object store bucket is required")
	}
	if c.Upload.MaxAttachmentBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
