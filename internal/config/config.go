// Package config loads server settings from defaults, an optional .env file
// and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	PDFBackendNative = "native"
	PDFBackendFitz   = "fitz"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Upload   UploadConfig
	Storage  StorageConfig
	LLM      LLMConfig
	Curation CurationConfig
	Events   EventsConfig
	LogLevel string
	LogJSON  bool
}

type ServerConfig struct {
	Port        string
	CORSOrigins string
	// BodyLimit is the raw request cap; uploads are checked separately
	BodyLimit int
}

type StoreConfig struct {
	Driver        string
	DatabaseURL   string
	AutoMigrate   bool
	MongoURI      string
	MongoDatabase string
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	WorkspaceTTL time.Duration
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

type UploadConfig struct {
	MaxBytes    int64
	AllowDOCX   bool
	PDFBackend  string
	OCRFallback bool
}

type StorageConfig struct {
	LocalDir   string
	AWSRegion  string
	AWSBucket  string
	AWSKey     string
	AWSSecret  string
	S3Endpoint string
	Prefix     string
}

type LLMConfig struct {
	Provider     string
	Model        string // empty selects the provider default
	VisionModel  string
	OpenAIAPIKey string
	GeminiAPIKey string
	Timeout      time.Duration
}

type CurationConfig struct {
	ValidateVideos bool
	OEmbedEndpoint string
	MaxRetries     uint64
	RetryDelay     time.Duration
}

type EventsConfig struct {
	AMQPURL  string
	Exchange string
}

// LoadDefaults populates development defaults.
// The JWT secret default is unsafe outside local runs.
func (c *Config) LoadDefaults() {
	c.Server = ServerConfig{
		Port:        "5000",
		CORSOrigins: "*",
		BodyLimit:   8 * 1024 * 1024,
	}
	c.Store = StoreConfig{
		Driver:        StoreMemory,
		AutoMigrate:   true,
		MongoDatabase: "resumatch",
	}
	c.Redis = RedisConfig{WorkspaceTTL: 24 * time.Hour}
	c.Auth = AuthConfig{
		JWTSecret:  DefaultJWTSecret,
		TokenTTL:   time.Hour,
		BcryptCost: 10,
	}
	c.Upload = UploadConfig{
		MaxBytes:   5 * 1024 * 1024,
		PDFBackend: PDFBackendNative,
	}
	c.Storage = StorageConfig{
		LocalDir: "./data/uploads",
		Prefix:   "uploads",
	}
	c.LLM = LLMConfig{
		Provider:    ProviderOpenAI,
		VisionModel: "gpt-4o",
	}
	c.Curation = CurationConfig{
		OEmbedEndpoint: "https://www.youtube.com/oembed",
		MaxRetries:     2,
		RetryDelay:     200 * time.Millisecond,
	}
	c.Events = EventsConfig{Exchange: "analysis_events"}
	c.LogLevel = "info"
}

// Load applies defaults, then .env (if present), then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.overlayEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlayEnv() error {
	var errs []error

	str(&c.Server.Port, "PORT")
	str(&c.Server.CORSOrigins, "CORS_ORIGINS")
	errs = append(errs, integer(&c.Server.BodyLimit, "BODY_LIMIT_BYTES"))

	str(&c.Store.Driver, "STORE_DRIVER")
	str(&c.Store.DatabaseURL, "DATABASE_URL")
	if c.Store.DatabaseURL == "" && os.Getenv("DB_HOST") != "" {
		c.Store.DatabaseURL = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			os.Getenv("DB_HOST"), envOr("DB_PORT", "5432"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_NAME"))
	}
	errs = append(errs, boolean(&c.Store.AutoMigrate, "AUTO_MIGRATE"))
	str(&c.Store.MongoURI, "MONGO_URI")
	str(&c.Store.MongoDatabase, "MONGO_DATABASE")

	str(&c.Redis.Addr, "REDIS_ADDR")
	str(&c.Redis.Password, "REDIS_PASS")
	errs = append(errs, integer(&c.Redis.DB, "REDIS_DB"))
	errs = append(errs, duration(&c.Redis.WorkspaceTTL, "WORKSPACE_TTL"))

	str(&c.Auth.JWTSecret, "JWT_SECRET")
	errs = append(errs, duration(&c.Auth.TokenTTL, "TOKEN_TTL"))
	errs = append(errs, integer(&c.Auth.BcryptCost, "BCRYPT_COST"))

	errs = append(errs, int64v(&c.Upload.MaxBytes, "MAX_UPLOAD_BYTES"))
	errs = append(errs, boolean(&c.Upload.AllowDOCX, "ALLOW_DOCX"))
	str(&c.Upload.PDFBackend, "PDF_BACKEND")
	errs = append(errs, boolean(&c.Upload.OCRFallback, "OCR_FALLBACK"))

	str(&c.Storage.LocalDir, "UPLOAD_DIR")
	str(&c.Storage.AWSRegion, "AWS_REGION")
	str(&c.Storage.AWSBucket, "AWS_BUCKET")
	str(&c.Storage.AWSKey, "AWS_ACCESS_KEY_ID")
	str(&c.Storage.AWSSecret, "AWS_SECRET_ACCESS_KEY")
	str(&c.Storage.S3Endpoint, "S3_ENDPOINT")
	str(&c.Storage.Prefix, "S3_PREFIX")

	str(&c.LLM.Provider, "LLM_PROVIDER")
	str(&c.LLM.Model, "LLM_MODEL")
	str(&c.LLM.VisionModel, "LLM_VISION_MODEL")
	str(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	str(&c.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	errs = append(errs, duration(&c.LLM.Timeout, "LLM_TIMEOUT"))

	errs = append(errs, boolean(&c.Curation.ValidateVideos, "VALIDATE_VIDEOS"))
	str(&c.Curation.OEmbedEndpoint, "OEMBED_ENDPOINT")
	errs = append(errs, uint64v(&c.Curation.MaxRetries, "VIDEO_MAX_RETRIES"))
	errs = append(errs, duration(&c.Curation.RetryDelay, "VIDEO_RETRY_DELAY"))

	str(&c.Events.AMQPURL, "AMQP_URL")
	str(&c.Events.Exchange, "AMQP_EXCHANGE")

	str(&c.LogLevel, "LOG_LEVEL")
	errs = append(errs, boolean(&c.LogJSON, "LOG_JSON"))

	return errors.Join(errs...)
}

// DefaultJWTSecret only signs tokens for the in-memory store
const DefaultJWTSecret = "dev-secret-change-me"

// Validate rejects combinations the container cannot wire
func (c *Config) Validate() error {
	if c.Store.Driver != StoreMemory && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultJWTSecret) {
		return fmt.Errorf("config: JWT_SECRET must be set to a non-default value for the %s store", c.Store.Driver)
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL (or DB_HOST) is required for the postgres store")
		}
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New("config: MONGO_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q", c.LLM.Provider)
	}

	switch c.Upload.PDFBackend {
	case PDFBackendNative, PDFBackendFitz:
	default:
		return fmt.Errorf("config: unknown PDF_BACKEND %q", c.Upload.PDFBackend)
	}

	if c.Upload.MaxBytes <= 0 {
		return errors.New("config: MAX_UPLOAD_BYTES must be positive")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	return nil
}

// LLMAPIKey returns the key for the configured provider
func (c *Config) LLMAPIKey() string {
	if c.LLM.Provider == ProviderGemini {
		return c.LLM.GeminiAPIKey
	}
	return c.LLM.OpenAIAPIKey
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func str(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func integer(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func int64v(dst *int64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func uint64v(dst *uint64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func boolean(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = b
	return nil
}

func duration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = d
	return nil
}
