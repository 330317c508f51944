package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	filePath := os.Getenv(envKey + "_FILE")
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	os.Setenv(envKey, strings.TrimSpace(string(data)))
}

type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	JWT         JWTConfig
	OIDC        OIDCConfig
	Gateway     GatewayConfig
	RateLimit   RateLimitConfig
	Text        TextConfig
	Groq        GroqConfig
	Gemini      GeminiConfig
	HuggingFace HuggingFaceConfig
	R2          R2Config
	Database    DatabaseConfig
	Fonts       FontsConfig
	Pipeline    PipelineConfig
	Credits     CreditsConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	LogLevel  string
	ApiDomain string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

// OIDCConfig points at the identity provider that signs bearer tokens
type OIDCConfig struct {
	Issuer   string
	ClientID string
}

type GatewayConfig struct {
	Enabled bool
}

type RateLimitConfig struct {
	GeneratePerHour int
	JobsPerHour     int
}

// TextConfig selects the text completion provider: "groq" or "gemini"
type TextConfig struct {
	Provider string
}

type GroqConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type HuggingFaceConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Endpoint        string // overrides the account endpoint, e.g. for MinIO
}

type DatabaseConfig struct {
	URL string
}

type FontsConfig struct {
	CatalogPath string
}

// PipelineConfig bounds each external call of a generation
type PipelineConfig struct {
	StrategyTimeout time.Duration
	ImageTimeout    time.Duration
	UploadTimeout   time.Duration
	PersistTimeout  time.Duration
}

type CreditsConfig struct {
	WeeklyLimit int
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("JWT_SECRET")
	readSecret("GROQ_API_KEY")
	readSecret("GEMINI_API_KEY")
	readSecret("HF_API_KEY")
	readSecret("R2_ACCOUNT_ID")
	readSecret("R2_ACCESS_KEY_ID")
	readSecret("R2_SECRET_ACCESS_KEY")
	readSecret("DATABASE_URL")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.env", "SERVER_ENV")
	_ = v.BindEnv("server.log_level", "LOG_LEVEL")
	_ = v.BindEnv("server.api_domain", "API_DOMAIN")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = v.BindEnv("oidc.issuer", "OIDC_ISSUER")
	_ = v.BindEnv("oidc.client_id", "OIDC_CLIENT_ID")
	_ = v.BindEnv("gateway.enabled", "GATEWAY_ENABLED")
	_ = v.BindEnv("ratelimit.generate_per_hour", "RATELIMIT_GENERATE_PER_HOUR")
	_ = v.BindEnv("ratelimit.jobs_per_hour", "RATELIMIT_JOBS_PER_HOUR")
	_ = v.BindEnv("text.provider", "TEXT_PROVIDER")
	_ = v.BindEnv("groq.api_key", "GROQ_API_KEY")
	_ = v.BindEnv("groq.base_url", "GROQ_BASE_URL")
	_ = v.BindEnv("groq.model", "GROQ_MODEL")
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("gemini.model", "GEMINI_MODEL")
	_ = v.BindEnv("huggingface.api_key", "HF_API_KEY")
	_ = v.BindEnv("huggingface.base_url", "HF_BASE_URL")
	_ = v.BindEnv("huggingface.model", "HF_MODEL")
	_ = v.BindEnv("r2.account_id", "R2_ACCOUNT_ID")
	_ = v.BindEnv("r2.access_key_id", "R2_ACCESS_KEY_ID")
	_ = v.BindEnv("r2.secret_access_key", "R2_SECRET_ACCESS_KEY")
	_ = v.BindEnv("r2.bucket_name", "R2_BUCKET_NAME")
	_ = v.BindEnv("r2.public_url", "R2_PUBLIC_URL")
	_ = v.BindEnv("r2.endpoint", "R2_ENDPOINT")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("fonts.catalog_path", "FONTS_CATALOG_PATH")
	_ = v.BindEnv("pipeline.strategy_timeout", "PIPELINE_STRATEGY_TIMEOUT")
	_ = v.BindEnv("pipeline.image_timeout", "PIPELINE_IMAGE_TIMEOUT")
	_ = v.BindEnv("pipeline.upload_timeout", "PIPELINE_UPLOAD_TIMEOUT")
	_ = v.BindEnv("pipeline.persist_timeout", "PIPELINE_PERSIST_TIMEOUT")
	_ = v.BindEnv("credits.weekly_limit", "CREDITS_WEEKLY_LIMIT")

	// Defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expiration", 24)
	v.SetDefault("gateway.enabled", false)
	v.SetDefault("ratelimit.generate_per_hour", 10)
	v.SetDefault("ratelimit.jobs_per_hour", 10)
	v.SetDefault("text.provider", "groq")

	// Provider defaults
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("huggingface.base_url", "https://router.huggingface.co/hf-inference/models")
	v.SetDefault("huggingface.model", "black-forest-labs/FLUX.1-schnell")

	// Pipeline timeouts in seconds
	v.SetDefault("pipeline.strategy_timeout", 30)
	v.SetDefault("pipeline.image_timeout", 60)
	v.SetDefault("pipeline.upload_timeout", 30)
	v.SetDefault("pipeline.persist_timeout", 10)

	v.SetDefault("credits.weekly_limit", 2)

	// Try to read config file (optional)
	_ = v.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:      v.GetString("server.port"),
			Env:       v.GetString("server.env"),
			LogLevel:  v.GetString("server.log_level"),
			ApiDomain: v.GetString("server.api_domain"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetInt("jwt.expiration"),
		},
		OIDC: OIDCConfig{
			Issuer:   v.GetString("oidc.issuer"),
			ClientID: v.GetString("oidc.client_id"),
		},
		Gateway: GatewayConfig{
			Enabled: v.GetBool("gateway.enabled"),
		},
		RateLimit: RateLimitConfig{
			GeneratePerHour: v.GetInt("ratelimit.generate_per_hour"),
			JobsPerHour:     v.GetInt("ratelimit.jobs_per_hour"),
		},
		Text: TextConfig{
			Provider: strings.ToLower(v.GetString("text.provider")),
		},
		Groq: GroqConfig{
			APIKey:  v.GetString("groq.api_key"),
			BaseURL: v.GetString("groq.base_url"),
			Model:   v.GetString("groq.model"),
		},
		Gemini: GeminiConfig{
			APIKey: v.GetString("gemini.api_key"),
			Model:  v.GetString("gemini.model"),
		},
		HuggingFace: HuggingFaceConfig{
			APIKey:  v.GetString("huggingface.api_key"),
			BaseURL: v.GetString("huggingface.base_url"),
			Model:   v.GetString("huggingface.model"),
		},
		R2: R2Config{
			AccountID:       v.GetString("r2.account_id"),
			AccessKeyID:     v.GetString("r2.access_key_id"),
			SecretAccessKey: v.GetString("r2.secret_access_key"),
			BucketName:      v.GetString("r2.bucket_name"),
			PublicURL:       v.GetString("r2.public_url"),
			Endpoint:        v.GetString("r2.endpoint"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("database.url"),
		},
		Fonts: FontsConfig{
			CatalogPath: v.GetString("fonts.catalog_path"),
		},
		Pipeline: PipelineConfig{
			StrategyTimeout: seconds(v.GetInt("pipeline.strategy_timeout")),
			ImageTimeout:    seconds(v.GetInt("pipeline.image_timeout")),
			UploadTimeout:   seconds(v.GetInt("pipeline.upload_timeout")),
			PersistTimeout:  seconds(v.GetInt("pipeline.persist_timeout")),
		},
		Credits: CreditsConfig{
			WeeklyLimit: v.GetInt("credits.weekly_limit"),
		},
	}

	return cfg, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
