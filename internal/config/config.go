package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"interviewbuddy/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	AI        AIConfig        `mapstructure:"ai"`
	Interview InterviewConfig `mapstructure:"interview"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`

	v *viper.Viper
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	GinMode       string `mapstructure:"gin_mode"`
	SessionSecret string `mapstructure:"session_secret"`
	SecureCookies bool   `mapstructure:"secure_cookies"`
}

// DatabaseConfig holds the postgres connection used for users and reports
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig holds the interview session store connection
type RedisConfig struct {
	URL       string `mapstructure:"url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// AIConfig holds generative provider settings. Provider is one of auto,
// gemini, openai or none; auto picks the first provider with a key.
type AIConfig struct {
	Provider      string        `mapstructure:"provider"`
	GeminiAPIKey  string        `mapstructure:"gemini_api_key"`
	GeminiModel   string        `mapstructure:"gemini_model"`
	OpenAIAPIKey  string        `mapstructure:"openai_api_key"`
	OpenAIModel   string        `mapstructure:"openai_model"`
	OpenAIBaseURL string        `mapstructure:"openai_base_url"`
	Temperature   float64       `mapstructure:"temperature"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// InterviewConfig holds interview flow settings
type InterviewConfig struct {
	ReportStore       string        `mapstructure:"report_store"`
	DataDir           string        `mapstructure:"data_dir"`
	SessionMaxAge     time.Duration `mapstructure:"session_max_age"`
	EvaluationWorkers int           `mapstructure:"evaluation_workers"`
}

// AuthConfig holds API token and rate limit settings
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	LoginRateLimit  uint          `mapstructure:"login_rate_limit"`
	GenerateLimit   uint          `mapstructure:"generate_rate_limit"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
}

// LoggingConfig holds settings for the logger
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	Console    bool   `mapstructure:"console"`
}

const (
	ProviderAuto   = "auto"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"

	ReportStorePostgres = "postgres"
	ReportStoreFile     = "file"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "debug")
	v.SetDefault("server.session_secret", "interview-buddy-dev-secret")
	v.SetDefault("server.secure_cookies", false)

	v.SetDefault("database.url", "")

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.key_prefix", "buddy")

	v.SetDefault("ai.provider", ProviderAuto)
	v.SetDefault("ai.gemini_model", "gemini-2.0-flash")
	v.SetDefault("ai.openai_model", "gpt-4o-mini")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("ai.timeout", 30*time.Second)

	v.SetDefault("interview.report_store", ReportStoreFile)
	v.SetDefault("interview.data_dir", "data")
	v.SetDefault("interview.session_max_age", 24*time.Hour)
	v.SetDefault("interview.evaluation_workers", 4)

	v.SetDefault("auth.jwt_secret", "interview-buddy-dev-jwt")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.login_rate_limit", 5)
	v.SetDefault("auth.generate_rate_limit", 10)
	v.SetDefault("auth.rate_limit_window", time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 7)
	v.SetDefault("logging.compress", true)
	v.SetDefault("logging.console", true)
}

// bindAliases lets the conventional unprefixed variables fill their keys.
func bindAliases(v *viper.Viper) error {
	aliases := map[string][]string{
		"ai.gemini_api_key":  {"BUDDY_AI_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"ai.openai_api_key":  {"BUDDY_AI_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"ai.openai_base_url": {"BUDDY_AI_OPENAI_BASE_URL", "OPENAI_BASE_URL"},
		"database.url":       {"BUDDY_DATABASE_URL", "DATABASE_URL"},
		"redis.url":          {"BUDDY_REDIS_URL", "REDIS_URL"},
		"server.port":        {"BUDDY_SERVER_PORT", "PORT"},
		"server.gin_mode":    {"BUDDY_SERVER_GIN_MODE", "GIN_MODE"},
	}
	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

// Load reads configuration from defaults, an optional config/config.yaml under
// projectRoot and BUDDY_* environment variables, then validates it.
func Load(projectRoot string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindAliases(v); err != nil {
		return nil, errors.Wrap(err, "failed to bind environment aliases")
	}

	// A missing file is fine; defaults and env vars apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("error reading config file: %w", err))
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.v = v
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("unable to decode config into struct: %w", err))
	}
	cfg.AI.Provider = cfg.ResolvedProvider()
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Watch reloads the file on change and hands the validated result to onChange.
// Invalid edits are logged and ignored.
func (c *Config) Watch(log *zap.Logger, onChange func(*Config)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading", zap.String("file", e.Name))
		next, err := decode(c.v)
		if err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
			return
		}
		next.v = c.v
		onChange(next)
	})
	c.v.WatchConfig()
}

// ResolvedProvider turns auto into a concrete provider based on available keys.
func (c *Config) ResolvedProvider() string {
	provider := strings.ToLower(strings.TrimSpace(c.AI.Provider))
	if provider != ProviderAuto && provider != "" {
		return provider
	}
	switch {
	case c.AI.GeminiAPIKey != "":
		return ProviderGemini
	case c.AI.OpenAIAPIKey != "":
		return ProviderOpenAI
	default:
		return ProviderNone
	}
}

func validateConfig(config *Config) error {
	switch config.AI.Provider {
	case ProviderGemini:
		if config.AI.GeminiAPIKey == "" {
			return errors.ConfigInvalid("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenAI:
		if config.AI.OpenAIAPIKey == "" {
			return errors.ConfigInvalid("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderNone:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown ai provider %q", config.AI.Provider))
	}

	switch config.Interview.ReportStore {
	case ReportStorePostgres:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required when reports are stored in postgres")
		}
	case ReportStoreFile:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown report store %q", config.Interview.ReportStore))
	}

	if config.Redis.URL == "" {
		return errors.ConfigInvalid("redis URL is required")
	}
	if config.Server.SessionSecret == "" {
		return errors.ConfigInvalid("session secret is required")
	}
	if config.Auth.JWTSecret == "" {
		return errors.ConfigInvalid("jwt secret is required")
	}
	if config.Interview.EvaluationWorkers < 1 {
		return errors.ConfigInvalid("interview.evaluation_workers must be at least 1")
	}
	if config.Interview.SessionMaxAge <= 0 {
		return errors.ConfigInvalid("interview.session_max_age must be positive")
	}
	return nil
}
