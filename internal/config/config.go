package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxUploadMB    int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// LLMConfig configures the text-generation provider.
type LLMConfig struct {
	Provider          string `yaml:"provider" mapstructure:"provider"`
	Key               string `yaml:"key" mapstructure:"key"`
	Model             string `yaml:"model" mapstructure:"model"`
	MaxTokens         int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	TimeoutSecs       int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnalysisConfig tunes the comparison extractors and prompt budget.
type AnalysisConfig struct {
	PriceField     string `yaml:"price_field" mapstructure:"price_field"`
	TextField      string `yaml:"text_field" mapstructure:"text_field"`
	KeywordTopN    int    `yaml:"keyword_top_n" mapstructure:"keyword_top_n"`
	MaxPromptChars int    `yaml:"max_prompt_chars" mapstructure:"max_prompt_chars"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PRISM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "prism.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("llm.provider", "none")
	v.SetDefault("llm.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.requests_per_minute", 30)
	v.SetDefault("llm.timeout_secs", 60)
	v.SetDefault("analysis.price_field", "UnitPrice")
	v.SetDefault("analysis.text_field", "Title")
	v.SetDefault("analysis.keyword_top_n", 10)
	v.SetDefault("analysis.max_prompt_chars", 9000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
