package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"

	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	AI       AIConfig       `mapstructure:"ai"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	DB       DBConfig       `mapstructure:"db"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logger   LoggerConfig   `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type AIConfig struct {
	Provider     string `mapstructure:"provider" validate:"required|in:gemini,openai"`
	GeminiAPIKey string `mapstructure:"geminiApiKey"`
	OpenAIAPIKey string `mapstructure:"openaiApiKey"`
	Model        string `mapstructure:"model"`
}

type HTTPConfig struct {
	Host      string        `mapstructure:"host" validate:"required"`
	Port      int           `mapstructure:"port" validate:"required|min:1|max:65535"`
	JWTSecret string        `mapstructure:"jwtSecret" validate:"required|minLen:16"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
}

func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

type StorageConfig struct {
	Driver       string `mapstructure:"driver" validate:"required|in:memory,file,redis,postgres"`
	FilePath     string `mapstructure:"filePath"`
	MemorySizeMB int    `mapstructure:"memorySizeMB" validate:"min:1"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type CacheConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	PurgeExpired bool          `mapstructure:"purgeExpired"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"in:debug,info,warn,warning,error"`
	OutputPath string `mapstructure:"output"`
	Format     string `mapstructure:"format" validate:"in:json,text"`
}

// LoggerSettings converts the log section for logger.InitWithConfig.
func (c *Config) LoggerSettings() logger.Config {
	return logger.Config{
		Level:      logger.ParseLevel(c.Logger.Level),
		OutputPath: c.Logger.OutputPath,
		Format:     c.Logger.Format,
	}
}

var envBindings = map[string]string{
	"telegram.token":       "TELEGRAM_BOT_TOKEN",
	"ai.provider":          "AI_PROVIDER",
	"ai.geminiApiKey":      "GEMINI_API_KEY",
	"ai.openaiApiKey":      "OPENAI_API_KEY",
	"ai.model":             "AI_MODEL",
	"http.host":            "HTTP_HOST",
	"http.port":            "HTTP_PORT",
	"http.jwtSecret":       "JWT_SECRET",
	"http.tokenTTL":        "JWT_TTL",
	"storage.driver":       "STORAGE_DRIVER",
	"storage.filePath":     "STORAGE_FILE",
	"storage.memorySizeMB": "STORAGE_MEMORY_MB",
	"redis.host":           "REDIS_HOST",
	"redis.port":           "REDIS_PORT",
	"redis.password":       "REDIS_PASSWORD",
	"redis.db":             "REDIS_DB",
	"db.host":              "DB_HOST",
	"db.port":              "DB_PORT",
	"db.user":              "DB_USER",
	"db.password":          "DB_PASSWORD",
	"db.name":              "DB_NAME",
	"db.sslmode":           "DB_SSLMODE",
	"cache.ttl":            "ANALYSIS_CACHE_TTL",
	"cache.purgeExpired":   "ANALYSIS_CACHE_PURGE",
	"metrics.enabled":      "METRICS_ENABLED",
	"log.level":            "LOG_LEVEL",
	"log.output":           "LOG_OUTPUT",
	"log.format":           "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.tokenTTL", "720h")
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.filePath", "data/fitscan.kv.zst")
	v.SetDefault("storage.memorySizeMB", 64)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "fitscan")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.purgeExpired", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.format", "json")
}

// Load resolves the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, and the environment, then validates it.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.BindEnv("configFile", "CONFIG_FILE"); err != nil {
		return nil, err
	}
	if path := v.GetString("configFile"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if cfg.AI.Model == "" {
		if cfg.AI.Provider == ProviderOpenAI {
			cfg.AI.Model = DefaultOpenAIModel
		} else {
			cfg.AI.Model = DefaultGeminiModel
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate applies the struct rules and the cross-field provider rules.
func (c *Config) Validate() error {
	for _, section := range []any{&c.AI, &c.HTTP, &c.Storage, &c.Logger} {
		v := validate.Struct(section)
		if !v.Validate() {
			return fmt.Errorf("invalid configuration: %s", v.Errors.String())
		}
	}

	var problems []string
	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.GeminiAPIKey == "" {
			problems = append(problems, "GEMINI_API_KEY is required when AI_PROVIDER=gemini")
		}
	case ProviderOpenAI:
		if c.AI.OpenAIAPIKey == "" {
			problems = append(problems, "OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
	}
	if c.Storage.Driver == "file" && c.Storage.FilePath == "" {
		problems = append(problems, "STORAGE_FILE is required when STORAGE_DRIVER=file")
	}
	if c.Cache.TTL <= 0 {
		problems = append(problems, "ANALYSIS_CACHE_TTL must be positive")
	}
	if c.HTTP.TokenTTL <= 0 {
		problems = append(problems, "JWT_TTL must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
