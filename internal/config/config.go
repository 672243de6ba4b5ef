package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Detection DetectionConfig `mapstructure:"detection"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	LLM       LLMConfig       `mapstructure:"llm"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Alert     AlertConfig     `mapstructure:"alert"`
	Auth      AuthConfig      `mapstructure:"auth"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

type DetectionConfig struct {
	// Confidence assigned to a rule hit unless the classifier is even more
	// confident. Tunable; the rule table is high precision so this sits high.
	RuleConfidenceFloor float64 `mapstructure:"rule_confidence_floor"`
	HighThreshold       float64 `mapstructure:"high_threshold"`
	MediumThreshold     float64 `mapstructure:"medium_threshold"`
	CacheEnabled        bool          `mapstructure:"cache_enabled"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

type ClassifierConfig struct {
	APIURL   string        `mapstructure:"api_url"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	APIURL      string        `mapstructure:"api_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type OCRConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type SpeechConfig struct {
	Provider        string        `mapstructure:"provider"` // "openai" or "whisper"
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	WhisperEndpoint string        `mapstructure:"whisper_endpoint"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type AlertConfig struct {
	AccountSID      string `mapstructure:"account_sid"`
	AuthToken       string `mapstructure:"auth_token"`
	FromNumber      string `mapstructure:"from_number"`
	CybercellNumber string `mapstructure:"cybercell_number"`
}

type AuthConfig struct {
	SupabaseURL string `mapstructure:"supabase_url"`
	SupabaseKey string `mapstructure:"supabase_key"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/suraksha")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("SURAKSHA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.host", "SURAKSHA_REDIS_HOST")
	v.BindEnv("redis.port", "SURAKSHA_REDIS_PORT")
	v.BindEnv("redis.password", "SURAKSHA_REDIS_PASSWORD")
	v.BindEnv("database.host", "SURAKSHA_DATABASE_HOST")
	v.BindEnv("database.port", "SURAKSHA_DATABASE_PORT")
	v.BindEnv("database.user", "SURAKSHA_DATABASE_USER")
	v.BindEnv("database.password", "SURAKSHA_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "SURAKSHA_DATABASE_DBNAME")
	v.BindEnv("classifier.api_token", "SURAKSHA_CLASSIFIER_API_TOKEN")
	v.BindEnv("llm.api_key", "SURAKSHA_LLM_API_KEY")
	v.BindEnv("speech.openai_api_key", "SURAKSHA_SPEECH_OPENAI_API_KEY")
	v.BindEnv("alert.account_sid", "SURAKSHA_ALERT_ACCOUNT_SID")
	v.BindEnv("alert.auth_token", "SURAKSHA_ALERT_AUTH_TOKEN")
	v.BindEnv("alert.from_number", "SURAKSHA_ALERT_FROM_NUMBER")
	v.BindEnv("auth.supabase_url", "SURAKSHA_AUTH_SUPABASE_URL")
	v.BindEnv("auth.supabase_key", "SURAKSHA_AUTH_SUPABASE_KEY")
	v.BindEnv("app.environment", "SURAKSHA_APP_ENVIRONMENT")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine when no explicit path was given;
		// defaults plus environment variables cover every key.
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "suraksha-api")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("detection.rule_confidence_floor", 0.9)
	v.SetDefault("detection.high_threshold", 0.7)
	v.SetDefault("detection.medium_threshold", 0.4)
	v.SetDefault("detection.cache_ttl", "1h")

	v.SetDefault("classifier.api_url", "https://router.huggingface.co/hf-inference/models/joeddav/xlm-roberta-large-xnli")
	v.SetDefault("classifier.timeout", "30s")

	v.SetDefault("llm.api_url", "https://api.groq.com/openai/v1/chat/completions")
	v.SetDefault("llm.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("ocr.timeout", "45s")
	v.SetDefault("speech.provider", "openai")
	v.SetDefault("speech.timeout", "60s")

	v.SetDefault("alert.cybercell_number", "+919999999999")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.requests_per_minute", 60)
}
