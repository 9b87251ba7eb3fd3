package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port          string `mapstructure:"port"`
		Env           string `mapstructure:"env"`
		PublicBaseURL string `mapstructure:"public_base_url"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName string        `mapstructure:"cloud_name"`
		ApiKey    string        `mapstructure:"api_key"`
		ApiSecret string        `mapstructure:"api_secret"`
		Folder    string        `mapstructure:"folder"`
		Timeout   time.Duration `mapstructure:"timeout"`
	} `mapstructure:"cloudinary"`
	AI struct {
		BaseURL string        `mapstructure:"base_url"`
		ApiKey  string        `mapstructure:"api_key"`
		Model   string        `mapstructure:"model"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"ai"`
	Ingestion struct {
		MinTextLength int           `mapstructure:"min_text_length"`
		RetryBackoff  time.Duration `mapstructure:"retry_backoff"`
	} `mapstructure:"ingestion"`
	Clamd struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"clamd"`
	RateLimit struct {
		AIPerMinute int `mapstructure:"ai_per_minute"`
	} `mapstructure:"rate_limit"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
}

// LoadConfig reads .env, then config.yaml, then the environment. Later
// sources win. paths lists extra directories searched for both files.
func LoadConfig(paths ...string) (cfg Config, err error) {
	envFiles := []string{".env"}
	for _, p := range paths {
		envFiles = append(envFiles, filepath.Join(p, ".env"))
	}
	loaded := 0
	for _, f := range envFiles {
		if godotenv.Load(f) == nil {
			loaded++
		}
	}
	if loaded == 0 {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	v.AddConfigPath(".")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.public_base_url", "PUBLIC_BASE_URL")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")
	v.BindEnv("cloudinary.folder", "CLOUDINARY_FOLDER")
	v.BindEnv("cloudinary.timeout", "CLOUDINARY_TIMEOUT")

	v.BindEnv("ai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("ai.api_key", "OPENAI_API_KEY")
	v.BindEnv("ai.model", "OPENAI_MODEL")
	v.BindEnv("ai.timeout", "OPENAI_TIMEOUT")

	v.BindEnv("ingestion.min_text_length", "INGESTION_MIN_TEXT_LENGTH")
	v.BindEnv("ingestion.retry_backoff", "INGESTION_RETRY_BACKOFF")
	v.BindEnv("clamd.addr", "CLAMD_ADDR")
	v.BindEnv("rate_limit.ai_per_minute", "RATE_LIMIT_AI_PER_MINUTE")
	v.BindEnv("jaeger.otlp_endpoint", "OTLP_ENDPOINT")

	if err = v.Unmarshal(&cfg); err != nil {
		return
	}
	err = cfg.validate()
	return
}

// validate rejects settings that would leave an external call unbounded.
func (c Config) validate() error {
	bounds := map[string]time.Duration{
		"ai.timeout":         c.AI.Timeout,
		"cloudinary.timeout": c.Cloudinary.Timeout,
	}
	for key, d := range bounds {
		if d <= 0 {
			return fmt.Errorf("config %s must be positive, got %s", key, d)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "3000")
	v.SetDefault("app.env", "development")
	v.SetDefault("auth.token_lifespan", 7*24*time.Hour)
	v.SetDefault("cloudinary.folder", "user-resumes")
	v.SetDefault("cloudinary.timeout", 30*time.Second)
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ingestion.min_text_length", 50)
	v.SetDefault("ingestion.retry_backoff", time.Second)
	v.SetDefault("rate_limit.ai_per_minute", 10)
}
