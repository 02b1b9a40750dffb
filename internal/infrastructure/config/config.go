package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs identity tokens. Rotating it invalidates every
	// outstanding token. Never logged.
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=720h"`

	// AdminProvisionKey authorizes the admin bootstrap endpoint. Leaving it
	// empty disables admin registration entirely.
	AdminProvisionKey string `env:"ADMIN_PROVISION_KEY"`

	Mongo MongoConfig
	Redis RedisConfig
	LLM   LLMConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=edenz_crm"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type LLMConfig struct {
	BaseURL string        `env:"LLM_BASE_URL, default=https://openrouter.ai/api/v1"`
	APIKey  string        `env:"LLM_API_KEY"`
	Model   string        `env:"LLM_MODEL,    default=deepseek/deepseek-r1:free"`
	Timeout time.Duration `env:"LLM_TIMEOUT,  default=30s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
