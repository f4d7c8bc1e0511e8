package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AIConfig selects the provider and carries per-provider credentials.
// Model and timeout fields are optional; each client applies its own
// defaults when they are zero.
type AIConfig struct {
	Provider string `mapstructure:"provider"`

	DeepseekAPIKey  string `mapstructure:"deepseek_api_key"`
	DeepseekBaseURL string `mapstructure:"deepseek_base_url"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`

	EmbeddingModel string `mapstructure:"embedding_model"`
	ChatModel      string `mapstructure:"chat_model"`

	EmbedTimeoutSecs    int `mapstructure:"embed_timeout_secs"`
	CompleteTimeoutSecs int `mapstructure:"complete_timeout_secs"`
}

func (a AIConfig) EmbedTimeout() time.Duration {
	if a.EmbedTimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.EmbedTimeoutSecs) * time.Second
}

func (a AIConfig) CompleteTimeout() time.Duration {
	if a.CompleteTimeoutSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(a.CompleteTimeoutSecs) * time.Second
}

type WorkerConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	Queue       string `mapstructure:"queue"`
	MaxRetries  int    `mapstructure:"max_retries"`
}

type FeaturesConfig struct {
	AIChatEnabled bool `mapstructure:"ai_chat_enabled"`
	ChatLogging   bool `mapstructure:"chat_logging"`
}

type Settings struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	AI       AIConfig       `mapstructure:"ai"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Features FeaturesConfig `mapstructure:"features"`
	Env      string         `mapstructure:"env"`
	Debug    bool           `mapstructure:"debug"`
}

func Load() (*Settings, error) {
	viper.SetConfigName("config_" + genEnv())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &settings, nil
}

func genEnv() string {
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
