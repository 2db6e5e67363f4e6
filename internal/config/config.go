package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Generator struct {
		Enabled        bool   `yaml:"enabled"`
		URL            string `yaml:"url"`
		TimeoutSeconds int64  `yaml:"timeout_seconds"`
	} `yaml:"generator"`
	Notifier struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		ChatID           int64  `yaml:"chat_id"`
	} `yaml:"notifier"`
	Safety struct {
		Level         string `yaml:"level"`          // strict, moderate, lenient
		Transparency  bool   `yaml:"transparency"`   // emit guardrail explanations
		LearningMode  bool   `yaml:"learning_mode"`  // emit educational breakdowns
		DataLogging   bool   `yaml:"data_logging"`   // persist non-crisis messages
		ResponseSpeed string `yaml:"response_speed"` // safety, balanced, speed
	} `yaml:"safety"`
	RateLimit struct {
		RPS int `yaml:"rps"`
	} `yaml:"rate_limit"`
}

// GeneratorTimeout returns the configured generation deadline.
func (c *Config) GeneratorTimeout() time.Duration {
	return time.Duration(c.Generator.TimeoutSeconds) * time.Second
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Safety.Level == "" {
		config.Safety.Level = "moderate"
	}
	if config.Safety.ResponseSpeed == "" {
		config.Safety.ResponseSpeed = "balanced"
	}
	if config.Generator.TimeoutSeconds == 0 {
		config.Generator.TimeoutSeconds = 10
	}
	if config.RateLimit.RPS == 0 {
		config.RateLimit.RPS = 5
	}

	return config, nil
}
