package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Backend BackendConfig `yaml:"backend"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Session SessionConfig `yaml:"session"`
	Tenant  TenantConfig  `yaml:"tenant"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type BackendConfig struct {
	Origin         string `yaml:"origin"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	EventsTopic        string   `yaml:"events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type SessionConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
	// Revalidate controls the GET /auth/me call on startup rehydration.
	Revalidate bool `yaml:"revalidate"`
	// ClearOnRevalidateFailure drops the persisted session when revalidation
	// is rejected. Off by default: a desk that cannot reach the backend at
	// startup keeps its session and fails lazily on the next call.
	ClearOnRevalidateFailure bool `yaml:"clear_on_revalidate_failure"`
}

type TenantConfig struct {
	Default string `yaml:"default"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Tenant.Default == "" {
		cfg.Tenant.Default = "public"
	}
	if cfg.Session.KeyPrefix == "" {
		cfg.Session.KeyPrefix = "desk"
	}

	return &cfg, nil
}
