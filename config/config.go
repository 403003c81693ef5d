package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	TrackGate TrackGateConfig `yaml:"trackgate"`
}

type KafkaConfig struct {
	Host                     string `yaml:"host"`
	Port                     int    `yaml:"port"`
	TrackingCheckedTopicName string `yaml:"tracking_checked_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TrackGateConfig struct {
	HTTPAddr string `yaml:"http_addr"`

	// Сколько секунд держать удачный результат трекинга в кэше.
	ResultTTLSeconds int `yaml:"result_ttl_seconds"`

	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`

	// Переопределения адресов бэкендов перевозчиков по id —
	// для стейджинга и интеграционных прогонов против заглушек.
	CarrierBaseURLs map[string]string `yaml:"carrier_base_urls"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}
