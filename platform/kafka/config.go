package kafka

import (
	"errors"
	"strings"
)

// Config содержит настройки подключения к Kafka.
// Поля читаются из окружения через caarlos0/env вместе с конфигом сервиса.
type Config struct {
	// Enabled включает публикацию событий; при false используется no-op publisher
	Enabled bool `env:"KAFKA_ENABLED" envDefault:"false"`
	// Brokers список брокеров через запятую: "broker1:9092,broker2:9092"
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	// Topic топик событий движения товара
	Topic string `env:"KAFKA_STOCK_TOPIC" envDefault:"magazyn.stock"`
}

// DefaultBrokers возвращает брокер по умолчанию для окружения
func DefaultBrokers(appEnv string) []string {
	if appEnv == "docker" {
		return []string{"kafka:9092"}
	}
	return []string{"localhost:19092"}
}

// Normalize убирает пробелы и пустые элементы из списка брокеров
func (c *Config) Normalize() {
	brokers := make([]string, 0, len(c.Brokers))
	for _, b := range c.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.Brokers = brokers
}

// Validate проверяет конфигурацию, только если публикация включена
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}
	if c.Topic == "" {
		return errors.New("KAFKA_STOCK_TOPIC is required when KAFKA_ENABLED=true")
	}
	return nil
}
