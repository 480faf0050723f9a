package config

import (
	"os"
	"sync"
)

// RabbitMQConfig is optional; an empty URL disables event publishing.
type RabbitMQConfig struct {
	URL       string
	Exchange  string
	QueueSize int
}

var (
	rabbitMQConfig *RabbitMQConfig
	rabbitMQOnce   sync.Once
)

func LoadRabbitMQConfig() *RabbitMQConfig {
	rabbitMQOnce.Do(func() {
		rabbitMQConfig = &RabbitMQConfig{
			URL:       os.Getenv("RABBITMQ_URL"),
			Exchange:  envString("RABBITMQ_EXCHANGE", "career_updates"),
			QueueSize: envInt("RABBITMQ_QUEUE_SIZE", 256),
		}
	})
	return rabbitMQConfig
}
