package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	QueueBackend      string // redis | kafka | memory
	EventQueueName    string // destino de la cola; vacío = publisher no-op y consumer desactivado
	PollingEnabled    bool
	PollingInterval   time.Duration
	MaxMessages       int
	WaitTime          time.Duration
	VisibilityTimeout time.Duration
	RedisAddr         string
	KafkaBrokers      []string
	KafkaGroupID      string
	HTTPPort          string
}

func LoadConfig() *Config {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	getEnvInt := func(key string, fallback int) int {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return fallback
	}

	getEnvBool := func(key string, fallback bool) bool {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
		return fallback
	}

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")

	return &Config{
		QueueBackend:      getEnv("QUEUE_BACKEND", "redis"),
		EventQueueName:    getEnv("EVENT_QUEUE_NAME", ""),
		PollingEnabled:    getEnvBool("POLLING_ENABLED", true),
		PollingInterval:   time.Duration(getEnvInt("POLLING_INTERVAL_SECONDS", 10)) * time.Second,
		MaxMessages:       getEnvInt("MAX_MESSAGES", 10),
		WaitTime:          time.Duration(getEnvInt("WAIT_TIME_SECONDS", 5)) * time.Second,
		VisibilityTimeout: time.Duration(getEnvInt("VISIBILITY_TIMEOUT_SECONDS", 30)) * time.Second,
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:      kafkaBrokers,
		KafkaGroupID:      getEnv("KAFKA_GROUP_ID", "menulab-product-service"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
	}
}
