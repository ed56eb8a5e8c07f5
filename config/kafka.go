package config

import "os"

// KafkaConsumerConfig 消费者配置。
type KafkaConsumerConfig struct {
	GroupID string `json:"groupId" yaml:"groupId"`
}

// KafkaConfig Kafka 配置。
// 目前只承载 Redis 缓存补偿重试队列。
type KafkaConfig struct {
	Brokers         []string            `json:"brokers" yaml:"brokers"`
	RedisRetryTopic string              `json:"redisRetryTopic" yaml:"redisRetryTopic"`
	ConsumerConfig  KafkaConsumerConfig `json:"consumer" yaml:"consumer"`
}

// DefaultKafkaConfig 返回本地开发的默认配置。
func DefaultKafkaConfig() KafkaConfig {
	cfg := KafkaConfig{
		Brokers:         []string{"kafka:9092"},
		RedisRetryTopic: "pulse.redis.retry",
		ConsumerConfig: KafkaConsumerConfig{
			GroupID: "pulse-redis-retry",
		},
	}
	if v := os.Getenv("KAFKA_BROKER"); v != "" {
		cfg.Brokers = []string{v}
	}
	return cfg
}
