package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"PulseServer/pkg/kafka"
)

var globalProducer *kafka.Producer

// ErrProducerNotInitialized Kafka 生产者未初始化（Redis 降级时不启动）。
var ErrProducerNotInitialized = errors.New("kafka producer not initialized")

// SetGlobalProducer 设置全局 Kafka 生产者（进程启动时调用一次）。
func SetGlobalProducer(p *kafka.Producer) {
	globalProducer = p
}

// SendRedisTask 把 Redis 补偿任务投递到重试队列。
// 以 key 分区（同一个缓存 Key 的任务保序）。
func SendRedisTask(ctx context.Context, task RedisTask) error {
	if globalProducer == nil {
		return ErrProducerNotInitialized
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal redis task: %w", err)
	}

	key := task.Command
	if task.Type == CmdSimple && len(task.Args) > 0 {
		if s, ok := task.Args[0].(string); ok {
			key = s
		}
	}

	return globalProducer.Send(ctx, key, data)
}
