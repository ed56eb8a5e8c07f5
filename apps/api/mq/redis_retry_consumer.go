package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgkafka "PulseServer/pkg/kafka"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// RedisRetryConsumer 消费重试队列，补偿执行失败的 Redis 操作。
// 执行仍失败时重新入队（RetryCount+1），超过 MaxRetries 丢弃并打日志。
type RedisRetryConsumer struct {
	reader      *kafka.Reader
	redisClient *redis.Client
	producer    *pkgkafka.Producer
	logger      *pkgkafka.ZapLoggerAdapter
}

// NewRedisRetryConsumer 创建重试消费者。
func NewRedisRetryConsumer(brokers []string, topic, groupID string, redisClient *redis.Client, producer *pkgkafka.Producer, logger *pkgkafka.ZapLoggerAdapter) *RedisRetryConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: time.Second,
		ErrorLogger:    logger,
	})
	return &RedisRetryConsumer{
		reader:      reader,
		redisClient: redisClient,
		producer:    producer,
		logger:      logger,
	}
}

// Start 阻塞消费，直到 ctx 取消或 reader 关闭。
func (c *RedisRetryConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, kafka.ErrGroupClosed) {
				return nil
			}
			return fmt.Errorf("read retry message: %w", err)
		}

		var task RedisTask
		if err := json.Unmarshal(msg.Value, &task); err != nil {
			// 消息体损坏，无法重试，直接丢弃
			c.logger.Printf("drop malformed redis task: %v", err)
			continue
		}

		if err := c.execute(ctx, task); err != nil {
			c.requeue(ctx, task, err)
		}
	}
}

// Close 关闭底层 reader。
func (c *RedisRetryConsumer) Close() error {
	return c.reader.Close()
}

// execute 按任务类型补偿执行 Redis 操作。
func (c *RedisRetryConsumer) execute(ctx context.Context, task RedisTask) error {
	execCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	switch task.Type {
	case CmdSimple:
		args := make([]interface{}, 0, len(task.Args)+1)
		args = append(args, task.Command)
		args = append(args, task.Args...)
		return c.redisClient.Do(execCtx, args...).Err()

	case CmdPipeline:
		pipe := c.redisClient.Pipeline()
		for _, cmd := range task.PipelineCmds {
			args := make([]interface{}, 0, len(cmd.Args)+1)
			args = append(args, cmd.Command)
			args = append(args, cmd.Args...)
			pipe.Do(execCtx, args...)
		}
		_, err := pipe.Exec(execCtx)
		return err

	case CmdLua:
		return redis.NewScript(task.LuaScript).
			Run(execCtx, c.redisClient, task.LuaKeys, task.LuaArgs...).Err()

	default:
		// 未知类型不可重试
		c.logger.Printf("drop redis task with unknown type %q", task.Type)
		return nil
	}
}

// requeue 重新入队或放弃。
func (c *RedisRetryConsumer) requeue(ctx context.Context, task RedisTask, execErr error) {
	task.RetryCount++
	if task.RetryCount > task.MaxRetries {
		c.logger.Printf("give up redis task after %d retries: command=%s err=%v trace_id=%s",
			task.MaxRetries, task.Command, execErr, task.TraceID)
		return
	}

	data, err := json.Marshal(task)
	if err != nil {
		c.logger.Printf("marshal redis task for requeue: %v", err)
		return
	}
	if err := c.producer.Send(ctx, task.Command, data); err != nil {
		c.logger.Printf("requeue redis task: %v", err)
	}
}
