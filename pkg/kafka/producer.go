package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer kafka-go Writer 的轻量封装。
// 只负责投递消息，topic 在创建时固定。
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 创建指定 topic 的生产者。
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

// Send 投递一条消息。key 用于分区路由（同 key 保序）。
func (p *Producer) Send(ctx context.Context, key string, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

// Close 关闭底层 writer。
func (p *Producer) Close() error {
	return p.writer.Close()
}

// ZapLoggerAdapter 把 zap 适配成 kafka-go 的 Logger 接口。
type ZapLoggerAdapter struct {
	l *zap.SugaredLogger
}

// NewZapLoggerAdapter 创建 kafka-go 日志适配器。
func NewZapLoggerAdapter(l *zap.Logger) *ZapLoggerAdapter {
	return &ZapLoggerAdapter{l: l.Sugar()}
}

func (a *ZapLoggerAdapter) Printf(format string, args ...interface{}) {
	a.l.Infof(format, args...)
}
