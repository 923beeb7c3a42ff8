package producer

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/event"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

var ErrProducerClosed = errors.New("producer closed")

// MessageWriter kafka.Writer 的子集合
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type WriterConfig struct {
	Brokers       []string
	Topic         string
	BatchTimeout  time.Duration
	RetryAttempts int
}

// NewKafkaWriter 同步寫入, 等所有 replica 確認
func NewKafkaWriter(cfg WriterConfig) *kafka.Writer {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,

		// 重試機制設置
		MaxAttempts: cfg.RetryAttempts,

		Transport: &kafka.Transport{
			Dial: func(ctx context.Context, network string, address string) (net.Conn, error) {
				dialer := &kafka.Dialer{
					Timeout:   10 * time.Second,
					DualStack: true,
					KeepAlive: 30 * time.Second,
				}
				return dialer.DialContext(ctx, network, address)
			},
		},

		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error().Msgf("kafka producer error: "+msg, args...)
		}),
	}
}

// OrderProducer 以 kafka 事件取代直接寄信, 由 consumer 非同步處理
// 同一訂單的事件以訂單 id 做 key, 落在同一個 partition
type OrderProducer struct {
	writer MessageWriter
	closed atomic.Bool
}

var _ service.OrderNotifier = (*OrderProducer)(nil)

func NewOrderProducer(writer MessageWriter) *OrderProducer {
	return &OrderProducer{writer: writer}
}

func (p *OrderProducer) NotifyOrderPlaced(ctx context.Context, confirmation service.OrderConfirmation) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	msg, err := convertToMessage(event.NewOrderPlacedEvent(confirmation))
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func convertToMessage(evt *event.OrderPlacedEvent) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(evt.AggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: constants.EventTypeHeader, Value: []byte(evt.Type())},
		},
		Time: evt.CreatedAt,
	}, nil
}

func (p *OrderProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
