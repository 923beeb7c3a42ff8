package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/event"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

var ErrConsumerClosed = errors.New("consumer closed")

const fetchErrorBackoff = time.Second

// MessageReader kafka.Reader 的子集合
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ReaderConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

func NewKafkaReader(cfg ReaderConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error().Msgf("kafka consumer error: "+msg, args...)
		}),
	})
}

type IBaseConsumer interface {
	Start(ctx context.Context) error
	Stop()
}

// OrderNotificationConsumer 讀取 order.placed 事件並寄出確認信
// 寄信失敗只記 log, offset 照常 commit, 不重試
type OrderNotificationConsumer struct {
	reader    MessageReader
	notifier  service.OrderNotifier
	closeChan chan struct{}
	closeOnce sync.Once
}

var _ IBaseConsumer = (*OrderNotificationConsumer)(nil)

func NewOrderNotificationConsumer(reader MessageReader, notifier service.OrderNotifier) *OrderNotificationConsumer {
	return &OrderNotificationConsumer{
		reader:    reader,
		notifier:  notifier,
		closeChan: make(chan struct{}),
	}
}

func (c *OrderNotificationConsumer) checkIsClosed() bool {
	select {
	case <-c.closeChan:
		return true
	default:
		return false
	}
}

// Start 阻塞直到 ctx 結束或 Stop
func (c *OrderNotificationConsumer) Start(ctx context.Context) error {
	if c.checkIsClosed() {
		return ErrConsumerClosed
	}

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || c.checkIsClosed() || errors.Is(err, io.EOF) {
				return nil
			}
			log.Error().Err(err).Msg("failed to fetch order event")
			select {
			case <-ctx.Done():
				return nil
			case <-c.closeChan:
				return nil
			case <-time.After(fetchErrorBackoff):
			}
			continue
		}

		if err := c.handle(ctx, msg); err != nil {
			log.Error().Err(err).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Str("key", string(msg.Key)).
				Msg("failed to handle order event")
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Int64("offset", msg.Offset).Msg("failed to commit order event")
		}
	}
}

func (c *OrderNotificationConsumer) handle(ctx context.Context, msg kafka.Message) error {
	if eventType(msg) != string(event.OrderPlacedEventName) {
		return nil
	}

	var evt event.OrderPlacedEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return fmt.Errorf("failed to decode order event: %w", err)
	}
	return c.notifier.NotifyOrderPlaced(ctx, evt.Confirmation)
}

func eventType(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == constants.EventTypeHeader {
			return string(h.Value)
		}
	}
	return ""
}

func (c *OrderNotificationConsumer) Stop() {
	c.closeOnce.Do(func() {
		close(c.closeChan)
		if err := c.reader.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close kafka reader")
		}
	})
}
