package mail

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	defaultRetryBase = time.Second
	defaultRetryMax  = time.Minute
)

// Consumer delivers queued mail events through a Sender.
type Consumer struct {
	reader    messageReader
	sender    Sender
	log       *zap.Logger
	retryBase time.Duration
	retryMax  time.Duration
}

// NewKafkaConsumer joins groupID on topic.
func NewKafkaConsumer(broker, topic, groupID, username, password string, sender Sender, log *zap.Logger) *Consumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if username != "" {
		dialer.TLS = &tls.Config{}
		dialer.SASLMechanism = plain.Mechanism{Username: username, Password: password}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})
	return &Consumer{reader: reader, sender: sender, log: log, retryBase: defaultRetryBase, retryMax: defaultRetryMax}
}

// Run processes events in order until ctx is cancelled. Undecodable events are logged and
// committed. A failed delivery is retried with backoff before the next event is fetched:
// commits are cumulative per partition, so committing a later offset would also commit it.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			c.log.Error("fetch mail event", zap.Error(err))
			continue
		}

		if err := c.deliver(ctx, msg); err != nil {
			return nil
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("commit mail event", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// deliver retries msg until it is handled. It only fails once ctx is done.
func (c *Consumer) deliver(ctx context.Context, msg kafka.Message) error {
	delay, maxDelay := c.retryBase, c.retryMax
	if delay <= 0 {
		delay = defaultRetryBase
	}
	if maxDelay < delay {
		maxDelay = delay
	}

	for attempt := 1; ; attempt++ {
		err := c.handle(ctx, msg)
		if err == nil {
			return nil
		}
		c.log.Error("deliver mail event",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if delay *= 2; delay > maxDelay {
			delay = maxDelay
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.log.Warn("drop malformed mail event", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}
	if event.Message.To == "" {
		c.log.Warn("drop mail event without recipient", zap.Int64("offset", msg.Offset))
		return nil
	}
	return c.sender.Send(ctx, event.Message)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
