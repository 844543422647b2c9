package mail

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher queues messages on a topic for cmd/mailer to deliver.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher builds a synchronous writer. SASL/PLAIN over TLS is used when a username is set.
func NewKafkaPublisher(broker, topic, username, password string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}
	if username != "" {
		w.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: username, Password: password},
			TLS:  &tls.Config{},
		}
	}
	return &KafkaPublisher{writer: w}
}

// Send publishes msg keyed by recipient so one user's mail stays ordered.
func (p *KafkaPublisher) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(Event{Kind: "mail", Message: msg})
	if err != nil {
		return fmt.Errorf("marshal mail event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.To),
		Value: payload,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("publish mail event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
