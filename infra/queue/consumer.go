package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/dteaa/membership_service/internal/interfaces"
	"github.com/dteaa/membership_service/internal/logger"
)

// Reader is the subset of *kafka.Reader the consumer needs.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type KafkaConsumer struct {
	reader      Reader
	handler     interfaces.ConsumerHandler
	log         logger.Logger
	serviceName string
	backoff     time.Duration
}

func NewKafkaConsumer(opts Options, handler interfaces.ConsumerHandler, log logger.Logger) *KafkaConsumer {
	cfg := kafka.ReaderConfig{
		Brokers:  []string{opts.Broker},
		GroupID:  opts.GroupID,
		Topic:    opts.Topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	}
	if opts.Username != "" {
		cfg.Dialer = &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			SASLMechanism: plain.Mechanism{Username: opts.Username, Password: opts.Password},
			TLS:           &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}
	return NewKafkaConsumerWithReader(kafka.NewReader(cfg), handler, log)
}

func NewKafkaConsumerWithReader(r Reader, handler interfaces.ConsumerHandler, log logger.Logger) *KafkaConsumer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &KafkaConsumer{
		reader:      r,
		handler:     handler,
		log:         log,
		serviceName: "membership-mailer",
		backoff:     time.Second,
	}
}

// Listen reads until ctx is cancelled. Handler failures are logged and the message is
// skipped; a mail that cannot be sent must not wedge the partition.
func (kc *KafkaConsumer) Listen(ctx context.Context) error {
	kc.log.Info("consumer started", map[string]interface{}{"service": kc.serviceName})
	for {
		msg, err := kc.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			kc.log.Error("read message", map[string]interface{}{"error": err})
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(kc.backoff):
			}
			continue
		}

		kc.log.Debug("received message", map[string]interface{}{
			"topic":     msg.Topic,
			"partition": msg.Partition,
			"offset":    msg.Offset,
		})
		if err := kc.handler.HandleMessage(ctx, msg.Value); err != nil {
			kc.log.Error("handle message", map[string]interface{}{"offset": msg.Offset, "error": err})
		}
	}
}

func (kc *KafkaConsumer) Close() error {
	return kc.reader.Close()
}
