package queue

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/dteaa/membership_service/internal/logger"
)

// Options describe the broker connection. SASL/TLS is enabled when Username is set.
type Options struct {
	Broker   string
	Topic    string
	GroupID  string
	Username string
	Password string
}

// Writer is the subset of *kafka.Writer the producer needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer  Writer
	log     logger.Logger
	timeout time.Duration
}

func NewProducer(opts Options, log logger.Logger) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(opts.Broker),
		Topic:                  opts.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}
	if opts.Username != "" {
		w.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: opts.Username, Password: opts.Password},
			TLS:  &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}
	return NewProducerWithWriter(w, log)
}

func NewProducerWithWriter(w Writer, log logger.Logger) *Producer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Producer{writer: w, log: log, timeout: 5 * time.Second}
}

// PublishMessage writes one keyed message. Keys are user ids so a member's events stay ordered.
func (p *Producer) PublishMessage(key, value []byte) error {
	if p == nil || p.writer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		p.log.Warn("kafka write failed", map[string]interface{}{"key": string(key), "error": err})
	}
	return err
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
