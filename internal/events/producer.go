package events

import (
	"context"
	"encoding/json"

	"craftconnect-be/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher is what services depend on; publishing is best-effort and must
// never block the request path beyond the inbox buffer.
type Publisher interface {
	Publish(ctx context.Context, env Envelope)
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Envelope) {}

type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start drains the inbox until ctx is cancelled, then flushes what is left.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				close(p.inbox)
				for m := range p.inbox {
					p.write(m)
				}
				_ = p.w.Close()
				close(p.closeCh)
				return
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					close(p.closeCh)
					return
				}
				p.write(m)
			}
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		logger.L().Error("failed to publish order event",
			zap.String("key", string(m.Key)),
			zap.Error(err),
		)
	}
}

func (p *Producer) Publish(ctx context.Context, env Envelope) {
	value, err := json.Marshal(env)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to marshal event envelope", zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(env.CorrelationID),
		Value: value,
	}

	select {
	case p.inbox <- msg:
	default:
		logger.FromCtx(ctx).Warn("event inbox full, dropping event",
			zap.String("event_type", env.EventType),
			zap.String("correlation_id", env.CorrelationID),
		)
	}
}

// Close stops the drain goroutine after flushing the remaining messages.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the drain goroutine has exited.
func (p *Producer) WaitClosed() { <-p.closeCh }
