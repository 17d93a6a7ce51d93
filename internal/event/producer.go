package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikolayk812/orderup-cart/internal/domain"
	"github.com/nikolayk812/orderup-cart/internal/logger"
	"github.com/nikolayk812/orderup-cart/internal/port"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes cart events to Kafka.
type Producer struct {
	writer  messageWriter
	brokers []string
	logger  *slog.Logger
}

var _ port.EventPublisher = (*Producer)(nil)

func NewProducer(brokers []string, logger *slog.Logger) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer:  w,
		brokers: brokers,
		logger:  logger,
	}
}

// PublishOrderPlaced emits cart.checked_out keyed by session so all events of
// one cart land on the same partition.
func (p *Producer) PublishOrderPlaced(ctx context.Context, placed domain.OrderPlaced) error {
	data := CheckedOutData{
		OrderID:     placed.OrderID,
		SessionID:   placed.SessionID,
		ItemCount:   placed.ItemCount,
		Subtotal:    placed.Totals.Subtotal.StringFixed(2),
		Tax:         placed.Totals.Tax.StringFixed(2),
		DeliveryFee: placed.Totals.DeliveryFee.StringFixed(2),
		Total:       placed.Totals.Total.StringFixed(2),
		Currency:    placed.Totals.Currency.String(),
	}

	aggregateID := placed.TenantID + ":" + placed.SessionID

	evt, err := newEvent(TypeCartCheckedOut, placed.TenantID, aggregateID, data)
	if err != nil {
		return fmt.Errorf("newEvent: %w", err)
	}
	evt.CorrelationID = logger.CorrelationIDFromContext(ctx)

	return p.publish(ctx, TopicCartCheckedOut, evt)
}

func (p *Producer) publish(ctx context.Context, topic string, evt *Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(evt.AggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.EventType)},
			{Key: "source", Value: []byte(evt.Source)},
			{Key: "tenant_id", Value: []byte(evt.TenantID)},
		},
	}
	if evt.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "correlation_id", Value: []byte(evt.CorrelationID)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish event to %s: %w", topic, err)
	}

	logger.FromContext(ctx, p.logger).DebugContext(ctx, "event published",
		slog.String("topic", topic),
		slog.String("event_type", evt.EventType),
		slog.String("aggregate_id", evt.AggregateID),
	)

	return nil
}

// Ping dials the brokers and succeeds when at least one answers.
func (p *Producer) Ping(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("kafka: no brokers configured")
	}

	var lastErr error
	for _, addr := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = conn.Brokers()
		_ = conn.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("kafka ping: all brokers unreachable: %w", lastErr)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
