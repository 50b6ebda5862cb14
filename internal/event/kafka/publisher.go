package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shestoi/magazyn/internal/service"
	"github.com/shestoi/magazyn/platform/observability"
)

// messageWriter часть kafka.Writer, нужная publisher'у
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaStockEventPublisher реализует StockEventPublisher используя Kafka
type KafkaStockEventPublisher struct {
	logger *zap.Logger
	writer messageWriter
	topic  string
}

// NewKafkaStockEventPublisher создаёт новый Kafka publisher для событий остатков
func NewKafkaStockEventPublisher(logger *zap.Logger, brokers []string, topic string) *KafkaStockEventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return newPublisher(logger, writer, topic)
}

func newPublisher(logger *zap.Logger, writer messageWriter, topic string) *KafkaStockEventPublisher {
	return &KafkaStockEventPublisher{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

// Close закрывает Kafka writer
func (p *KafkaStockEventPublisher) Close() error {
	return p.writer.Close()
}

// stockEventPayload JSON представление события в топике
type stockEventPayload struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	OccurredAt string `json:"occurred_at"`
	ItemID     string `json:"item_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price,omitempty"`
}

// PublishStockEvent публикует событие изменения остатка.
// Ключ сообщения: id позиции, для новой позиции (id ещё неизвестен) её имя.
func (p *KafkaStockEventPublisher) PublishStockEvent(ctx context.Context, event service.StockEvent) error {
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payload := stockEventPayload{
		EventID:    uuid.New().String(),
		EventType:  event.Type,
		OccurredAt: occurredAt.Format(time.RFC3339),
		ItemID:     event.ItemID,
		Name:       event.Name,
		Quantity:   event.Quantity,
	}
	if event.Type != service.EventItemRetired || !event.UnitPrice.IsZero() {
		payload.UnitPrice = event.UnitPrice.StringFixed(2)
	}

	valueBytes, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal stock event",
			zap.Error(err),
			zap.String("event_type", event.Type),
		)
		return err
	}

	key := event.ItemID
	if key == "" {
		key = event.Name
	}
	message := kafka.Message{
		Key:   []byte(key),
		Value: valueBytes,
	}
	observability.InjectKafka(ctx, &message)

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		observability.L(ctx, p.logger).Error("failed to publish stock event",
			zap.Error(err),
			zap.String("topic", p.topic),
			zap.String("event_type", event.Type),
			zap.String("item_id", event.ItemID),
		)
		return err
	}

	observability.L(ctx, p.logger).Debug("stock event published",
		zap.String("topic", p.topic),
		zap.String("event_id", payload.EventID),
		zap.String("event_type", event.Type),
		zap.String("item_id", event.ItemID),
	)
	return nil
}

// NoOpPublisher используется, когда Kafka выключена
type NoOpPublisher struct{}

// PublishStockEvent ничего не делает
func (NoOpPublisher) PublishStockEvent(context.Context, service.StockEvent) error {
	return nil
}
