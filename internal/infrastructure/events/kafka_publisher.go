// Package events publica en Kafka los movimientos confirmados y las entradas en stock bajo.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/drb-alger/gestion-magasin/internal/application/inventory"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/pkg/logger"
)

// Tipos de evento.
const (
	EventMovementRecorded = "movement.recorded"
	EventStockLow         = "stock.low"
)

// Event sobre común de los mensajes publicados.
type Event struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Product    Product   `json:"product"`
	Movement   *Movement `json:"movement,omitempty"`
}

// Product foto del producto tras el commit.
type Product struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Quantity     int64  `json:"quantity"`
	MinThreshold int64  `json:"min_threshold"`
}

// Movement movimiento confirmado.
type Movement struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Quantity    int64  `json:"quantity"`
	Timestamp   string `json:"timestamp"`
	Recipient   string `json:"recipient,omitempty"`
	Observation string `json:"observation,omitempty"`
	StockAfter  int64  `json:"stock_after"`
}

// messageWriter subconjunto de *kafka.Writer usado por el publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher implementa inventory.EventPublisher sobre kafka-go.
type KafkaPublisher struct {
	writer  messageWriter
	log     *logger.Logger
	timeout time.Duration
	now     func() time.Time
}

var _ inventory.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher crea el writer hacia topic. La clave del mensaje es el id de producto,
// así los eventos de un mismo producto mantienen el orden dentro de la partición.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return newPublisher(w, log)
}

func newPublisher(w messageWriter, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, log: log, timeout: 10 * time.Second, now: time.Now}
}

// MovementRecorded publica movement.recorded.
func (p *KafkaPublisher) MovementRecorded(ctx context.Context, m *entity.Movement, product *entity.Product) error {
	ev := p.newEvent(EventMovementRecorded, product)
	ev.Movement = &Movement{
		ID:          m.ID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Timestamp:   m.Timestamp.Format(entity.TimestampLayout),
		Recipient:   m.Recipient,
		Observation: m.Observation,
		StockAfter:  m.StockAfter,
	}
	return p.publish(ctx, ev)
}

// LowStockReached publica stock.low.
func (p *KafkaPublisher) LowStockReached(ctx context.Context, product *entity.Product) error {
	return p.publish(ctx, p.newEvent(EventStockLow, product))
}

// Close libera el writer.
func (p *KafkaPublisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

func (p *KafkaPublisher) newEvent(eventType string, product *entity.Product) Event {
	return Event{
		EventID:    uuid.New().String(),
		Type:       eventType,
		OccurredAt: p.now().UTC(),
		Product: Product{
			ID:           product.ID,
			Name:         product.Name,
			Category:     product.Category,
			Quantity:     product.Quantity,
			MinThreshold: product.MinThreshold,
		},
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: serializar %s: %w", ev.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.Product.ID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
			{Key: "event_id", Value: []byte(ev.EventID)},
		},
	}

	// El commit ya ocurrió: la publicación no hereda la cancelación de la petición
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: publicar %s: %w", ev.Type, err)
	}
	p.log.Debug().Str("event_id", ev.EventID).Str("type", ev.Type).Int64("product_id", ev.Product.ID).
		Msg("evento publicado")
	return nil
}
