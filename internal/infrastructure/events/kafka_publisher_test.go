package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/infrastructure/events"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestMovementRecorded(t *testing.T) {
	w := &fakeWriter{}
	p := events.NewPublisherForTest(w)

	product := &entity.Product{ID: 42, Name: "Clavier", Quantity: 7, MinThreshold: 5}
	mov := &entity.Movement{
		ID: 9, ProductID: 42, Type: entity.MovementTypeSortie, Quantity: 3,
		Timestamp: time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local), Recipient: "Bureau Suivi", StockAfter: 7,
	}
	require.NoError(t, p.MovementRecorded(context.Background(), mov, product))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, events.EventMovementRecorded, header(msg, "event_type"))

	var ev events.Event
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, events.EventMovementRecorded, ev.Type)
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, header(msg, "event_id"), ev.EventID)
	require.NotNil(t, ev.Movement)
	assert.Equal(t, "2025-03-01 09:30:00", ev.Movement.Timestamp)
	assert.Equal(t, int64(7), ev.Movement.StockAfter)
	assert.Equal(t, "Clavier", ev.Product.Name)
}

func TestLowStockReached(t *testing.T) {
	w := &fakeWriter{}
	p := events.NewPublisherForTest(w)

	require.NoError(t, p.LowStockReached(context.Background(), &entity.Product{ID: 1, Name: "Toner", Quantity: 1, MinThreshold: 2}))
	require.Len(t, w.msgs, 1)

	var ev events.Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &ev))
	assert.Equal(t, events.EventStockLow, ev.Type)
	assert.Nil(t, ev.Movement)
	assert.Equal(t, int64(2), ev.Product.MinThreshold)
}

func TestPublish_Error(t *testing.T) {
	boom := errors.New("sin brokers")
	p := events.NewPublisherForTest(&fakeWriter{err: boom})

	err := p.LowStockReached(context.Background(), &entity.Product{ID: 1})
	assert.ErrorIs(t, err, boom)
}
