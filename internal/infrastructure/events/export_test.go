package events

import "github.com/drb-alger/gestion-magasin/pkg/logger"

// NewPublisherForTest expone el constructor con writer inyectable.
func NewPublisherForTest(w messageWriter) *KafkaPublisher {
	return newPublisher(w, logger.Nop())
}
