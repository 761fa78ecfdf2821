// Package audit records application status transitions to an immutable log.
// Status is overwritten in place in the store; the topic is the only place
// history can be reconstructed from.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"homeward/internal/platform/kafka"
	id "homeward/pkg/domain"
)

// TransitionEvent is one status change, keyed by application so a partition
// replays each application's history in order.
type TransitionEvent struct {
	ApplicationID id.ApplicationID `json:"application_id"`
	PetID         id.PetID         `json:"pet_id"`
	ActorID       id.UserID        `json:"actor_id"`
	From          string           `json:"from"`
	To            string           `json:"to"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// Publisher appends transition events to the log. Publishing is best-effort:
// implementations log failures and never surface them to the caller.
type Publisher interface {
	PublishTransition(ctx context.Context, event TransitionEvent)
}

// KafkaPublisher appends events to a Kafka topic.
type KafkaPublisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: logger}
}

func (p *KafkaPublisher) PublishTransition(ctx context.Context, event TransitionEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal transition event failed",
			"application_id", event.ApplicationID,
			"error", err,
		)
		return
	}
	p.producer.Produce(ctx, []byte(event.ApplicationID.String()), value)
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishTransition(context.Context, TransitionEvent) {}

// MemoryPublisher records events for tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []TransitionEvent
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) PublishTransition(_ context.Context, event TransitionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []TransitionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]TransitionEvent(nil), p.events...)
}
