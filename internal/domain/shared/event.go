package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something an aggregate recorded while changing state
type DomainEvent interface {
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// BaseDomainEvent implements DomainEvent for embedding
type BaseDomainEvent struct {
	ID      uuid.UUID `json:"id"`
	Type    string    `json:"type"`
	Subject string    `json:"subject"`
	AggID   uuid.UUID `json:"aggregate_id"`
	At      time.Time `json:"occurred_at"`
}

// NewBaseDomainEvent stamps a new event of eventType about the aggregate
// subject/aggID
func NewBaseDomainEvent(eventType, subject string, aggID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:      uuid.New(),
		Type:    eventType,
		Subject: subject,
		AggID:   aggID,
		At:      time.Now(),
	}
}

func (e *BaseDomainEvent) EventType() string { return e.Type }

func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.AggID }

func (e *BaseDomainEvent) OccurredAt() time.Time { return e.At }
