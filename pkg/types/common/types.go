// Package common holds types shared across layers: domain events, component
// health, pagination and request context keys.
package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents a significant event in the domain.
type DomainEvent interface {
	EventID() string
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseEvent provides common fields for domain events.
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	Timestamp time.Time `json:"occurred_at"`
	AggID     string    `json:"aggregate_id"`
}

func NewBaseEvent(eventType, aggID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		AggID:     aggID,
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.AggID }

// ProducerMessage is a transport-neutral outbound message.
type ProducerMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// HealthStatus indicates the health of a component or service.
type HealthStatus string

const (
	HealthUp       HealthStatus = "up"
	HealthDown     HealthStatus = "down"
	HealthDegraded HealthStatus = "degraded"
)

// ComponentHealth provides health information for a specific component.
type ComponentHealth struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Latency string       `json:"latency"`
	Message string       `json:"message,omitempty"`
}

// Pagination is a limit/offset window.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// MaxPageLimit bounds any requested page size.
const MaxPageLimit = 100

// Validate rejects negative values and oversized pages.
func (p Pagination) Validate() error {
	if p.Limit < 0 || p.Offset < 0 {
		return fmt.Errorf("limit and offset must not be negative")
	}
	if p.Limit > MaxPageLimit {
		return fmt.Errorf("limit must not exceed %d", MaxPageLimit)
	}
	return nil
}

// WithDefault returns p with Limit set to def when unset.
func (p Pagination) WithDefault(def int) Pagination {
	if p.Limit == 0 {
		p.Limit = def
	}
	return p
}

// ContextKey types request context values.
type ContextKey string

const (
	ContextKeyUserID    ContextKey = "user_id"
	ContextKeyRequestID ContextKey = "request_id"
)

//Personal.AI order the ending
