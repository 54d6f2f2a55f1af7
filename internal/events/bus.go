package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNoStore      = errors.New("events: store not configured")
	ErrUnknownTopic = errors.New("events: unknown topic")
	ErrNoAggregate  = errors.New("events: aggregate id is required")
)

// Event is one recorded fact about a transaction or a customer balance.
// TraceID links it to the request that produced it, when there was one.
type Event struct {
	ID          uuid.UUID       `json:"id"`
	Topic       string          `json:"topic"`
	AggregateID uuid.UUID       `json:"aggregateId"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurredAt"`
	TraceID     string          `json:"traceId,omitempty"`
}

type EventStore interface {
	Append(ctx context.Context, event Event) error
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Bus appends events to Store first and only then notifies. A store failure
// aborts the emit; notifier failures are joined and returned with the event.
type Bus struct {
	Store     EventStore
	Notifiers []Notifier
	Now       func() time.Time
}

func (b *Bus) Emit(ctx context.Context, topic string, aggregateID uuid.UUID, payload any) (Event, error) {
	if b == nil || b.Store == nil {
		return Event{}, ErrNoStore
	}
	topic = strings.TrimSpace(topic)
	if !IsKnownTopic(topic) {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
	if aggregateID == uuid.Nil {
		return Event{}, ErrNoAggregate
	}
	body, err := encodePayload(payload)
	if err != nil {
		return Event{}, fmt.Errorf("events: encode %s payload: %w", topic, err)
	}

	ev := Event{
		ID:          uuid.New(),
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     body,
		OccurredAt:  b.now().UTC(),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		ev.TraceID = sc.TraceID().String()
	}
	if err := b.Store.Append(ctx, ev); err != nil {
		return Event{}, fmt.Errorf("events: append %s: %w", topic, err)
	}

	var errs []error
	for _, n := range b.Notifiers {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("events: notify %s: %w", topic, err))
		}
	}
	return ev, errors.Join(errs...)
}

func (b *Bus) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// encodePayload marshals payload, passing pre-encoded JSON through after
// validation. An empty payload becomes {}.
func encodePayload(payload any) (json.RawMessage, error) {
	var raw []byte
	switch v := payload.(type) {
	case nil:
		return json.RawMessage("{}"), nil
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	case string:
		raw = []byte(strings.TrimSpace(v))
	default:
		return json.Marshal(v)
	}
	if len(raw) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("payload is not valid json")
	}
	return append(json.RawMessage(nil), raw...), nil
}
