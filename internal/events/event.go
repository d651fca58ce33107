// Package events shares cache invalidations between gateway instances over
// Kafka. Each instance publishes the mutations it performed and applies the
// mutations published by the others.
package events

import (
	"context"
	"strconv"
	"time"

	"assetshare/internal/cache"
	"assetshare/pkg/kafka"

	"github.com/google/uuid"
)

// HeaderEntityID lets consumers route on the entity without decoding the payload.
const HeaderEntityID = "entity-id"

// Event is the payload of one invalidation message.
type Event struct {
	ID         string            `json:"id"`
	Mutation   cache.Mutation    `json:"mutation"`
	EntityID   int64             `json:"entity_id"`
	Partitions []cache.Partition `json:"partitions"`
	Origin     string            `json:"origin"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func NewEvent(inv cache.Invalidation, origin string, now time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Mutation:   inv.Mutation,
		EntityID:   inv.EntityID,
		Partitions: inv.Partitions,
		Origin:     origin,
		OccurredAt: now.UTC(),
	}
}

// Key keeps the events of one entity on one partition, in order.
func (e Event) Key() string {
	return strconv.FormatInt(e.EntityID, 10)
}

func (e Event) Message() (kafka.Message, error) {
	return kafka.NewMessage().
		WithKey(e.Key()).
		WithValue(e).
		WithEventID(e.ID).
		WithEventType(string(e.Mutation)).
		WithSource(e.Origin).
		WithHeader(HeaderEntityID, e.Key()).
		WithTimestamp(e.OccurredAt).
		Build()
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NoopPublisher is used when events are disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
