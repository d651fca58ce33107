package events

import (
	"context"
	"time"

	"assetshare/internal/cache"
	"assetshare/pkg/kafka"
	"assetshare/pkg/logger"
)

const publishTimeout = 5 * time.Second

type KafkaPublisher struct {
	producer *kafka.Producer
}

func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	msg, err := e.Message()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// Forwarder publishes the local invalidations of an Invalidator.
type Forwarder struct {
	publisher Publisher
	origin    string
	log       *logger.Logger
	now       func() time.Time
}

func NewForwarder(publisher Publisher, origin string, log *logger.Logger) *Forwarder {
	return &Forwarder{publisher: publisher, origin: origin, log: log, now: time.Now}
}

// Attach subscribes the forwarder to inv.
func (f *Forwarder) Attach(inv *cache.Invalidator) {
	inv.Subscribe(f.Forward)
}

// Forward publishes inv unless it came from another instance or only
// concerns this instance's session (a full clear on logout or expiry).
// Publishing failures are logged; the local invalidation already happened.
func (f *Forwarder) Forward(ctx context.Context, inv cache.Invalidation) {
	if inv.Remote || inv.All {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	e := NewEvent(inv, f.origin, f.now())
	if err := f.publisher.Publish(ctx, e); err != nil {
		f.log.Warn("Failed to publish invalidation", "mutation", e.Mutation, "entity_id", e.EntityID, "error", err)
		return
	}
	f.log.Debug("Invalidation published", "event_id", e.ID, "mutation", e.Mutation, "entity_id", e.EntityID)
}
