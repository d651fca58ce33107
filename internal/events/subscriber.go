package events

import (
	"context"

	"assetshare/internal/cache"
	"assetshare/pkg/kafka"
	"assetshare/pkg/logger"
)

// Subscriber applies invalidations published by other instances.
type Subscriber struct {
	invalidator *cache.Invalidator
	origin      string
	log         *logger.Logger
}

func NewSubscriber(invalidator *cache.Invalidator, origin string, log *logger.Logger) *Subscriber {
	return &Subscriber{invalidator: invalidator, origin: origin, log: log}
}

// Handle is a kafka.MessageHandler.
func (s *Subscriber) Handle(ctx context.Context, msg kafka.Message) error {
	var e Event
	if err := msg.DecodeValue(&e); err != nil {
		return kafka.NewPermanentError("decode invalidation event", err)
	}
	if e.Origin == s.origin {
		return nil
	}
	if _, ok := cache.TargetsFor(e.Mutation); !ok {
		return kafka.NewPermanentError("unknown mutation "+string(e.Mutation), nil)
	}

	if err := s.invalidator.ApplyRemote(ctx, e.Mutation, e.EntityID); err != nil {
		return err
	}
	s.log.Debug("Remote invalidation applied", "event_id", e.ID, "origin", e.Origin, "mutation", e.Mutation, "entity_id", e.EntityID)
	return nil
}
