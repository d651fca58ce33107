package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"assetshare/pkg/logger"
)

type Mutation string

const (
	CreateBooking       Mutation = "create_booking"
	UpdateBookingStatus Mutation = "update_booking_status"
	CancelBooking       Mutation = "cancel_booking"
	PayBooking          Mutation = "pay_booking"
	SubmitFeedback      Mutation = "submit_feedback"
	CreateAsset         Mutation = "create_asset"
	UpdateAsset         Mutation = "update_asset"
	DeleteAsset         Mutation = "delete_asset"
	UpdateUserStatus    Mutation = "update_user_status"
	DeleteUser          Mutation = "delete_user"
	UpdateProfile       Mutation = "update_profile"
	Logout              Mutation = "logout"
	Unauthorized        Mutation = "unauthorized"
)

// Target is one partition touched by a mutation. ByID limits the removal
// to the mutated entity's own key.
type Target struct {
	Partition Partition
	ByID      bool
}

func whole(p Partition) Target { return Target{Partition: p} }
func byID(p Partition) Target { return Target{Partition: p, ByID: true} }

var bookingLifecycle = []Target{
	whole(Bookings), byID(Booking), whole(Assets), whole(Asset),
	whole(Stats), whole(UserDashboard), whole(AdminDashboard),
}

var assetChange = []Target{
	whole(Assets), byID(Asset), whole(Bookings), whole(Booking),
	whole(Stats), whole(AdminDashboard),
}

// invalidations is the complete mutation table. A nil entry means the whole
// cache is dropped.
var invalidations = map[Mutation][]Target{
	CreateBooking:       bookingLifecycle,
	UpdateBookingStatus: bookingLifecycle,
	CancelBooking:       bookingLifecycle,
	PayBooking:          {whole(Bookings), byID(Booking), whole(UserDashboard), whole(AdminDashboard)},
	SubmitFeedback:      {whole(Bookings), byID(Booking), whole(Assets), whole(Asset)},
	CreateAsset:         {whole(Assets), whole(Stats), whole(AdminDashboard)},
	UpdateAsset:         assetChange,
	DeleteAsset:         assetChange,
	UpdateUserStatus:    {whole(Users), byID(User), whole(Stats), whole(AdminDashboard)},
	DeleteUser:          {whole(Users), byID(User), whole(Bookings), whole(Booking), whole(Stats), whole(AdminDashboard)},
	UpdateProfile:       {whole(CurrentUser), whole(Users), byID(User)},
	Logout:              nil,
	Unauthorized:        nil,
}

// Mutations lists every mutation with a table entry.
func Mutations() []Mutation {
	out := make([]Mutation, 0, len(invalidations))
	for m := range invalidations {
		out = append(out, m)
	}
	return out
}

// TargetsFor returns the table entry for m. The bool is false for an unknown
// mutation.
func TargetsFor(m Mutation) ([]Target, bool) {
	t, ok := invalidations[m]
	return append([]Target(nil), t...), ok
}

// Invalidation describes what a mutation removed from the cache.
type Invalidation struct {
	Mutation   Mutation
	EntityID   int64
	Partitions []Partition
	All        bool
	// Remote is set when the mutation happened on another gateway instance.
	Remote bool
}

type Listener func(ctx context.Context, inv Invalidation)

type Invalidator struct {
	store Store
	log   *logger.Logger

	mu        sync.RWMutex
	listeners []Listener
}

func NewInvalidator(store Store, log *logger.Logger) *Invalidator {
	return &Invalidator{store: store, log: log}
}

func (i *Invalidator) Subscribe(l Listener) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.listeners = append(i.listeners, l)
}

// Apply removes every key the mutation of entity id may have made stale,
// then notifies listeners. Removal errors are returned after listeners ran.
func (i *Invalidator) Apply(ctx context.Context, m Mutation, id int64) error {
	return i.apply(ctx, m, id, false)
}

// ApplyRemote handles a mutation reported by another instance.
func (i *Invalidator) ApplyRemote(ctx context.Context, m Mutation, id int64) error {
	return i.apply(ctx, m, id, true)
}

func (i *Invalidator) apply(ctx context.Context, m Mutation, id int64, remote bool) error {
	targets, ok := invalidations[m]
	if !ok {
		return fmt.Errorf("unknown mutation %q", m)
	}

	inv := Invalidation{Mutation: m, EntityID: id, Remote: remote}
	var errs []error

	if targets == nil {
		inv.All = true
		inv.Partitions = append([]Partition(nil), Partitions...)
		if err := i.store.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	} else {
		for _, t := range targets {
			inv.Partitions = append(inv.Partitions, t.Partition)
			var err error
			if t.ByID {
				if id > 0 {
					err = i.store.Delete(ctx, ForID(t.Partition, id))
				}
			} else {
				err = i.store.DeletePartition(ctx, t.Partition)
			}
			if err != nil {
				errs = append(errs, err)
			}
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		i.log.Error("Cache invalidation incomplete", "mutation", m, "entity_id", id, "error", err)
	} else {
		i.log.Debug("Cache invalidated", "mutation", m, "entity_id", id, "remote", remote, "partitions", inv.Partitions)
	}

	i.mu.RLock()
	listeners := append([]Listener(nil), i.listeners...)
	i.mu.RUnlock()
	for _, l := range listeners {
		l(ctx, inv)
	}

	return err
}
