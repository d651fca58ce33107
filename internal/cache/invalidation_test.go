package cache

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"assetshare/pkg/logger"
)

func seedAll(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	for _, p := range Partitions {
		_ = s.Set(ctx, For(p), []byte(`0`))
		_ = s.Set(ctx, ForID(p, 1), []byte(`1`))
		_ = s.Set(ctx, ForID(p, 2), []byte(`2`))
	}
}

func present(s Store, k Key) bool {
	_, err := s.Get(context.Background(), k)
	return err == nil
}

func TestInvalidator_TableIsComplete(t *testing.T) {
	want := []Mutation{
		CreateBooking, UpdateBookingStatus, CancelBooking, PayBooking, SubmitFeedback,
		CreateAsset, UpdateAsset, DeleteAsset, UpdateUserStatus, DeleteUser,
		UpdateProfile, Logout, Unauthorized,
	}
	for _, m := range want {
		if _, ok := TargetsFor(m); !ok {
			t.Errorf("mutation %s has no table entry", m)
		}
	}
	if len(Mutations()) != len(want) {
		t.Errorf("expected %d mutations, got %d", len(want), len(Mutations()))
	}

	reachable := map[Partition]bool{}
	for _, m := range Mutations() {
		targets, _ := TargetsFor(m)
		for _, tg := range targets {
			reachable[tg.Partition] = true
		}
	}
	for _, p := range Partitions {
		if !reachable[p] {
			t.Errorf("partition %s is never invalidated by a specific mutation", p)
		}
	}
}

func TestInvalidator_Apply(t *testing.T) {
	tests := []struct {
		mutation Mutation
		removed  []Partition // whole partition gone
		byID     []Partition // only entity 1 gone
	}{
		{CreateBooking, []Partition{Bookings, Assets, Asset, Stats, UserDashboard, AdminDashboard}, []Partition{Booking}},
		{UpdateBookingStatus, []Partition{Bookings, Assets, Asset, Stats, UserDashboard, AdminDashboard}, []Partition{Booking}},
		{CancelBooking, []Partition{Bookings, Assets, Asset, Stats, UserDashboard, AdminDashboard}, []Partition{Booking}},
		{PayBooking, []Partition{Bookings, UserDashboard, AdminDashboard}, []Partition{Booking}},
		{SubmitFeedback, []Partition{Bookings, Assets, Asset}, []Partition{Booking}},
		{CreateAsset, []Partition{Assets, Stats, AdminDashboard}, nil},
		{UpdateAsset, []Partition{Assets, Bookings, Booking, Stats, AdminDashboard}, []Partition{Asset}},
		{DeleteAsset, []Partition{Assets, Bookings, Booking, Stats, AdminDashboard}, []Partition{Asset}},
		{UpdateUserStatus, []Partition{Users, Stats, AdminDashboard}, []Partition{User}},
		{DeleteUser, []Partition{Users, Bookings, Booking, Stats, AdminDashboard}, []Partition{User}},
		{UpdateProfile, []Partition{CurrentUser, Users}, []Partition{User}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mutation), func(t *testing.T) {
			s := NewMemoryStore(time.Minute)
			defer s.Close()
			seedAll(t, s)

			inv := NewInvalidator(s, logger.Discard())
			if err := inv.Apply(context.Background(), tt.mutation, 1); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}

			for _, p := range Partitions {
				switch {
				case slices.Contains(tt.removed, p):
					if present(s, For(p)) || present(s, ForID(p, 1)) || present(s, ForID(p, 2)) {
						t.Errorf("partition %s should be fully removed", p)
					}
				case slices.Contains(tt.byID, p):
					if present(s, ForID(p, 1)) {
						t.Errorf("%s entry for the mutated entity should be removed", p)
					}
					if !present(s, ForID(p, 2)) || !present(s, For(p)) {
						t.Errorf("%s entries for other entities should survive", p)
					}
				default:
					if !present(s, For(p)) || !present(s, ForID(p, 1)) {
						t.Errorf("partition %s should be untouched", p)
					}
				}
			}
		})
	}
}

func TestInvalidator_ClearAll(t *testing.T) {
	for _, m := range []Mutation{Logout, Unauthorized} {
		s := NewMemoryStore(time.Minute)
		seedAll(t, s)

		var got Invalidation
		inv := NewInvalidator(s, logger.Discard())
		inv.Subscribe(func(ctx context.Context, i Invalidation) { got = i })

		_ = inv.Apply(context.Background(), m, 0)
		if s.Len() != 0 {
			t.Errorf("%s should clear the cache, len=%d", m, s.Len())
		}
		if !got.All || len(got.Partitions) != len(Partitions) {
			t.Errorf("%s notification should cover everything: %+v", m, got)
		}
		_ = s.Close()
	}
}

func TestInvalidator_NotifiesListeners(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()

	var calls []Invalidation
	inv := NewInvalidator(s, logger.Discard())
	inv.Subscribe(func(ctx context.Context, i Invalidation) { calls = append(calls, i) })

	_ = inv.Apply(context.Background(), PayBooking, 9)
	_ = inv.ApplyRemote(context.Background(), CreateAsset, 3)

	if len(calls) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(calls))
	}
	if calls[0].Remote || calls[0].EntityID != 9 || calls[0].Mutation != PayBooking {
		t.Errorf("unexpected local notification %+v", calls[0])
	}
	if !calls[1].Remote {
		t.Error("remote notification should be flagged")
	}
}

func TestInvalidator_UnknownMutation(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()
	inv := NewInvalidator(s, logger.Discard())
	if err := inv.Apply(context.Background(), Mutation("rename_asset"), 1); err == nil {
		t.Error("expected error for unknown mutation")
	}
}

type failingStore struct{ *MemoryStore }

func (f failingStore) DeletePartition(ctx context.Context, p Partition) error {
	return errors.New("store offline")
}

func TestInvalidator_ReportsStoreErrorsAfterNotifying(t *testing.T) {
	s := failingStore{NewMemoryStore(time.Minute)}
	defer s.Close()

	notified := false
	inv := NewInvalidator(s, logger.Discard())
	inv.Subscribe(func(ctx context.Context, i Invalidation) { notified = true })

	if err := inv.Apply(context.Background(), CreateAsset, 1); err == nil {
		t.Error("expected store error")
	}
	if !notified {
		t.Error("listeners should still be notified")
	}
}
