package lifecycle

import (
	"slices"

	"assetshare/pkg/model"
)

// Group is a tab of the business user's booking list.
type Group string

const (
	GroupAll       Group = "all"
	GroupPending   Group = "pending"
	GroupActive    Group = "active"
	GroupCompleted Group = "completed"
	GroupCancelled Group = "cancelled"
)

var groups = map[Group][]model.BookingStatus{
	GroupPending:   {model.StatusPending},
	GroupActive:    {model.StatusAwaitingPayment, model.StatusPaid, model.StatusInPossession, model.StatusOverdue},
	GroupCompleted: {model.StatusReturned},
	GroupCancelled: {model.StatusCancelled, model.StatusRejected},
}

// InGroup reports whether status belongs to g. GroupAll and the empty group
// hold every status; an unknown group holds none.
func InGroup(status model.BookingStatus, g Group) bool {
	if g == "" || g == GroupAll {
		return true
	}
	return slices.Contains(groups[g], status)
}

func ValidGroup(g Group) bool {
	_, ok := groups[g]
	return ok || g == "" || g == GroupAll
}
