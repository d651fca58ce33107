package lifecycle

import (
	"fmt"

	"assetshare/pkg/model"
)

type Tone string

const (
	ToneYellow  Tone = "yellow"
	ToneBlue    Tone = "blue"
	ToneEmerald Tone = "emerald"
	TonePurple  Tone = "purple"
	ToneGray    Tone = "gray"
	ToneRed     Tone = "red"
	ToneSlate   Tone = "slate"
	ToneNeutral Tone = "neutral"
)

type Badge struct {
	Status model.BookingStatus `json:"status"`
	Label  string              `json:"label"`
	Tone   Tone                `json:"tone"`
	Class  string              `json:"class"`
}

type badgeSpec struct {
	admin    string
	business string
	tone     Tone
}

var badges = map[model.BookingStatus]badgeSpec{
	model.StatusPending:         {admin: "Requested", business: "Pending", tone: ToneYellow},
	model.StatusAwaitingPayment: {admin: "Awaiting Payment", business: "Payment Pending", tone: ToneBlue},
	model.StatusPaid:            {admin: "Payment Completed", business: "Payment Completed", tone: ToneEmerald},
	model.StatusInPossession:    {admin: "Out of Possession", business: "In Possession", tone: TonePurple},
	model.StatusReturned:        {admin: "Returned", business: "Returned", tone: ToneGray},
	model.StatusOverdue:         {admin: "Due for Return", business: "Due for Return", tone: ToneRed},
	model.StatusCancelled:       {admin: "Cancelled", business: "Cancelled", tone: ToneSlate},
	model.StatusRejected:        {admin: "Rejected", business: "Rejected", tone: ToneRed},
}

// Display returns the badge for status as seen by role. It never fails:
// an unrecognized status is shown verbatim and unstyled, and any role other
// than admin sees the business labels.
func Display(status model.BookingStatus, role model.Role) Badge {
	entry, ok := badges[status]
	if !ok {
		return Badge{Status: status, Label: string(status), Tone: ToneNeutral}
	}

	label := entry.business
	if role == model.RoleAdmin {
		label = entry.admin
	}
	return Badge{Status: status, Label: label, Tone: entry.tone, Class: toneClass(entry.tone)}
}

// Catalog returns the badge of every known status for role, in lifecycle order.
func Catalog(role model.Role) []Badge {
	out := make([]Badge, 0, len(model.BookingStatuses))
	for _, s := range model.BookingStatuses {
		out = append(out, Display(s, role))
	}
	return out
}

func toneClass(t Tone) string {
	return fmt.Sprintf("bg-%[1]s-100 text-%[1]s-800 border-%[1]s-200", t)
}
