package lifecycle

import (
	"slices"

	"assetshare/pkg/model"
)

type Action string

const (
	ActionApprove             Action = "approve"
	ActionReject              Action = "reject"
	ActionMarkPaymentReceived Action = "mark_payment_received"
	ActionConfirmHandover     Action = "confirm_handover"
	ActionConfirmReturn       Action = "confirm_return"
	ActionCancel              Action = "cancel"
	ActionPay                 Action = "pay"
)

// NoActionsNotice is shown in place of controls when nothing can be requested.
const NoActionsNotice = "No further actions available for this status."

// Transition is one user-facing action and the status change it requests.
// Implemented is false for actions the backend cannot perform yet; the
// dashboard renders them disabled.
type Transition struct {
	Action      Action                `json:"action"`
	From        []model.BookingStatus `json:"from"`
	To          model.BookingStatus   `json:"to"`
	Role        model.Role            `json:"role"`
	Label       string                `json:"label"`
	Implemented bool                  `json:"implemented"`
}

func (t Transition) appliesTo(status model.BookingStatus) bool {
	return slices.Contains(t.From, status)
}

var transitions = []Transition{
	{
		Action:      ActionApprove,
		From:        []model.BookingStatus{model.StatusPending},
		To:          model.StatusAwaitingPayment,
		Role:        model.RoleAdmin,
		Label:       "Approve Request",
		Implemented: true,
	},
	{
		Action: ActionReject,
		From:   []model.BookingStatus{model.StatusPending},
		To:     model.StatusRejected,
		Role:   model.RoleAdmin,
		Label:  "Reject Request",
	},
	{
		Action:      ActionMarkPaymentReceived,
		From:        []model.BookingStatus{model.StatusAwaitingPayment},
		To:          model.StatusPaid,
		Role:        model.RoleAdmin,
		Label:       "Mark Payment Received",
		Implemented: true,
	},
	{
		Action:      ActionConfirmHandover,
		From:        []model.BookingStatus{model.StatusPaid},
		To:          model.StatusInPossession,
		Role:        model.RoleAdmin,
		Label:       "Confirm Handover",
		Implemented: true,
	},
	{
		Action:      ActionConfirmReturn,
		From:        []model.BookingStatus{model.StatusInPossession, model.StatusOverdue},
		To:          model.StatusReturned,
		Role:        model.RoleAdmin,
		Label:       "Confirm Return",
		Implemented: true,
	},
	{
		Action:      ActionCancel,
		From:        []model.BookingStatus{model.StatusPending, model.StatusAwaitingPayment},
		To:          model.StatusCancelled,
		Role:        model.RoleBusinessUser,
		Label:       "Cancel Booking",
		Implemented: true,
	},
	{
		Action:      ActionPay,
		From:        []model.BookingStatus{model.StatusAwaitingPayment},
		To:          model.StatusPaid,
		Role:        model.RoleBusinessUser,
		Label:       "Pay Now",
		Implemented: true,
	},
}

var terminal = map[model.BookingStatus]bool{
	model.StatusReturned:  true,
	model.StatusCancelled: true,
	model.StatusRejected:  true,
}

type Panel struct {
	Status   model.BookingStatus `json:"status"`
	Role     model.Role          `json:"role"`
	Controls []Transition        `json:"controls"`
	Notice   string              `json:"notice,omitempty"`
}

// Actions returns the controls role may use for a booking in status.
func Actions(status model.BookingStatus, role model.Role) Panel {
	role = normalizeRole(role)
	p := Panel{Status: status, Role: role, Controls: []Transition{}}
	if !terminal[status] {
		for _, t := range transitions {
			if t.Role == role && t.appliesTo(status) {
				t.From = slices.Clone(t.From)
				p.Controls = append(p.Controls, t)
			}
		}
	}
	if len(p.Controls) == 0 {
		p.Notice = NoActionsNotice
	}
	return p
}

// Has reports whether the panel offers an implemented control for action.
func (p Panel) Has(action Action) bool {
	for _, c := range p.Controls {
		if c.Action == action && c.Implemented {
			return true
		}
	}
	return false
}

func Lookup(action Action) (Transition, bool) {
	for _, t := range transitions {
		if t.Action == action {
			return t, true
		}
	}
	return Transition{}, false
}

// Permits reports whether role may request a move from one status to another.
func Permits(from, to model.BookingStatus, role model.Role) bool {
	role = normalizeRole(role)
	for _, t := range transitions {
		if t.Role == role && t.To == to && t.appliesTo(from) {
			return true
		}
	}
	return false
}

// Transitions returns a copy of the full transition table.
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	for i, t := range transitions {
		t.From = slices.Clone(t.From)
		out[i] = t
	}
	return out
}

func IsTerminal(status model.BookingStatus) bool {
	return terminal[status]
}

// CanLeaveFeedback is true once the asset is back and no feedback exists yet.
func CanLeaveFeedback(status model.BookingStatus, hasFeedback bool) bool {
	return status == model.StatusReturned && !hasFeedback
}

func normalizeRole(role model.Role) model.Role {
	if role == model.RoleAdmin {
		return model.RoleAdmin
	}
	return model.RoleBusinessUser
}
