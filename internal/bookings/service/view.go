package service

import (
	"time"

	"assetshare/pkg/lifecycle"
	"assetshare/pkg/model"
)

// BookingView is a booking with everything the detail page decides.
type BookingView struct {
	Booking        *model.Booking    `json:"booking"`
	Badge          lifecycle.Badge   `json:"badge"`
	Tracker        lifecycle.Tracker `json:"tracker"`
	Panel          lifecycle.Panel   `json:"panel"`
	CanPay         bool              `json:"can_pay"`
	CanCancel      bool              `json:"can_cancel"`
	FeedbackPrompt bool              `json:"feedback_prompt"`
	Timeline       []TimelineEntry   `json:"timeline"`
	CoverImage     string            `json:"cover_image,omitempty"`
	// SuggestedAmount is empty when the asset cost is unknown.
	SuggestedAmount        string `json:"suggested_amount,omitempty"`
	SuggestedAmountDisplay string `json:"suggested_amount_display,omitempty"`
}

type TimelineEntry struct {
	Action        string    `json:"action"`
	Description   string    `json:"description"`
	PerformedByID int64     `json:"performed_by_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// ListItem is one row of a booking list.
type ListItem struct {
	Booking model.Booking   `json:"booking"`
	Badge   lifecycle.Badge `json:"badge"`
}

type ListFilter struct {
	Group    lifecycle.Group
	Statuses []model.BookingStatus
	Search   string
}

// StatusTable is the display reference served to the dashboard.
type StatusTable struct {
	Role        model.Role             `json:"role"`
	Badges      []lifecycle.Badge      `json:"badges"`
	Transitions []lifecycle.Transition `json:"transitions"`
	Notice      string                 `json:"notice"`
}

func buildView(b *model.Booking, asset *model.Asset, role model.Role) *BookingView {
	panel := lifecycle.Actions(b.Status, role)
	view := &BookingView{
		Booking:   b,
		Badge:     lifecycle.Display(b.Status, role),
		Tracker:   lifecycle.Track(b.Status),
		Panel:     panel,
		CanPay:    panel.Has(lifecycle.ActionPay),
		CanCancel: panel.Has(lifecycle.ActionCancel),
		Timeline:  make([]TimelineEntry, 0, len(b.Audits)),
	}
	view.FeedbackPrompt = role != model.RoleAdmin && lifecycle.CanLeaveFeedback(b.Status, b.Feedback != nil)

	for _, a := range b.Audits {
		view.Timeline = append(view.Timeline, TimelineEntry{
			Action:        a.Action,
			Description:   lifecycle.DescribeAudit(a),
			PerformedByID: a.PerformedByID,
			Timestamp:     a.Timestamp,
		})
	}

	if asset != nil {
		view.CoverImage = asset.CoverImage()
		if amount, err := lifecycle.SuggestedAmount(asset.Cost, b.Quantity); err == nil {
			view.SuggestedAmount = amount.String()
			view.SuggestedAmountDisplay = lifecycle.FormatNaira(amount)
		}
	}
	return view
}
