package lifecycle

import "assetshare/pkg/model"

type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepUpcoming  StepState = "upcoming"
)

type Emphasis string

const (
	EmphasisNormal  Emphasis = "normal"
	EmphasisWarning Emphasis = "warning"
)

type Step struct {
	Status model.BookingStatus `json:"status"`
	Label  string              `json:"label"`
	State  StepState           `json:"state"`
}

type Tracker struct {
	Visible  bool     `json:"visible"`
	Banner   string   `json:"banner,omitempty"`
	Index    int      `json:"index"`
	Percent  float64  `json:"percent"`
	Emphasis Emphasis `json:"emphasis"`
	Steps    []Step   `json:"steps,omitempty"`
}

var progressSteps = []struct {
	status model.BookingStatus
	label  string
}{
	{model.StatusPending, "Request Sent"},
	{model.StatusAwaitingPayment, "Approved"},
	{model.StatusPaid, "Paid"},
	{model.StatusInPossession, "Handover"},
	{model.StatusReturned, "Returned"},
}

var banners = map[model.BookingStatus]string{
	model.StatusCancelled: "This booking has been cancelled.",
	model.StatusRejected:  "This booking has been rejected.",
}

// ProgressIndex places status on the canonical path. The second result is
// false when the tracker must not be drawn. Overdue shares the handover step
// and unknown statuses fall back to the first step.
func ProgressIndex(status model.BookingStatus) (int, bool) {
	if _, suppressed := banners[status]; suppressed {
		return 0, false
	}
	if status == model.StatusOverdue {
		return indexOf(model.StatusInPossession), true
	}
	if i := indexOf(status); i >= 0 {
		return i, true
	}
	return 0, true
}

func Track(status model.BookingStatus) Tracker {
	idx, visible := ProgressIndex(status)
	if !visible {
		return Tracker{Banner: banners[status], Emphasis: EmphasisNormal}
	}

	t := Tracker{
		Visible:  true,
		Index:    idx,
		Percent:  float64(idx) / float64(len(progressSteps)-1) * 100,
		Emphasis: EmphasisNormal,
		Steps:    make([]Step, len(progressSteps)),
	}
	if status == model.StatusOverdue {
		t.Emphasis = EmphasisWarning
	}
	for i, s := range progressSteps {
		state := StepUpcoming
		switch {
		case i < idx:
			state = StepCompleted
		case i == idx:
			state = StepCurrent
		}
		t.Steps[i] = Step{Status: s.status, Label: s.label, State: state}
	}
	return t
}

func indexOf(status model.BookingStatus) int {
	for i, s := range progressSteps {
		if s.status == status {
			return i
		}
	}
	return -1
}
