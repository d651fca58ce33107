package model

import (
	"encoding/json"
	"time"
)

type BookingStatus string

const (
	StatusPending         BookingStatus = "pending"
	StatusAwaitingPayment BookingStatus = "awaiting_payment"
	StatusPaid            BookingStatus = "paid"
	StatusInPossession    BookingStatus = "in_possession"
	StatusReturned        BookingStatus = "returned"
	StatusOverdue         BookingStatus = "overdue"
	StatusCancelled       BookingStatus = "cancelled"
	StatusRejected        BookingStatus = "rejected"
)

var BookingStatuses = []BookingStatus{
	StatusPending,
	StatusAwaitingPayment,
	StatusPaid,
	StatusInPossession,
	StatusReturned,
	StatusOverdue,
	StatusCancelled,
	StatusRejected,
}

func (s BookingStatus) String() string {
	return string(s)
}

// Valid reports whether s belongs to the fixed booking status set.
func (s BookingStatus) Valid() bool {
	for _, known := range BookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type DateRange struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

type Booking struct {
	ID            int64          `json:"id"`
	ReferenceCode string         `json:"reference_code"`
	UserID        int64          `json:"user_id"`
	AssetID       int64          `json:"asset_id"`
	Dates         DateRange      `json:"dates"`
	Quantity      int            `json:"quantity"`
	Purpose       string         `json:"purpose"`
	Notes         *string        `json:"notes,omitempty"`
	PaymentStatus PaymentStatus  `json:"payment_status"`
	Status        BookingStatus  `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
	Audits        []BookingAudit `json:"audits,omitempty"`
	Payments      []Payment      `json:"payments,omitempty"`
	Feedback      *Feedback      `json:"feedback,omitempty"`
	User          *User          `json:"user,omitempty"`
	Asset         *Asset         `json:"asset,omitempty"`
}

type BookingAudit struct {
	ID            int64           `json:"id"`
	BookingID     int64           `json:"booking_id"`
	Action        string          `json:"action"`
	Details       json.RawMessage `json:"details,omitempty"`
	PerformedByID int64           `json:"performed_by_id"`
	Timestamp     time.Time       `json:"timestamp"`
}

type Payment struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	Reference string    `json:"reference"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

type Feedback struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	AssetID   int64     `json:"asset_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type BookingCreate struct {
	AssetID  int64     `json:"asset_id" validate:"required,gt=0"`
	Dates    DateRange `json:"dates" validate:"required"`
	Quantity int       `json:"quantity,omitempty" validate:"omitempty,min=1,max=10000"`
	Purpose  string    `json:"purpose" validate:"required,min=3,max=1000"`
	Notes    string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type StatusUpdate struct {
	Status BookingStatus `json:"status"`
}

type PaymentCreate struct {
	Amount string `json:"amount" validate:"required,decimal_amount"`
	Method string `json:"method" validate:"required,oneof=card transfer"`
}

type FeedbackCreate struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type Receipt struct {
	Content string `json:"content"`
}
