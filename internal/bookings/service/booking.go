package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	bookingserrors "assetshare/internal/bookings/errors"
	"assetshare/internal/bookings/validator"
	"assetshare/internal/cache"
	"assetshare/pkg/client"
	"assetshare/pkg/config"
	apperrors "assetshare/pkg/errors"
	"assetshare/pkg/lifecycle"
	"assetshare/pkg/model"
	"assetshare/pkg/sanitizer"
	"assetshare/pkg/validation"
)

const DefaultPaymentMethod = "card"

type BookingService interface {
	List(ctx context.Context, filter ListFilter, role model.Role) ([]ListItem, error)
	Get(ctx context.Context, id int64) (*model.Booking, error)
	View(ctx context.Context, id int64, role model.Role) (*BookingView, error)
	Create(ctx context.Context, booking *model.BookingCreate) (*model.Booking, error)
	Perform(ctx context.Context, id int64, action lifecycle.Action, role model.Role) (*model.Booking, error)
	Pay(ctx context.Context, id int64, payment *model.PaymentCreate) (*model.Payment, error)
	Receipt(ctx context.Context, id int64) (filename string, content string, err error)
	Feedback(ctx context.Context, id int64, feedback *model.FeedbackCreate) (*model.Feedback, error)
	Statuses(role model.Role) StatusTable
}

type BookingAPI interface {
	List(ctx context.Context) ([]model.Booking, error)
	Get(ctx context.Context, id int64) (*model.Booking, error)
	Create(ctx context.Context, booking *model.BookingCreate) (*model.Booking, error)
	Cancel(ctx context.Context, id int64) (*model.Booking, error)
	Pay(ctx context.Context, id int64, payment *model.PaymentCreate) (*model.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error)
	Receipt(ctx context.Context, id int64) (*model.Receipt, error)
	Feedback(ctx context.Context, id int64, feedback *model.FeedbackCreate) (*model.Feedback, error)
}

// AssetLookup resolves the asset of a booking when the booking does not
// embed it.
type AssetLookup interface {
	Get(ctx context.Context, id int64) (*model.Asset, error)
}

type bookingService struct {
	api         BookingAPI
	assets      AssetLookup
	store       cache.Store
	invalidator *cache.Invalidator
	validator   *validator.BookingValidator
	cfg         *config.Config
}

func NewBookingService(
	api BookingAPI,
	assets AssetLookup,
	store cache.Store,
	invalidator *cache.Invalidator,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		api:         api,
		assets:      assets,
		store:       store,
		invalidator: invalidator,
		validator:   validator,
		cfg:         cfg,
	}
}

func (s *bookingService) List(ctx context.Context, filter ListFilter, role model.Role) ([]ListItem, error) {
	if !lifecycle.ValidGroup(filter.Group) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown booking group: %s", filter.Group))
	}

	bookings, err := cache.Fetch(ctx, s.store, s.cfg.Log, cache.For(cache.Bookings), s.api.List)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, client.ToAppError(err)
	}

	search := strings.ToLower(sanitizer.NormalizeText(filter.Search))
	items := make([]ListItem, 0, len(bookings))
	for _, b := range bookings {
		if !lifecycle.InGroup(b.Status, filter.Group) {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, b.Status) {
			continue
		}
		if search != "" && !matches(&b, search) {
			continue
		}
		items = append(items, ListItem{Booking: b, Badge: lifecycle.Display(b.Status, role)})
	}
	return items, nil
}

// matches compares search against the fields the booking list can be
// searched by: reference code, business name, email and asset name.
func matches(b *model.Booking, search string) bool {
	fields := []string{b.ReferenceCode}
	if b.User != nil {
		fields = append(fields, b.User.Email)
		if b.User.BusinessName != nil {
			fields = append(fields, *b.User.BusinessName)
		}
	}
	if b.Asset != nil {
		fields = append(fields, b.Asset.Name)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func (s *bookingService) Get(ctx context.Context, id int64) (*model.Booking, error) {
	booking, err := cache.Fetch(ctx, s.store, s.cfg.Log, cache.ForID(cache.Booking, id), func(ctx context.Context) (*model.Booking, error) {
		return s.api.Get(ctx, id)
	})
	if err != nil {
		return nil, client.ToAppError(err)
	}
	return booking, nil
}

func (s *bookingService) View(ctx context.Context, id int64, role model.Role) (*BookingView, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildView(booking, s.assetOf(ctx, booking), role), nil
}

// assetOf never fails the caller: a booking without a resolvable asset is
// shown without cover image and suggested amount.
func (s *bookingService) assetOf(ctx context.Context, b *model.Booking) *model.Asset {
	if b.Asset != nil {
		return b.Asset
	}
	if s.assets == nil || b.AssetID == 0 {
		return nil
	}
	asset, err := s.assets.Get(ctx, b.AssetID)
	if err != nil {
		s.cfg.Log.Warn("Failed to resolve booking asset", "booking_id", b.ID, "asset_id", b.AssetID, "error", err)
		return nil
	}
	return asset
}

func (s *bookingService) Create(ctx context.Context, booking *model.BookingCreate) (*model.Booking, error) {
	s.sanitize(booking)
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "asset_id", booking.AssetID, "error", err)
		return nil, validation.ToAppError(err)
	}

	created, err := s.api.Create(ctx, booking)
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "asset_id", booking.AssetID, "error", err)
		return nil, client.ToAppError(err)
	}

	s.invalidate(ctx, cache.CreateBooking, created.ID)
	s.cfg.Log.Info("Booking created successfully",
		"id", created.ID,
		"reference_code", created.ReferenceCode,
		"asset_id", created.AssetID,
		"start", created.Dates.Start,
		"end", created.Dates.End,
	)
	return created, nil
}

// Perform requests the status change behind a panel action. Only actions the
// panel offers for the booking's current status are sent upstream.
func (s *bookingService) Perform(ctx context.Context, id int64, action lifecycle.Action, role model.Role) (*model.Booking, error) {
	t, ok := lifecycle.Lookup(action)
	if !ok {
		return nil, toAppError(fmt.Errorf("%w: %s", bookingserrors.ErrUnknownAction, action))
	}
	if t.Role != role {
		return nil, toAppError(bookingserrors.ErrActionNotAllowed)
	}
	if !t.Implemented {
		s.cfg.Log.Info("Booking action requested but not supported", "id", id, "action", action)
		return nil, toAppError(bookingserrors.ErrNotImplemented)
	}

	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.Permits(booking.Status, t.To, role) {
		s.cfg.Log.Warn("Booking action rejected for current status", "id", id, "action", action, "status", booking.Status)
		return nil, toAppError(fmt.Errorf("%w: %s from %s", bookingserrors.ErrInvalidTransition, action, booking.Status))
	}

	switch action {
	case lifecycle.ActionPay:
		if _, err := s.Pay(ctx, id, &model.PaymentCreate{}); err != nil {
			return nil, err
		}
		return s.Get(ctx, id)

	case lifecycle.ActionCancel:
		cancelled, err := s.api.Cancel(ctx, id)
		if err != nil {
			s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
			return nil, client.ToAppError(err)
		}
		s.invalidate(ctx, cache.CancelBooking, id)
		s.cfg.Log.Info("Booking cancelled successfully", "id", id)
		return cancelled, nil

	default:
		updated, err := s.api.UpdateStatus(ctx, id, t.To)
		if err != nil {
			s.cfg.Log.Error("Failed to update booking status", "id", id, "action", action, "status", t.To, "error", err)
			return nil, client.ToAppError(err)
		}
		s.invalidate(ctx, cache.UpdateBookingStatus, id)
		s.cfg.Log.Info("Booking status updated successfully", "id", id, "action", action, "status", t.To)
		return updated, nil
	}
}

// Pay is only sent for a booking that is awaiting payment.
func (s *bookingService) Pay(ctx context.Context, id int64, payment *model.PaymentCreate) (*model.Payment, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.Permits(booking.Status, model.StatusPaid, model.RoleBusinessUser) {
		s.cfg.Log.Warn("Payment rejected for current status", "id", id, "status", booking.Status)
		return nil, toAppError(fmt.Errorf("%w: pay from %s", bookingserrors.ErrInvalidTransition, booking.Status))
	}

	if err := s.applyPaymentDefaults(ctx, booking, payment); err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePayment(payment); err != nil {
		return nil, validation.ToAppError(err)
	}

	paid, err := s.api.Pay(ctx, id, payment)
	if err != nil {
		s.cfg.Log.Error("Failed to pay booking", "id", id, "error", err)
		return nil, client.ToAppError(err)
	}

	s.invalidate(ctx, cache.PayBooking, id)
	s.cfg.Log.Info("Booking paid successfully", "id", id, "amount", payment.Amount, "method", payment.Method)
	return paid, nil
}

// applyPaymentDefaults fills the method with card and the amount with the
// booking's suggested amount.
func (s *bookingService) applyPaymentDefaults(ctx context.Context, booking *model.Booking, payment *model.PaymentCreate) error {
	payment.Method = strings.ToLower(strings.TrimSpace(payment.Method))
	if payment.Method == "" {
		payment.Method = DefaultPaymentMethod
	}

	payment.Amount = strings.TrimSpace(payment.Amount)
	if payment.Amount != "" {
		return nil
	}

	asset := s.assetOf(ctx, booking)
	if asset == nil {
		return toAppError(bookingserrors.ErrNoSuggestedAmount)
	}
	amount, err := lifecycle.SuggestedAmount(asset.Cost, booking.Quantity)
	if err != nil || !amount.IsPositive() {
		return toAppError(bookingserrors.ErrNoSuggestedAmount)
	}
	payment.Amount = amount.String()
	return nil
}

func (s *bookingService) Receipt(ctx context.Context, id int64) (string, string, error) {
	receipt, err := s.api.Receipt(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to fetch receipt", "id", id, "error", err)
		return "", "", client.ToAppError(err)
	}
	return fmt.Sprintf("Receipt-%d.txt", id), receipt.Content, nil
}

func (s *bookingService) Feedback(ctx context.Context, id int64, feedback *model.FeedbackCreate) (*model.Feedback, error) {
	feedback.Comment = sanitizer.NormalizeText(feedback.Comment)
	if err := s.validator.ValidateFeedback(feedback); err != nil {
		return nil, validation.ToAppError(err)
	}

	created, err := s.api.Feedback(ctx, id, feedback)
	if err != nil {
		s.cfg.Log.Error("Failed to submit feedback", "id", id, "error", err)
		return nil, client.ToAppError(err)
	}

	s.invalidate(ctx, cache.SubmitFeedback, id)
	s.cfg.Log.Info("Feedback submitted successfully", "id", id, "rating", feedback.Rating)
	return created, nil
}

func (s *bookingService) Statuses(role model.Role) StatusTable {
	if role != model.RoleAdmin {
		role = model.RoleBusinessUser
	}
	return StatusTable{
		Role:        role,
		Badges:      lifecycle.Catalog(role),
		Transitions: lifecycle.Transitions(),
		Notice:      lifecycle.NoActionsNotice,
	}
}

func (s *bookingService) invalidate(ctx context.Context, m cache.Mutation, id int64) {
	if err := s.invalidator.Apply(ctx, m, id); err != nil {
		s.cfg.Log.Warn("Cache invalidation incomplete", "mutation", m, "id", id, "error", err)
	}
}

func (s *bookingService) sanitize(booking *model.BookingCreate) {
	booking.Quantity = sanitizer.NormalizeQuantity(booking.Quantity)
	booking.Purpose = sanitizer.NormalizeText(booking.Purpose)
	booking.Notes = sanitizer.NormalizeText(booking.Notes)
	booking.Dates.Start = strings.TrimSpace(booking.Dates.Start)
	booking.Dates.End = strings.TrimSpace(booking.Dates.End)
}

func toAppError(err error) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotImplemented):
		return apperrors.NotImplemented("This action is not available yet").WithCause(err)
	case errors.Is(err, bookingserrors.ErrUnknownAction):
		return apperrors.InvalidInput("Unknown booking action").WithCause(err)
	case errors.Is(err, bookingserrors.ErrActionNotAllowed):
		return apperrors.Forbidden("This action is not available for your account").WithCause(err)
	case errors.Is(err, bookingserrors.ErrInvalidTransition):
		return apperrors.Conflict("This action is not available for the booking's current status").WithCause(err)
	case errors.Is(err, bookingserrors.ErrNoSuggestedAmount):
		return apperrors.Validation("Please enter the amount to pay", map[string]any{"amount": "amount is required"}).WithCause(err)
	}
	return apperrors.Internal("Unexpected booking error", err)
}
