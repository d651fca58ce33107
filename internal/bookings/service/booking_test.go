package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"assetshare/internal/bookings/validator"
	"assetshare/internal/cache"
	"assetshare/pkg/config"
	apperrors "assetshare/pkg/errors"
	"assetshare/pkg/lifecycle"
	"assetshare/pkg/logger"
	"assetshare/pkg/model"
	"assetshare/pkg/validation"
)

type mockBookingAPI struct {
	bookings     map[int64]*model.Booking
	listCalls    int
	getCalls     int
	cancelled    []int64
	statusCalls  []model.BookingStatus
	payments     []*model.PaymentCreate
	created      *model.BookingCreate
	feedbackSent *model.FeedbackCreate
}

func (m *mockBookingAPI) List(ctx context.Context) ([]model.Booking, error) {
	m.listCalls++
	out := make([]model.Booking, 0, len(m.bookings))
	for id := int64(1); id <= int64(len(m.bookings)); id++ {
		out = append(out, *m.bookings[id])
	}
	return out, nil
}

func (m *mockBookingAPI) Get(ctx context.Context, id int64) (*model.Booking, error) {
	m.getCalls++
	b, ok := m.bookings[id]
	if !ok {
		return nil, errors.New("missing fixture")
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingAPI) Create(ctx context.Context, booking *model.BookingCreate) (*model.Booking, error) {
	m.created = booking
	return &model.Booking{ID: 99, AssetID: booking.AssetID, Status: model.StatusPending}, nil
}

func (m *mockBookingAPI) Cancel(ctx context.Context, id int64) (*model.Booking, error) {
	m.cancelled = append(m.cancelled, id)
	return &model.Booking{ID: id, Status: model.StatusCancelled}, nil
}

func (m *mockBookingAPI) Pay(ctx context.Context, id int64, payment *model.PaymentCreate) (*model.Payment, error) {
	m.payments = append(m.payments, payment)
	return &model.Payment{ID: 1, BookingID: id, Amount: payment.Amount, Status: "success"}, nil
}

func (m *mockBookingAPI) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	m.statusCalls = append(m.statusCalls, status)
	return &model.Booking{ID: id, Status: status}, nil
}

func (m *mockBookingAPI) Receipt(ctx context.Context, id int64) (*model.Receipt, error) {
	return &model.Receipt{Content: "RECEIPT #1"}, nil
}

func (m *mockBookingAPI) Feedback(ctx context.Context, id int64, feedback *model.FeedbackCreate) (*model.Feedback, error) {
	m.feedbackSent = feedback
	return &model.Feedback{ID: 1, BookingID: id, Rating: feedback.Rating}, nil
}

type mockAssets struct {
	assets map[int64]*model.Asset
	calls  int
}

func (m *mockAssets) Get(ctx context.Context, id int64) (*model.Asset, error) {
	m.calls++
	a, ok := m.assets[id]
	if !ok {
		return nil, apperrors.NotFound("Asset")
	}
	return a, nil
}

func fixtures() *mockBookingAPI {
	company := "Green Acres"
	return &mockBookingAPI{bookings: map[int64]*model.Booking{
		1: {
			ID: 1, ReferenceCode: "BK-001", AssetID: 5, Quantity: 3, Status: model.StatusAwaitingPayment,
			Asset: &model.Asset{ID: 5, Name: "Tractor", Cost: "2500", Images: []string{"https://cdn.example.com/t.png"}},
			User:  &model.User{ID: 2, Email: "farmer@example.com", BusinessName: &company},
			Audits: []model.BookingAudit{
				{Action: lifecycle.AuditStatusUpdated, Details: []byte(`{"from":"pending","to":"awaiting_payment"}`)},
			},
		},
		2: {ID: 2, ReferenceCode: "BK-002", AssetID: 6, Quantity: 2, Status: model.StatusPending},
		3: {ID: 3, ReferenceCode: "BK-003", AssetID: 7, Quantity: 1, Status: model.StatusReturned},
	}}
}

type testEnv struct {
	svc    BookingService
	api    *mockBookingAPI
	assets *mockAssets
	store  *cache.MemoryStore
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.Discard()
	store := cache.NewMemoryStore(time.Minute)
	t.Cleanup(func() { store.Close() })

	api := fixtures()
	assets := &mockAssets{assets: map[int64]*model.Asset{6: {ID: 6, Name: "Irrigation pump", Cost: "1200.50"}}}
	clock := func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	v := validator.NewBookingValidator(validation.MustNew(), log).WithClock(clock)

	return &testEnv{
		svc:    NewBookingService(api, assets, store, cache.NewInvalidator(store, log), v, &config.Config{Log: log}),
		api:    api,
		assets: assets,
		store:  store,
	}
}

func appCode(err error) string {
	if err == nil {
		return ""
	}
	return apperrors.AsAppError(err).Code
}

func TestView_BusinessUserAwaitingPayment(t *testing.T) {
	env := newEnv(t)

	view, err := env.svc.View(context.Background(), 1, model.RoleBusinessUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.Badge.Label != "Payment Pending" {
		t.Errorf("unexpected badge %q", view.Badge.Label)
	}
	if !view.CanPay || !view.CanCancel {
		t.Errorf("expected pay and cancel, got pay=%v cancel=%v", view.CanPay, view.CanCancel)
	}
	if view.FeedbackPrompt {
		t.Error("feedback prompt must wait for the return")
	}
	if view.SuggestedAmount != "7500" || view.SuggestedAmountDisplay != "₦7,500" {
		t.Errorf("unexpected suggested amount %q / %q", view.SuggestedAmount, view.SuggestedAmountDisplay)
	}
	if view.CoverImage != "https://cdn.example.com/t.png" {
		t.Errorf("unexpected cover image %q", view.CoverImage)
	}
	if len(view.Timeline) != 1 || view.Timeline[0].Description == "" {
		t.Errorf("expected one described audit, got %+v", view.Timeline)
	}
}

func TestView_AdminPendingResolvesAsset(t *testing.T) {
	env := newEnv(t)

	view, err := env.svc.View(context.Background(), 2, model.RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Badge.Label != "Requested" {
		t.Errorf("unexpected badge %q", view.Badge.Label)
	}
	if view.CanPay || view.CanCancel {
		t.Error("admins neither pay nor cancel")
	}
	if !view.Panel.Has(lifecycle.ActionApprove) || view.Panel.Has(lifecycle.ActionReject) {
		t.Errorf("expected approve only among implemented controls, got %+v", view.Panel.Controls)
	}
	if env.assets.calls != 1 {
		t.Errorf("expected the asset to be looked up once, got %d", env.assets.calls)
	}
	if view.SuggestedAmount != "2401" {
		t.Errorf("unexpected suggested amount %q", view.SuggestedAmount)
	}
}

func TestView_ReturnedPromptsFeedback(t *testing.T) {
	env := newEnv(t)

	view, err := env.svc.View(context.Background(), 3, model.RoleBusinessUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.FeedbackPrompt {
		t.Error("expected feedback prompt on a returned booking")
	}
	if view.Panel.Notice != lifecycle.NoActionsNotice {
		t.Errorf("expected no-actions notice, got %q", view.Panel.Notice)
	}
	if view.SuggestedAmount != "" {
		t.Errorf("expected no suggested amount without an asset, got %q", view.SuggestedAmount)
	}
}

func TestPerform(t *testing.T) {
	tests := []struct {
		name       string
		status     model.BookingStatus
		action     lifecycle.Action
		role       model.Role
		wantCode   string
		wantStatus model.BookingStatus
		wantCancel bool
	}{
		{name: "admin approves", status: model.StatusPending, action: lifecycle.ActionApprove, role: model.RoleAdmin, wantStatus: model.StatusAwaitingPayment},
		{name: "admin confirms payment", status: model.StatusAwaitingPayment, action: lifecycle.ActionMarkPaymentReceived, role: model.RoleAdmin, wantStatus: model.StatusPaid},
		{name: "admin confirms handover", status: model.StatusPaid, action: lifecycle.ActionConfirmHandover, role: model.RoleAdmin, wantStatus: model.StatusInPossession},
		{name: "admin confirms overdue return", status: model.StatusOverdue, action: lifecycle.ActionConfirmReturn, role: model.RoleAdmin, wantStatus: model.StatusReturned},
		{name: "reject is not implemented", status: model.StatusPending, action: lifecycle.ActionReject, role: model.RoleAdmin, wantCode: apperrors.CodeNotImplemented},
		{name: "business user cannot approve", status: model.StatusPending, action: lifecycle.ActionApprove, role: model.RoleBusinessUser, wantCode: apperrors.CodeForbidden},
		{name: "unknown action", status: model.StatusPending, action: "archive", role: model.RoleAdmin, wantCode: apperrors.CodeInvalidInput},
		{name: "business user cancels pending", status: model.StatusPending, action: lifecycle.ActionCancel, role: model.RoleBusinessUser, wantCancel: true},
		{name: "business user cancels awaiting payment", status: model.StatusAwaitingPayment, action: lifecycle.ActionCancel, role: model.RoleBusinessUser, wantCancel: true},
		{name: "handover skipped payment", status: model.StatusPending, action: lifecycle.ActionConfirmHandover, role: model.RoleAdmin, wantCode: apperrors.CodeConflict},
		{name: "approve returned booking", status: model.StatusReturned, action: lifecycle.ActionApprove, role: model.RoleAdmin, wantCode: apperrors.CodeConflict},
		{name: "cancel returned booking", status: model.StatusReturned, action: lifecycle.ActionCancel, role: model.RoleBusinessUser, wantCode: apperrors.CodeConflict},
		{name: "cancel paid booking", status: model.StatusPaid, action: lifecycle.ActionCancel, role: model.RoleBusinessUser, wantCode: apperrors.CodeConflict},
		{name: "confirm return of cancelled booking", status: model.StatusCancelled, action: lifecycle.ActionConfirmReturn, role: model.RoleAdmin, wantCode: apperrors.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			env.api.bookings[2].Status = tt.status

			_, err := env.svc.Perform(context.Background(), 2, tt.action, tt.role)
			if code := appCode(err); code != tt.wantCode {
				t.Fatalf("expected code %q, got %q (%v)", tt.wantCode, code, err)
			}

			if tt.wantStatus != "" {
				if len(env.api.statusCalls) != 1 || env.api.statusCalls[0] != tt.wantStatus {
					t.Errorf("expected status update to %s, got %v", tt.wantStatus, env.api.statusCalls)
				}
			} else if len(env.api.statusCalls) != 0 {
				t.Errorf("unexpected status update %v", env.api.statusCalls)
			}
			if tt.wantCancel != (len(env.api.cancelled) == 1) {
				t.Errorf("unexpected cancel calls %v", env.api.cancelled)
			}
		})
	}
}

func TestPerform_TerminalStatusesSendNothing(t *testing.T) {
	for _, status := range []model.BookingStatus{model.StatusReturned, model.StatusCancelled, model.StatusRejected} {
		for _, tr := range lifecycle.Transitions() {
			if !tr.Implemented {
				continue
			}
			env := newEnv(t)
			env.api.bookings[2].Status = status

			if _, err := env.svc.Perform(context.Background(), 2, tr.Action, tr.Role); appCode(err) != apperrors.CodeConflict {
				t.Errorf("%s on %s: expected CONFLICT, got %v", tr.Action, status, err)
			}
			if len(env.api.statusCalls)+len(env.api.cancelled)+len(env.api.payments) != 0 {
				t.Errorf("%s on %s: nothing must reach the marketplace", tr.Action, status)
			}
		}
	}
}

func TestPerform_PayUsesSuggestedAmount(t *testing.T) {
	env := newEnv(t)

	if _, err := env.svc.Perform(context.Background(), 1, lifecycle.ActionPay, model.RoleBusinessUser); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.api.payments) != 1 || env.api.payments[0].Amount != "7500" {
		t.Errorf("unexpected payments %+v", env.api.payments)
	}
}

func TestPerform_InvalidatesBookingCaches(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	if _, err := env.svc.List(ctx, ListFilter{}, model.RoleAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.svc.Perform(ctx, 2, lifecycle.ActionApprove, model.RoleAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.svc.List(ctx, ListFilter{}, model.RoleAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.api.listCalls != 2 {
		t.Errorf("expected list to be refetched after approval, got %d calls", env.api.listCalls)
	}
}

func TestPay_Defaults(t *testing.T) {
	env := newEnv(t)

	if _, err := env.svc.Pay(context.Background(), 1, &model.PaymentCreate{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.api.payments) != 1 {
		t.Fatalf("expected one payment, got %d", len(env.api.payments))
	}
	p := env.api.payments[0]
	if p.Amount != "7500" || p.Method != DefaultPaymentMethod {
		t.Errorf("unexpected payment %+v", p)
	}
}

func TestPay_ExplicitAmountKept(t *testing.T) {
	env := newEnv(t)

	if _, err := env.svc.Pay(context.Background(), 1, &model.PaymentCreate{Amount: " 5000 ", Method: "Transfer"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := env.api.payments[0]
	if p.Amount != "5000" || p.Method != "transfer" {
		t.Errorf("unexpected payment %+v", p)
	}
	if env.assets.calls != 0 {
		t.Errorf("no asset lookup needed with an explicit amount, got %d", env.assets.calls)
	}
}

func TestPay_NoSuggestedAmount(t *testing.T) {
	env := newEnv(t)
	env.api.bookings[3].Status = model.StatusAwaitingPayment

	_, err := env.svc.Pay(context.Background(), 3, &model.PaymentCreate{})
	if code := appCode(err); code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION, got %q", code)
	}
	if len(env.api.payments) != 0 {
		t.Error("payment must not be sent")
	}
}

func TestPay_RequiresAwaitingPayment(t *testing.T) {
	for _, id := range []int64{2, 3} {
		env := newEnv(t)

		_, err := env.svc.Pay(context.Background(), id, &model.PaymentCreate{Amount: "100"})
		if code := appCode(err); code != apperrors.CodeConflict {
			t.Errorf("booking %d: expected CONFLICT, got %q", id, code)
		}
		if len(env.api.payments) != 0 {
			t.Errorf("booking %d: payment must not be sent", id)
		}
	}
}

func TestList_Filters(t *testing.T) {
	tests := []struct {
		name    string
		filter  ListFilter
		wantIDs []int64
	}{
		{name: "all", filter: ListFilter{}, wantIDs: []int64{1, 2, 3}},
		{name: "active group", filter: ListFilter{Group: lifecycle.GroupActive}, wantIDs: []int64{1}},
		{name: "completed group", filter: ListFilter{Group: lifecycle.GroupCompleted}, wantIDs: []int64{3}},
		{name: "status list", filter: ListFilter{Statuses: []model.BookingStatus{model.StatusPending, model.StatusReturned}}, wantIDs: []int64{2, 3}},
		{name: "search business name", filter: ListFilter{Search: "green"}, wantIDs: []int64{1}},
		{name: "search reference", filter: ListFilter{Search: "bk-002"}, wantIDs: []int64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			items, err := env.svc.List(context.Background(), tt.filter, model.RoleAdmin)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != len(tt.wantIDs) {
				t.Fatalf("expected %d items, got %d", len(tt.wantIDs), len(items))
			}
			for i, id := range tt.wantIDs {
				if items[i].Booking.ID != id {
					t.Errorf("item %d: expected booking %d, got %d", i, id, items[i].Booking.ID)
				}
				if items[i].Badge.Label == "" {
					t.Errorf("item %d: missing badge", i)
				}
			}
		})
	}
}

func TestList_UnknownGroup(t *testing.T) {
	env := newEnv(t)
	_, err := env.svc.List(context.Background(), ListFilter{Group: "archived"}, model.RoleAdmin)
	if code := appCode(err); code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %q", code)
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name     string
		dates    model.DateRange
		wantCode string
	}{
		{name: "valid", dates: model.DateRange{Start: "2025-03-12", End: "2025-03-14"}},
		{name: "same day", dates: model.DateRange{Start: "2025-03-10", End: "2025-03-10"}},
		{name: "end before start", dates: model.DateRange{Start: "2025-03-14", End: "2025-03-12"}, wantCode: apperrors.CodeValidation},
		{name: "start in the past", dates: model.DateRange{Start: "2025-03-01", End: "2025-03-04"}, wantCode: apperrors.CodeValidation},
		{name: "bad format", dates: model.DateRange{Start: "12/03/2025", End: "2025-03-14"}, wantCode: apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			_, err := env.svc.Create(context.Background(), &model.BookingCreate{
				AssetID: 5,
				Dates:   tt.dates,
				Purpose: "  dry season   planting ",
			})
			if code := appCode(err); code != tt.wantCode {
				t.Fatalf("expected code %q, got %q (%v)", tt.wantCode, code, err)
			}
			if tt.wantCode != "" {
				return
			}
			if env.api.created.Quantity != 1 {
				t.Errorf("expected quantity to default to 1, got %d", env.api.created.Quantity)
			}
			if env.api.created.Purpose != "dry season planting" {
				t.Errorf("expected normalized purpose, got %q", env.api.created.Purpose)
			}
		})
	}
}

func TestReceiptAndFeedback(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	name, content, err := env.svc.Receipt(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Receipt-1.txt" || content != "RECEIPT #1" {
		t.Errorf("unexpected receipt %q %q", name, content)
	}

	if _, err := env.svc.Feedback(ctx, 3, &model.FeedbackCreate{Rating: 6}); appCode(err) != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION for rating 6, got %v", err)
	}
	if _, err := env.svc.Feedback(ctx, 3, &model.FeedbackCreate{Rating: 5, Comment: " great  pump "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.api.feedbackSent.Comment != "great pump" {
		t.Errorf("expected normalized comment, got %q", env.api.feedbackSent.Comment)
	}
}

func TestStatuses(t *testing.T) {
	env := newEnv(t)
	table := env.svc.Statuses("")
	if table.Role != model.RoleBusinessUser {
		t.Errorf("expected business role by default, got %q", table.Role)
	}
	if len(table.Badges) != len(model.BookingStatuses) {
		t.Errorf("expected a badge per status, got %d", len(table.Badges))
	}
}
