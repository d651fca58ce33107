package client

import (
	"context"
	"net/url"
	"strconv"

	"assetshare/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(authed *HttpClient) *BookingClient {
	return &BookingClient{httpClient: authed}
}

func bookingPath(id int64, suffix string) string {
	return "/bookings/" + url.PathEscape(strconv.FormatInt(id, 10)) + suffix
}

func (c *BookingClient) List(ctx context.Context) ([]model.Booking, error) {
	var out []model.Booking
	if err := c.httpClient.GET(ctx, "/bookings", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) Get(ctx context.Context, id int64) (*model.Booking, error) {
	var out model.Booking
	if err := c.httpClient.GET(ctx, bookingPath(id, ""), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BookingClient) Create(ctx context.Context, booking *model.BookingCreate) (*model.Booking, error) {
	var out model.Booking
	if err := c.httpClient.POST(ctx, "/bookings", booking, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BookingClient) Cancel(ctx context.Context, id int64) (*model.Booking, error) {
	var out model.Booking
	if err := c.httpClient.POST(ctx, bookingPath(id, "/cancel"), struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BookingClient) Pay(ctx context.Context, id int64, payment *model.PaymentCreate) (*model.Payment, error) {
	var out model.Payment
	if err := c.httpClient.POST(ctx, bookingPath(id, "/pay"), payment, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BookingClient) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	var out model.Booking
	body := model.StatusUpdate{Status: status}
	if err := c.httpClient.PATCH(ctx, bookingPath(id, "/status"), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BookingClient) Receipt(ctx context.Context, id int64) (*model.Receipt, error) {
	var out model.Receipt
	if err := c.httpClient.GET(ctx, bookingPath(id, "/receipt"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BookingClient) Feedback(ctx context.Context, id int64, feedback *model.FeedbackCreate) (*model.Feedback, error) {
	var out model.Feedback
	if err := c.httpClient.POST(ctx, bookingPath(id, "/feedback"), feedback, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
