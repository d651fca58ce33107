package client

import "time"

// Marketplace bundles one client per resource over a shared pair of
// transports: a public one and one that carries the session token.
type Marketplace struct {
	Public *HttpClient
	Authed *HttpClient

	Auth     *AuthClient
	Assets   *AssetClient
	Bookings *BookingClient
	Users    *UserClient
	Stats    *StatsClient
	Uploads  *UploadClient
}

func NewMarketplace(baseURL string, timeout time.Duration, tokens TokenSource) *Marketplace {
	public := NewHttpClient(baseURL, timeout)
	authed := NewAuthHttpClient(baseURL, timeout, tokens)

	return &Marketplace{
		Public:   public,
		Authed:   authed,
		Auth:     NewAuthClient(public, authed),
		Assets:   NewAssetClient(public, authed),
		Bookings: NewBookingClient(authed),
		Users:    NewUserClient(authed),
		Stats:    NewStatsClient(authed),
		Uploads:  NewUploadClient(public),
	}
}
