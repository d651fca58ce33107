package model

type Stats struct {
	Users           int `json:"users"`
	ActiveAssets    int `json:"activeAssets"`
	PendingBookings int `json:"pendingBookings"`
}

type UserDashboardStats struct {
	TotalBookings     int `json:"total_bookings"`
	PendingBookings   int `json:"pending_bookings"`
	ActiveBookings    int `json:"active_bookings"`
	CompletedBookings int `json:"completed_bookings"`
}

type AdminDashboardStats struct {
	TotalUsers         int `json:"total_users"`
	ActiveAssets       int `json:"active_assets"`
	PendingRequests    int `json:"pending_requests"`
	AssetsInPossession int `json:"assets_in_possession"`
	CompletedRequests  int `json:"completed_requests"`
	TotalRequests      int `json:"total_requests"`
}
