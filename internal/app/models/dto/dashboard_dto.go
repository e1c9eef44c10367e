package dto

// DashboardStatsResponse represents the admin dashboard totals
type DashboardStatsResponse struct {
	TotalUsers             int64   `json:"totalUsers"`
	ActiveUsers            int64   `json:"activeUsers"`
	TotalBooks             int64   `json:"totalBooks"`
	TotalCopies            int64   `json:"totalCopies"`
	AvailableCopies        int64   `json:"availableCopies"`
	BorrowedCopies         int64   `json:"borrowedCopies"`
	ActiveBorrows          int64   `json:"activeBorrows"`
	OverdueBorrows         int64   `json:"overdueBorrows"`
	ActiveReservations     int64   `json:"activeReservations"`
	UnpaidFineTotal        float64 `json:"unpaidFineTotal"`
	PendingAccountRequests int64   `json:"pendingAccountRequests"`
}
