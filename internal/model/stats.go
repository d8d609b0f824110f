package model

// AdminStats is the dashboard summary across every account. Each ByStatus
// map holds one entry per stored status value, so its values always sum to
// the matching total.
type AdminStats struct {
	TotalUsers       int64            `json:"totalUsers"`
	TotalOrders      int64            `json:"totalOrders"`
	TotalQuotes      int64            `json:"totalQuotes"`
	TotalContacts    int64            `json:"totalContacts"`
	UnreadMessages   int64            `json:"unreadMessages"`
	TotalRevenue     float64          `json:"totalRevenue"`
	PendingRevenue   float64          `json:"pendingRevenue"`
	OrdersByStatus   map[string]int64 `json:"ordersByStatus"`
	QuotesByStatus   map[string]int64 `json:"quotesByStatus"`
	ContactsByStatus map[string]int64 `json:"contactsByStatus"`
}

// UserStats is the member dashboard summary.
type UserStats struct {
	TotalOrders      int64   `json:"totalOrders"`
	CompletedOrders  int64   `json:"completedOrders"`
	PendingOrders    int64   `json:"pendingOrders"`
	InProgressOrders int64   `json:"inProgressOrders"`
	CancelledOrders  int64   `json:"cancelledOrders"`
	TotalSpent       float64 `json:"totalSpent"`
	UnreadMessages   int64   `json:"unreadMessages"`
}
