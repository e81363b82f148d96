package dto

// DashboardStatsResponse is the admin-facing platform snapshot. Revenue
// is the sum of coin purchases; active_users_today counts users with at
// least one transaction since local midnight.
type DashboardStatsResponse struct {
	TotalUsers         int64                 `json:"total_users"`
	TotalNovels        int64                 `json:"total_novels"`
	TotalChapters      int64                 `json:"total_chapters"`
	TotalRevenue       float64               `json:"total_revenue"`
	ActiveUsersToday   int64                 `json:"active_users_today"`
	NewUsersToday      int64                 `json:"new_users_today"`
	PopularNovels      []NovelResponse       `json:"popular_novels"`
	RecentTransactions []TransactionResponse `json:"recent_transactions"`
}

// AuthorStatsResponse summarizes a single author's output and earnings.
type AuthorStatsResponse struct {
	TotalNovels    int64                 `json:"total_novels"`
	TotalViews     int64                 `json:"total_views"`
	TotalEarnings  float64               `json:"total_earnings"`
	Novels         []NovelResponse       `json:"novels"`
	RecentEarnings []TransactionResponse `json:"recent_earnings"`
}
