package dto

type DashboardStats struct {
	TotalCampsites int64 `json:"total_campsites"`
	TotalUsers     int64 `json:"total_users"`
	TotalComments  int64 `json:"total_comments"`
	TotalRatings   int64 `json:"total_ratings"`
	TotalReports   int64 `json:"total_reports"`
	PendingReports int64 `json:"pending_reports"`
}

// UpdateUserRequest needs at least one field set.
type UpdateUserRequest struct {
	Role     *string `json:"role"`
	Nickname *string `json:"nickname"`
}

type RecentActivity struct {
	Comments []CommentResponse `json:"comments"`
	Users    []UserResponse    `json:"users"`
}
