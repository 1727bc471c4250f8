package dto

import (
	"time"

	"studytour/internal/microservices/http-api/models"
)

type CreateReportRequest struct {
	Reason string `json:"reason"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ReportResponse struct {
	ID               string    `json:"id"`
	ReporterID       string    `json:"reporter_id"`
	ReporterNickname string    `json:"reporter_nickname,omitempty"`
	CommentID        string    `json:"comment_id"`
	CommentContent   string    `json:"comment_content,omitempty"`
	Reason           string    `json:"reason"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func FromModelToReportResponse(r *models.Report) ReportResponse {
	resp := ReportResponse{
		ID:         r.ID,
		ReporterID: r.ReporterID,
		CommentID:  r.CommentID,
		Reason:     r.Reason,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.Reporter != nil {
		resp.ReporterNickname = r.Reporter.DisplayName()
	}
	if r.Comment != nil {
		resp.CommentContent = r.Comment.Content
	}
	return resp
}

type FollowStats struct {
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	IsFollowing bool  `json:"is_following"`
}

// UserSummary is the public view of a user, used in follower lists.
type UserSummary struct {
	ID        string  `json:"id"`
	Nickname  string  `json:"nickname"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

func FromModelToUserSummary(u *models.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Nickname:  u.DisplayName(),
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
	}
}

func FromModelsToUserSummaries(list []models.User) []UserSummary {
	out := make([]UserSummary, 0, len(list))
	for i := range list {
		out = append(out, FromModelToUserSummary(&list[i]))
	}
	return out
}
