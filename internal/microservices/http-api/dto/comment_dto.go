package dto

import (
	"time"

	"studytour/internal/microservices/http-api/models"
)

// CommentRequest is used for both creating and editing a comment.
type CommentRequest struct {
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

type CommentResponse struct {
	ID           string    `json:"id"`
	CampsiteID   string    `json:"campsite_id"`
	CampsiteName string    `json:"campsite_name,omitempty"`
	UserID       string    `json:"user_id"`
	Nickname     string    `json:"nickname,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Content      string    `json:"content"`
	Images       []string  `json:"images"`
	Likes        int       `json:"likes"`
	Dislikes     int       `json:"dislikes"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FromModelToCommentResponse converts a Comment model, with its preloaded
// author and campsite when present.
func FromModelToCommentResponse(c *models.Comment) CommentResponse {
	images := c.Images
	if images == nil {
		images = []string{}
	}
	resp := CommentResponse{
		ID:         c.ID,
		CampsiteID: c.CampsiteID,
		UserID:     c.UserID,
		Content:    c.Content,
		Images:     images,
		Likes:      c.Likes,
		Dislikes:   c.Dislikes,
		Status:     string(c.Status),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if c.User != nil {
		resp.Nickname = c.User.DisplayName()
		resp.AvatarURL = c.User.AvatarURL
	}
	if c.Campsite != nil {
		resp.CampsiteName = c.Campsite.Name
	}
	return resp
}

func FromModelsToCommentResponses(list []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModelToCommentResponse(&list[i]))
	}
	return out
}

type UpdateCommentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
