package dto

import (
	"time"

	"studytour/internal/microservices/http-api/models"
)

// CampsiteFilters are the listing filters as they arrive on the query string.
type CampsiteFilters struct {
	Search    string   `form:"search"`
	Country   string   `form:"country"`
	Category  string   `form:"category"`
	MinRating *float64 `form:"min_rating"`
}

// ListCampsitesQuery is bound from GET /api/campsites.
type ListCampsitesQuery struct {
	CampsiteFilters
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=12"`
}

type CreateCampsiteRequest struct {
	Name         string  `json:"name"`
	URL          string  `json:"url"`
	Country      *string `json:"country"`
	Category     string  `json:"category"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

// UpdateCampsiteRequest is a partial update; nil fields are left unchanged.
type UpdateCampsiteRequest struct {
	Name         *string `json:"name"`
	URL          *string `json:"url"`
	Country      *string `json:"country"`
	Category     *string `json:"category"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

type CampsiteResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Country      *string   `json:"country,omitempty"`
	Category     string    `json:"category"`
	Description  *string   `json:"description,omitempty"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	AvgRating    *float64  `json:"avg_rating"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromModelToCampsiteResponse(c *models.Campsite) CampsiteResponse {
	return CampsiteResponse{
		ID:           c.ID,
		Name:         c.Name,
		URL:          c.URL,
		Country:      c.Country,
		Category:     string(c.Category),
		Description:  c.Description,
		ThumbnailURL: c.ThumbnailURL,
		AvgRating:    c.AvgRating,
		Source:       c.Source,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func FromModelsToCampsiteResponses(list []models.Campsite) []CampsiteResponse {
	out := make([]CampsiteResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModelToCampsiteResponse(&list[i]))
	}
	return out
}
