package dto

import (
	"time"

	"studytour/internal/microservices/http-api/models"
)

// UpsertRatingRequest carries the four score dimensions. Only overall is required.
type UpsertRatingRequest struct {
	ScoreOverall  *int `json:"score_overall"`
	ScoreQuality  *int `json:"score_quality"`
	ScoreFacility *int `json:"score_facility"`
	ScoreSafety   *int `json:"score_safety"`
}

type RatingResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Nickname      string    `json:"nickname,omitempty"`
	CampsiteID    string    `json:"campsite_id"`
	ScoreOverall  *int      `json:"score_overall"`
	ScoreQuality  *int      `json:"score_quality,omitempty"`
	ScoreFacility *int      `json:"score_facility,omitempty"`
	ScoreSafety   *int      `json:"score_safety,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromModelToRatingResponse(r *models.Rating) RatingResponse {
	resp := RatingResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		CampsiteID:    r.CampsiteID,
		ScoreOverall:  r.ScoreOverall,
		ScoreQuality:  r.ScoreQuality,
		ScoreFacility: r.ScoreFacility,
		ScoreSafety:   r.ScoreSafety,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.User != nil {
		resp.Nickname = r.User.DisplayName()
	}
	return resp
}

// RatingSummary is the aggregate view of every rating of one campsite.
// Averages are 0 when no rating carries that dimension; TotalRatings
// distinguishes "no ratings" from a real score.
type RatingSummary struct {
	AverageOverall  float64     `json:"average_overall"`
	AverageQuality  float64     `json:"average_quality"`
	AverageFacility float64     `json:"average_facility"`
	AverageSafety   float64     `json:"average_safety"`
	TotalRatings    int         `json:"total_ratings"`
	Distribution    map[int]int `json:"distribution"`
}
