package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating holds one user's scores for one campsite. The (user_id, campsite_id)
// unique index is the conflict target of the upsert.
type Rating struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID        string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_campsite"`
	CampsiteID    string    `json:"campsite_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_campsite;index"`
	ScoreOverall  *int      `json:"score_overall" gorm:"check:score_overall BETWEEN 1 AND 5"`
	ScoreQuality  *int      `json:"score_quality,omitempty" gorm:"check:score_quality BETWEEN 1 AND 5"`
	ScoreFacility *int      `json:"score_facility,omitempty" gorm:"check:score_facility BETWEEN 1 AND 5"`
	ScoreSafety   *int      `json:"score_safety,omitempty" gorm:"check:score_safety BETWEEN 1 AND 5"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Campsite *Campsite `json:"-" gorm:"foreignKey:CampsiteID;constraint:OnDelete:CASCADE;"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (Rating) TableName() string {
	return "ratings"
}
