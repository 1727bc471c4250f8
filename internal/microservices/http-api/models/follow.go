package models

import "time"

// Follow is a directed edge follower -> following. The edge itself is the only state.
type Follow struct {
	FollowerID  string    `json:"follower_id" gorm:"primaryKey;type:uuid"`
	FollowingID string    `json:"following_id" gorm:"primaryKey;type:uuid;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	Follower  *User `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;"`
	Following *User `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE;"`
}

func (Follow) TableName() string {
	return "follows"
}
