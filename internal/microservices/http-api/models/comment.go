package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentStatus string

const (
	CommentPublished CommentStatus = "published"
	CommentPending   CommentStatus = "pending"
	CommentHidden    CommentStatus = "hidden"
	CommentDeleted   CommentStatus = "deleted"
)

func (s CommentStatus) Valid() bool {
	switch s {
	case CommentPublished, CommentPending, CommentHidden, CommentDeleted:
		return true
	}
	return false
}

type Comment struct {
	ID         string        `json:"id" gorm:"primaryKey;type:uuid"`
	UserID     string        `json:"user_id" gorm:"type:uuid;not null;index"`
	CampsiteID string        `json:"campsite_id" gorm:"type:uuid;not null;index"`
	Content    string        `json:"content" gorm:"not null;type:text"`
	Images     []string      `json:"images,omitempty" gorm:"serializer:json"`
	Likes      int           `json:"likes" gorm:"not null;default:0"`
	Dislikes   int           `json:"dislikes" gorm:"not null;default:0"`
	Status     CommentStatus `json:"status" gorm:"type:varchar(16);default:'published';not null;index"`
	CreatedAt  time.Time     `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Campsite *Campsite `json:"campsite,omitempty" gorm:"foreignKey:CampsiteID;constraint:OnDelete:CASCADE;"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = CommentPublished
	}
	return
}

func (Comment) TableName() string {
	return "comments"
}
