package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategorySummer Category = "summer"
	CategoryWinter Category = "winter"
	CategoryStudy  Category = "study"
	CategoryOnline Category = "online"
)

// Categories lists every category in display order.
var Categories = []Category{CategorySummer, CategoryWinter, CategoryStudy, CategoryOnline}

func (c Category) Valid() bool {
	switch c {
	case CategorySummer, CategoryWinter, CategoryStudy, CategoryOnline:
		return true
	}
	return false
}

const (
	SourceManual  = "manual"
	SourceCrawler = "crawler"
)

type Campsite struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name         string    `json:"name" gorm:"not null"`
	URL          string    `json:"url" gorm:"uniqueIndex;not null"`
	Country      *string   `json:"country,omitempty" gorm:"index"`
	Category     Category  `json:"category" gorm:"type:varchar(16);default:'study';not null;index"`
	Description  *string   `json:"description,omitempty" gorm:"type:text"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	// AvgRating caches the mean overall score, NULL until the first rating.
	AvgRating *float64  `json:"avg_rating,omitempty" gorm:"index"`
	Source    string    `json:"source" gorm:"default:'manual';not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (c *Campsite) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Category == "" {
		c.Category = CategoryStudy
	}
	if c.Source == "" {
		c.Source = SourceManual
	}
	return
}

func (Campsite) TableName() string {
	return "campsites"
}
