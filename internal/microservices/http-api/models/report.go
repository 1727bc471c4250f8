package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReviewed ReportStatus = "reviewed"
	ReportRejected ReportStatus = "rejected"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportReviewed, ReportRejected:
		return true
	}
	return false
}

// Report flags a comment for moderation. Resolving a report leaves the
// comment's own status untouched.
type Report struct {
	ID         string       `json:"id" gorm:"primaryKey;type:uuid"`
	ReporterID string       `json:"reporter_id" gorm:"type:uuid;not null;index"`
	CommentID  string       `json:"comment_id" gorm:"type:uuid;not null;index"`
	Reason     string       `json:"reason" gorm:"not null;size:500"`
	Status     ReportStatus `json:"status" gorm:"type:varchar(16);default:'pending';not null;index"`
	CreatedAt  time.Time    `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Reporter *User    `json:"reporter,omitempty" gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE;"`
	Comment  *Comment `json:"comment,omitempty" gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE;"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = ReportPending
	}
	return
}

func (Report) TableName() string {
	return "reports"
}
