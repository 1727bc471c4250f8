package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Nickname  *string    `json:"nickname,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Bio       *string    `gorm:"type:text" json:"bio,omitempty"`
	Interests []string   `gorm:"serializer:json" json:"interests,omitempty"`
	Role      Role       `gorm:"type:varchar(16);default:'user';not null;index" json:"role"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

func (User) TableName() string {
	return "users"
}

// DisplayName is the nickname, or the local part of the email when no nickname is set.
func (user *User) DisplayName() string {
	if user.Nickname != nil && *user.Nickname != "" {
		return *user.Nickname
	}
	for i := 0; i < len(user.Email); i++ {
		if user.Email[i] == '@' {
			return user.Email[:i]
		}
	}
	return user.Email
}
