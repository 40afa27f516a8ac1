package models

import (
	"time"

	"gorm.io/gorm"
)

// Tweet is a short text post owned by a single user.
type Tweet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Content   string         `gorm:"not null" json:"content"`
	Likes     int            `gorm:"not null;default:0" json:"likes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Replies []Reply `gorm:"foreignKey:TweetID" json:"replies,omitempty"`
}
