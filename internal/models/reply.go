package models

import "time"

// Reply is a short text response to a tweet. Replies are never deleted.
type Reply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TweetID   uint      `gorm:"not null;index" json:"tweet_id"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Tweet Tweet `gorm:"foreignKey:TweetID" json:"-"`
}
