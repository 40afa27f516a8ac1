package models

import "time"

// Favorite marks that a user favorited a tweet.
// The combination of UserID and TweetID must be unique. The edge is a pure
// presence/absence record, so it is hard-deleted: a soft delete would leave
// the unique index occupied and break re-favoriting.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_tweet" json:"-"`
	TweetID   uint      `gorm:"not null;uniqueIndex:idx_user_tweet" json:"tweet_id"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Tweet Tweet `gorm:"foreignKey:TweetID" json:"tweet,omitempty"`
}
