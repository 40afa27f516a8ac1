package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow is a directed edge: FollowerID follows FollowingID.
// The ordered pair must be unique and a user can never follow themselves.
// Hard-deleted for the same reason as Favorite.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follower_following" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follower_following" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Following User `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

// BeforeCreate rejects self-referencing edges. The service layer checks this
// before any mutation; the hook is a database-level backstop.
func (f *Follow) BeforeCreate(_ *gorm.DB) error {
	if f.FollowerID == f.FollowingID {
		return NewValidationError("You cannot follow yourself")
	}
	return nil
}
