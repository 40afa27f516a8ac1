// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	FirstName string         `gorm:"not null" json:"firstName"`
	LastName  string         `gorm:"not null" json:"lastName"`
	UserName  string         `gorm:"uniqueIndex;not null" json:"userName"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Bio       string         `json:"bio"`
	Birthdate *time.Time     `json:"birthdate,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Tweets    []Tweet        `gorm:"foreignKey:UserID" json:"tweets,omitempty"`
}

// Profile is the client-facing view of a user. It never carries the
// database ID or the password digest.
type Profile struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	UserName  string     `json:"userName"`
	Email     string     `json:"email"`
	Bio       string     `json:"bio"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// PublicProfile is the restricted view served to unauthenticated callers.
type PublicProfile struct {
	UserName string `json:"userName"`
	Bio      string `json:"bio"`
}

// Profile returns the full client-facing view of the user.
func (u *User) Profile() Profile {
	return Profile{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserName:  u.UserName,
		Email:     u.Email,
		Bio:       u.Bio,
		Birthdate: u.Birthdate,
		CreatedAt: u.CreatedAt,
	}
}

// PublicProfile returns the restricted view of the user.
func (u *User) PublicProfile() PublicProfile {
	return PublicProfile{UserName: u.UserName, Bio: u.Bio}
}
