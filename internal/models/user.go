package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Nickname     string    `gorm:"uniqueIndex;size:50;not null" json:"nickname"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	ProfileImage string    `json:"profile_image"`
	Role         string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserProfile is the public profile with activity counters.
type UserProfile struct {
	User
	DebateCount       int64 `json:"debate_count"`
	CommentCount      int64 `json:"comment_count"`
	LikeCount         int64 `json:"like_count"`         // likes received on own debates
	ParticipatedCount int64 `json:"participated_count"` // debates with an opinion
	DaysSinceJoined   int   `json:"days_since_joined" gorm:"-"`
}
