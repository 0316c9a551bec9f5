package models

import (
	"time"
)

// Bookmark is a user saving a debate for later.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_bookmark_user_debate" json:"user_id"`
	DebateID  uint      `gorm:"not null;index;uniqueIndex:idx_bookmark_user_debate" json:"debate_id"`
	Debate    Debate    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
