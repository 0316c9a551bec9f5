package models

import (
	"time"
)

type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// Opinion is a user's declared side on a debate; one per (debate, user).
type Opinion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DebateID  uint      `gorm:"not null;index;uniqueIndex:idx_opinion_debate_user" json:"debate_id"`
	Debate    Debate    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_opinion_debate_user" json:"user_id"`
	Side      Side      `gorm:"type:varchar(8);not null" json:"side"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Like is a debate like; one per (debate, user).
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DebateID  uint      `gorm:"not null;index;uniqueIndex:idx_like_debate_user" json:"debate_id"`
	Debate    Debate    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_like_debate_user" json:"user_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type OpinionView struct {
	Opinion
	Nickname string `json:"nickname"`
}
