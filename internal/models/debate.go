package models

import (
	"time"
)

type DebateStatus string

const (
	DebateScheduled DebateStatus = "SCHEDULED"
	DebateActive    DebateStatus = "ACTIVE"
	DebateEnded     DebateStatus = "ENDED"
)

func (s DebateStatus) Valid() bool {
	switch s {
	case DebateScheduled, DebateActive, DebateEnded:
		return true
	}
	return false
}

type Debate struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	UserID     uint         `gorm:"not null;index" json:"user_id"`
	User       User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CategoryID uint         `gorm:"not null;index" json:"category_id"`
	Category   Category     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Title      string       `gorm:"size:255;not null" json:"title"`
	Content    string       `gorm:"type:text;not null" json:"content"`
	StartAt    time.Time    `gorm:"not null;index" json:"start_at"`
	EndAt      time.Time    `gorm:"not null;index" json:"end_at"`
	Status     DebateStatus `gorm:"type:varchar(16);not null;default:'SCHEDULED';index" json:"status"`
	IsHidden   bool         `gorm:"not null;default:false" json:"is_hidden"`
	ViewCount  int          `gorm:"not null;default:0" json:"view_count"`
	CreatedAt  time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// DebateStats holds the counters joined onto a debate for responses.
type DebateStats struct {
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"` // non-hidden comments
	SideACount   int64 `json:"side_a_count"`
	SideBCount   int64 `json:"side_b_count"`
}

// DebateView is the read-side composition of a debate and its counters.
type DebateView struct {
	Debate
	DebateStats
	Nickname     string `json:"nickname"`
	CategoryName string `json:"category_name"`
	ContentHTML  string `json:"content_html,omitempty"`
}

type DebateSort string

const (
	SortLatest   DebateSort = "latest"
	SortViews    DebateSort = "views"
	SortPopular  DebateSort = "popular"
	SortComments DebateSort = "comments"
)

// DebateFilter drives the public debate listing. Hidden debates are never listed.
type DebateFilter struct {
	Status     DebateStatus
	CategoryID uint
	Keyword    string
	Sort       DebateSort
	Limit      int
	Offset     int
}
