package models

import (
	"time"
)

const (
	DeletedCommentNickname = "(deleted)"
	DeletedCommentContent  = "This comment has been deleted."
)

// Comment is a node in a debate's comment thread. Only one level of nesting
// exists: a reply's parent is always a top-level comment.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DebateID  uint      `gorm:"not null;index" json:"debate_id"`
	Debate    Debate    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentID  *uint     `gorm:"index" json:"parent_id"` // nil for top-level comments
	Parent    *Comment  `gorm:"constraint:OnUpdate:CASCADE;" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsHidden  bool      `gorm:"not null;default:false;index" json:"is_hidden"`
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"`
	LikeCount int       `gorm:"not null;default:0" json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CommentView is what clients see. Deleted comments never carry their
// original author or content.
type CommentView struct {
	ID        uint          `json:"id"`
	DebateID  uint          `json:"debate_id"`
	ParentID  *uint         `json:"parent_id"`
	UserID    *uint         `json:"user_id"`
	Nickname  string        `json:"nickname"`
	Content   string        `json:"content"`
	IsHidden  bool          `json:"is_hidden"`
	IsDeleted bool          `json:"is_deleted"`
	LikeCount int           `json:"like_count"`
	Liked     bool          `json:"liked"`
	Replies   []CommentView `json:"replies,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CommentFilter selects comments for listing. TopLevelOnly restricts to
// comments without a parent.
type CommentFilter struct {
	DebateID      uint
	TopLevelOnly  bool
	IncludeHidden bool
	Hidden        *bool
	Keyword       string
	Limit         int
	Offset        int
}

type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;index;uniqueIndex:idx_comment_like_user" json:"comment_id"`
	Comment   Comment   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_comment_like_user" json:"user_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// DeleteOutcome reports which delete policy was applied.
type DeleteOutcome string

const (
	HardDeleted DeleteOutcome = "hard_deleted"
	SoftDeleted DeleteOutcome = "soft_deleted"
)
