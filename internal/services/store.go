package services

import (
	"context"
	"time"

	"debatehub/internal/models"
)

// The store interfaces below are implemented by internal/repository (gorm)
// and internal/repository/memory. Lookups return an error wrapping
// apperr.ErrNotFound for missing rows.

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
}

type DebateStore interface {
	CreateDebate(ctx context.Context, d *models.Debate) error
	GetDebate(ctx context.Context, id uint) (*models.Debate, error)
	// GetDebateView returns the debate joined with author, category and counters.
	GetDebateView(ctx context.Context, id uint) (*models.DebateView, error)
	ListDebates(ctx context.Context, f models.DebateFilter) ([]models.DebateView, int64, error)
	IncrementViewCount(ctx context.Context, id uint) error
	// UpdateScheduledDebate writes title, content, category and dates only
	// while the stored row is still SCHEDULED. It reports whether a row changed.
	UpdateScheduledDebate(ctx context.Context, d *models.Debate) (bool, error)
	DeleteScheduledDebate(ctx context.Context, id uint) (bool, error)
	SetDebateHidden(ctx context.Context, id uint, hidden bool) error
}

type CommentStore interface {
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id uint) (*models.Comment, error)
	UpdateCommentContent(ctx context.Context, id uint, content string) error
	// DeleteComment applies the tree delete policy atomically: a comment
	// without replies is removed with its likes; otherwise it is flagged
	// deleted, its likes are purged and its like count reset.
	DeleteComment(ctx context.Context, id uint) (models.DeleteOutcome, error)
	// ListComments returns matching comments with User loaded, oldest first.
	ListComments(ctx context.Context, f models.CommentFilter) ([]models.Comment, int64, error)
	ListReplies(ctx context.Context, parentIDs []uint, includeHidden bool) ([]models.Comment, error)
	LikedComments(ctx context.Context, userID uint, commentIDs []uint) (map[uint]bool, error)
	// ToggleCommentLike flips the (comment, user) like and keeps like_count in step.
	ToggleCommentLike(ctx context.Context, commentID, userID uint) (bool, error)
	SetCommentHidden(ctx context.Context, id uint, hidden bool) error
}

type LikeStore interface {
	ToggleDebateLike(ctx context.Context, debateID, userID uint) (bool, error)
	IsDebateLiked(ctx context.Context, debateID, userID uint) (bool, error)
}

type BookmarkStore interface {
	ToggleBookmark(ctx context.Context, debateID, userID uint) (bool, error)
	ListBookmarkedDebates(ctx context.Context, userID uint, limit, offset int) ([]models.DebateView, error)
}

type OpinionStore interface {
	// CreateOpinion fails with apperr.ErrConflict when the user already has
	// an opinion on the debate.
	CreateOpinion(ctx context.Context, o *models.Opinion) error
	ListOpinions(ctx context.Context, debateID uint) ([]models.OpinionView, error)
}

type RankingStore interface {
	// Leaderboard counts criterion events created in [since, until), grouped
	// by the user who received them, ordered by total desc then user id asc.
	Leaderboard(ctx context.Context, criterion models.RankingCriterion, since, until time.Time, limit int) ([]models.RankingRow, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID uint, limit int) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID uint) (int64, error)
	GetNotification(ctx context.Context, id uint) (*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id uint) error
	MarkAllNotificationsRead(ctx context.Context, userID uint) error
	DeleteNotification(ctx context.Context, id uint) error
}

type MessageStore interface {
	CreateMessage(ctx context.Context, m *models.Message) error
	GetMessage(ctx context.Context, id uint) (*models.Message, error)
	ListInbox(ctx context.Context, userID uint, limit, offset int) ([]models.MessageView, error)
	ListSent(ctx context.Context, userID uint, limit, offset int) ([]models.MessageView, error)
	MarkMessageRead(ctx context.Context, id uint) error
}

type ChatStore interface {
	CreateChatMessage(ctx context.Context, m *models.ChatMessage) error
	// RecentChatMessages returns up to limit messages, newest first.
	RecentChatMessages(ctx context.Context, debateID uint, limit int) ([]models.ChatMessageView, error)
}

type UserStore interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByNickname(ctx context.Context, nickname string) (*models.User, error)
	GetUserProfile(ctx context.Context, id uint) (*models.UserProfile, error)
}

// Store is everything the application needs from persistence.
type Store interface {
	CategoryStore
	DebateStore
	CommentStore
	LikeStore
	BookmarkStore
	OpinionStore
	RankingStore
	NotificationStore
	MessageStore
	ChatStore
	UserStore
}
