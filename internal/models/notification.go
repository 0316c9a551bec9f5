package models

import (
	"time"
)

type NotificationType string

const (
	NotificationLike        NotificationType = "LIKE"
	NotificationComment     NotificationType = "COMMENT"
	NotificationReply       NotificationType = "REPLY"
	NotificationCommentLike NotificationType = "COMMENT_LIKE"
	NotificationOpinion     NotificationType = "OPINION"
	NotificationMessage     NotificationType = "MESSAGE"
)

type Notification struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UserID     uint             `gorm:"not null;index" json:"user_id"` // Receiver
	User       User             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Content    string           `gorm:"type:text;not null" json:"content"`
	Type       NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	RelatedURL string           `json:"related_url"`
	IsRead     bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt  time.Time        `json:"created_at"`
}
