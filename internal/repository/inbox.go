package repository

import (
	"context"

	"debatehub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error, "user")
}

func (s *Store) ListNotifications(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	var items []models.Notification
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC")
	if err := paginate(q, limit, 0).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountUnreadNotifications(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (s *Store) GetNotification(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translate(err, "notification")
	}
	return &n, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true)
	return affected(res, "notification")
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (s *Store) DeleteNotification(ctx context.Context, id uint) error {
	return affected(s.db.WithContext(ctx).Delete(&models.Notification{}, id), "notification")
}

func (s *Store) CreateMessage(ctx context.Context, m *models.Message) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error, "user")
}

func (s *Store) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	var m models.Message
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, "message")
	}
	return &m, nil
}

func (s *Store) messageViews(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("messages").
		Select("messages.*, sender.nickname AS sender_nickname, receiver.nickname AS receiver_nickname").
		Joins("LEFT JOIN users sender ON sender.id = messages.sender_id").
		Joins("LEFT JOIN users receiver ON receiver.id = messages.receiver_id")
}

func (s *Store) ListInbox(ctx context.Context, userID uint, limit, offset int) ([]models.MessageView, error) {
	var items []models.MessageView
	q := s.messageViews(ctx).Where("messages.receiver_id = ?", userID).Order("messages.id DESC")
	if err := paginate(q, limit, offset).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListSent(ctx context.Context, userID uint, limit, offset int) ([]models.MessageView, error) {
	var items []models.MessageView
	q := s.messageViews(ctx).Where("messages.sender_id = ?", userID).Order("messages.id DESC")
	if err := paginate(q, limit, offset).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) MarkMessageRead(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update("is_read", true)
	return affected(res, "message")
}

func (s *Store) CreateChatMessage(ctx context.Context, m *models.ChatMessage) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error, "debate")
}

func (s *Store) RecentChatMessages(ctx context.Context, debateID uint, limit int) ([]models.ChatMessageView, error) {
	var items []models.ChatMessageView
	q := s.db.WithContext(ctx).Table("chat_messages").
		Select("chat_messages.*, users.nickname AS nickname").
		Joins("LEFT JOIN users ON users.id = chat_messages.user_id").
		Where("chat_messages.debate_id = ?", debateID).
		Order("chat_messages.id DESC")
	if err := paginate(q, limit, 0).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
