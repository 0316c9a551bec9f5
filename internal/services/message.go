package services

import (
	"context"
	"fmt"
	"strings"

	"debatehub/internal/apperr"
	"debatehub/internal/models"
	"debatehub/internal/utils"
)

type MessageInput struct {
	Receiver string `json:"receiver" binding:"required"` // nickname
	Content  string `json:"content" binding:"required"`
}

type MessageService struct {
	messages MessageStore
	users    UserStore
	notifier Notifier
}

func NewMessageService(store Store, notifier Notifier) *MessageService {
	return &MessageService{messages: store, users: store, notifier: notifier}
}

func (s *MessageService) Send(ctx context.Context, senderID uint, in MessageInput) (*models.Message, error) {
	content := utils.SanitizeText(in.Content)
	if content == "" {
		return nil, apperr.InvalidState("content is required")
	}
	receiver, err := s.users.GetUserByNickname(ctx, strings.TrimSpace(in.Receiver))
	if err != nil {
		return nil, err
	}
	if receiver.ID == senderID {
		return nil, apperr.InvalidState("cannot send a message to yourself")
	}

	m := &models.Message{SenderID: senderID, ReceiverID: receiver.ID, Content: content}
	if err := s.messages.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	notifyOther(s.notifier, senderID, models.Notification{
		UserID:     receiver.ID,
		Type:       models.NotificationMessage,
		Content:    fmt.Sprintf("New message from %s", displayName(ctx, s.users, senderID)),
		RelatedURL: "/messages",
	})
	return m, nil
}

func (s *MessageService) Inbox(ctx context.Context, userID uint, limit, offset int) ([]models.MessageView, error) {
	limit, offset = ThreadPageSize.normalize(limit, offset)
	return s.messages.ListInbox(ctx, userID, limit, offset)
}

func (s *MessageService) Sent(ctx context.Context, userID uint, limit, offset int) ([]models.MessageView, error) {
	limit, offset = ThreadPageSize.normalize(limit, offset)
	return s.messages.ListSent(ctx, userID, limit, offset)
}

// MarkRead is allowed for the receiver only.
func (s *MessageService) MarkRead(ctx context.Context, userID, id uint) error {
	m, err := s.messages.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	if m.ReceiverID != userID {
		return apperr.Forbidden("only the receiver can mark a message read")
	}
	return s.messages.MarkMessageRead(ctx, id)
}
