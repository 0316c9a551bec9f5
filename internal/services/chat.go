package services

import (
	"context"
	"time"

	"debatehub/internal/apperr"
	"debatehub/internal/broadcast"
	"debatehub/internal/models"
	"debatehub/internal/utils"
)

const (
	defaultChatHistory = 50
	maxChatHistory     = 200
)

type ChatInput struct {
	Message string `json:"message" binding:"required,max=1000"`
}

// ChatService persists live chat lines and relays them, along with
// ephemeral join and leave events, through the hub.
type ChatService struct {
	chat    ChatStore
	debates DebateStore
	users   UserStore
	hub     *broadcast.Hub
}

func NewChatService(store Store, hub *broadcast.Hub) *ChatService {
	return &ChatService{chat: store, debates: store, users: store, hub: hub}
}

func (s *ChatService) openDebate(ctx context.Context, debateID uint) (*models.Debate, error) {
	d, err := s.debates.GetDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	if d.IsHidden {
		return nil, apperr.NotFound("debate")
	}
	return d, nil
}

// Send stores a chat line and publishes it. Chat is open only while the
// debate is ACTIVE.
func (s *ChatService) Send(ctx context.Context, debateID, userID uint, in ChatInput) (*models.ChatMessageView, error) {
	text := utils.SanitizeText(in.Message)
	if text == "" {
		return nil, apperr.InvalidState("message is required")
	}
	d, err := s.openDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DebateActive {
		return nil, apperr.InvalidState("chat is only open while the debate is active")
	}

	m := &models.ChatMessage{DebateID: debateID, UserID: userID, Message: text}
	if err := s.chat.CreateChatMessage(ctx, m); err != nil {
		return nil, err
	}
	v := &models.ChatMessageView{ChatMessage: *m, Nickname: displayName(ctx, s.users, userID)}
	s.hub.Publish(broadcast.Event{
		Type:      broadcast.EventChat,
		DebateID:  debateID,
		UserID:    userID,
		Nickname:  v.Nickname,
		Message:   text,
		MessageID: m.ID,
		CreatedAt: m.CreatedAt,
	})
	return v, nil
}

// Join announces a viewer entering the debate's chat. Nothing is stored.
func (s *ChatService) Join(ctx context.Context, debateID, userID uint) error {
	return s.presence(ctx, broadcast.EventJoin, debateID, userID)
}

// Leave announces a viewer leaving. Nothing is stored.
func (s *ChatService) Leave(ctx context.Context, debateID, userID uint) error {
	return s.presence(ctx, broadcast.EventLeave, debateID, userID)
}

func (s *ChatService) presence(ctx context.Context, t broadcast.EventType, debateID, userID uint) error {
	if _, err := s.openDebate(ctx, debateID); err != nil {
		return err
	}
	s.hub.Publish(broadcast.Event{
		Type:      t,
		DebateID:  debateID,
		UserID:    userID,
		Nickname:  displayName(ctx, s.users, userID),
		CreatedAt: time.Now(),
	})
	return nil
}

// Subscribe attaches a listener to the debate's live events.
func (s *ChatService) Subscribe(ctx context.Context, debateID uint) (<-chan broadcast.Event, func(), error) {
	if _, err := s.openDebate(ctx, debateID); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(debateID)
	return ch, cancel, nil
}

// Recent returns the latest chat lines, oldest first.
func (s *ChatService) Recent(ctx context.Context, debateID uint, limit int) ([]models.ChatMessageView, error) {
	if _, err := s.openDebate(ctx, debateID); err != nil {
		return nil, err
	}
	limit, _ = normalizePage(limit, 0, defaultChatHistory, maxChatHistory)
	items, err := s.chat.RecentChatMessages(ctx, debateID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}
