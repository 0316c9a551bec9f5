package memory

import (
	"context"
	"sort"

	"debatehub/internal/apperr"
	"debatehub/internal/models"
)

func (s *Store) CreateNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[n.UserID]; !ok {
		return apperr.NotFound("user")
	}
	n.ID = s.nextID()
	n.CreatedAt = s.stamp(n.CreatedAt)
	s.notifications[n.ID] = *n
	return nil
}

func (s *Store) ListNotifications(_ context.Context, userID uint, limit int) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			items = append(items, n)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return page(items, limit, 0), nil
}

func (s *Store) CountUnreadNotifications(_ context.Context, userID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *Store) GetNotification(_ context.Context, id uint) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, apperr.NotFound("notification")
	}
	return &n, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return apperr.NotFound("notification")
	}
	n.IsRead = true
	s.notifications[id] = n
	return nil
}

func (s *Store) MarkAllNotificationsRead(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			s.notifications[id] = n
		}
	}
	return nil
}

func (s *Store) DeleteNotification(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[id]; !ok {
		return apperr.NotFound("notification")
	}
	delete(s.notifications, id)
	return nil
}

func (s *Store) CreateMessage(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextID()
	m.CreatedAt = s.stamp(m.CreatedAt)
	s.messages[m.ID] = *m
	return nil
}

func (s *Store) GetMessage(_ context.Context, id uint) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, apperr.NotFound("message")
	}
	return &m, nil
}

func (s *Store) ListInbox(_ context.Context, userID uint, limit, offset int) ([]models.MessageView, error) {
	return s.listMessages(func(m models.Message) bool { return m.ReceiverID == userID }, limit, offset), nil
}

func (s *Store) ListSent(_ context.Context, userID uint, limit, offset int) ([]models.MessageView, error) {
	return s.listMessages(func(m models.Message) bool { return m.SenderID == userID }, limit, offset), nil
}

func (s *Store) listMessages(match func(models.Message) bool, limit, offset int) []models.MessageView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.MessageView, 0)
	for _, m := range s.messages {
		if !match(m) {
			continue
		}
		items = append(items, models.MessageView{
			Message:          m,
			SenderNickname:   s.nickname(m.SenderID),
			ReceiverNickname: s.nickname(m.ReceiverID),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return page(items, limit, offset)
}

func (s *Store) MarkMessageRead(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return apperr.NotFound("message")
	}
	m.IsRead = true
	s.messages[id] = m
	return nil
}

func (s *Store) CreateChatMessage(_ context.Context, m *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.debates[m.DebateID]; !ok {
		return apperr.NotFound("debate")
	}
	m.ID = s.nextID()
	m.CreatedAt = s.stamp(m.CreatedAt)
	s.chat[m.ID] = *m
	return nil
}

func (s *Store) RecentChatMessages(_ context.Context, debateID uint, limit int) ([]models.ChatMessageView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.ChatMessageView, 0)
	for _, m := range s.chat {
		if m.DebateID == debateID {
			items = append(items, models.ChatMessageView{ChatMessage: m, Nickname: s.nickname(m.UserID)})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return page(items, limit, 0), nil
}
