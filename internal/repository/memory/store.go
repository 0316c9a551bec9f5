// Package memory is an in-process implementation of every store the
// services and the scheduler use. It backs tests and database-less local runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"debatehub/internal/apperr"
	"debatehub/internal/models"
)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	seq uint

	users         map[uint]models.User
	categories    map[uint]models.Category
	debates       map[uint]models.Debate
	comments      map[uint]models.Comment
	commentLikes  map[uint]models.CommentLike
	likes         map[uint]models.Like
	opinions      map[uint]models.Opinion
	bookmarks     map[uint]models.Bookmark
	notifications map[uint]models.Notification
	messages      map[uint]models.Message
	chat          map[uint]models.ChatMessage

	transitionFailures map[uint]error
}

func NewStore() *Store {
	return &Store{
		now:                time.Now,
		users:              make(map[uint]models.User),
		categories:         make(map[uint]models.Category),
		debates:            make(map[uint]models.Debate),
		comments:           make(map[uint]models.Comment),
		commentLikes:       make(map[uint]models.CommentLike),
		likes:              make(map[uint]models.Like),
		opinions:           make(map[uint]models.Opinion),
		bookmarks:          make(map[uint]models.Bookmark),
		notifications:      make(map[uint]models.Notification),
		messages:           make(map[uint]models.Message),
		chat:               make(map[uint]models.ChatMessage),
		transitionFailures: make(map[uint]error),
	}
}

// SetClock replaces the clock used to stamp created rows.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailTransition makes TransitionDebate return err for the debate until
// cleared with a nil err.
func (s *Store) FailTransition(debateID uint, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.transitionFailures, debateID)
		return
	}
	s.transitionFailures[debateID] = err
}

func (s *Store) nextID() uint {
	s.seq++
	return s.seq
}

func (s *Store) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

// AddUser inserts a user, assigning an id when none is set.
func (s *Store) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID()
	} else if u.ID > s.seq {
		s.seq = u.ID
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.CreatedAt = s.stamp(u.CreatedAt)
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = u
	return u
}

func (s *Store) AddCategory(c models.Category) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.nextID()
	}
	c.CreatedAt = s.stamp(c.CreatedAt)
	c.UpdatedAt = c.CreatedAt
	s.categories[c.ID] = c
	return c
}

// AddLike, AddOpinion and AddCommentLike insert engagement rows as-is,
// keeping any CreatedAt the caller set. They do not check uniqueness.
func (s *Store) AddLike(l models.Like) models.Like {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.nextID()
	l.CreatedAt = s.stamp(l.CreatedAt)
	s.likes[l.ID] = l
	return l
}

func (s *Store) AddOpinion(o models.Opinion) models.Opinion {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = s.nextID()
	o.CreatedAt = s.stamp(o.CreatedAt)
	s.opinions[o.ID] = o
	return o
}

func (s *Store) AddCommentLike(l models.CommentLike) models.CommentLike {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.nextID()
	l.CreatedAt = s.stamp(l.CreatedAt)
	s.commentLikes[l.ID] = l
	if c, ok := s.comments[l.CommentID]; ok {
		c.LikeCount++
		s.comments[c.ID] = c
	}
	return l
}

func (s *Store) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) GetCategory(_ context.Context, id uint) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, apperr.NotFound("category")
	}
	return &c, nil
}

func (s *Store) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return &u, nil
}

func (s *Store) GetUserByNickname(_ context.Context, nickname string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nickname = strings.TrimSpace(nickname)
	for _, u := range s.users {
		if u.Nickname == nickname {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (s *Store) GetUserProfile(_ context.Context, id uint) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	p := &models.UserProfile{User: u}
	for _, d := range s.debates {
		if d.UserID == id {
			p.DebateCount++
		}
	}
	for _, c := range s.comments {
		if c.UserID == id && !c.IsDeleted {
			p.CommentCount++
		}
	}
	for _, l := range s.likes {
		if d, ok := s.debates[l.DebateID]; ok && d.UserID == id {
			p.LikeCount++
		}
	}
	for _, o := range s.opinions {
		if o.UserID == id {
			p.ParticipatedCount++
		}
	}
	return p, nil
}

func (s *Store) nickname(userID uint) string {
	return s.users[userID].Nickname
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return append([]T(nil), items[offset:end]...)
}
