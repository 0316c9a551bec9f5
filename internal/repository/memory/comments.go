package memory

import (
	"context"
	"sort"
	"strings"

	"debatehub/internal/apperr"
	"debatehub/internal/models"
)

func (s *Store) CreateComment(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.debates[c.DebateID]; !ok {
		return apperr.NotFound("debate")
	}
	if c.ParentID != nil {
		if _, ok := s.comments[*c.ParentID]; !ok {
			return apperr.NotFound("parent comment")
		}
	}
	c.ID = s.nextID()
	c.CreatedAt = s.stamp(c.CreatedAt)
	c.UpdatedAt = c.CreatedAt
	s.comments[c.ID] = *c
	return nil
}

func (s *Store) GetComment(_ context.Context, id uint) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, apperr.NotFound("comment")
	}
	return &c, nil
}

func (s *Store) UpdateCommentContent(_ context.Context, id uint, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return apperr.NotFound("comment")
	}
	c.Content = content
	c.UpdatedAt = s.now()
	s.comments[id] = c
	return nil
}

func (s *Store) DeleteComment(_ context.Context, id uint) (models.DeleteOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return "", apperr.NotFound("comment")
	}

	replies := 0
	for _, r := range s.comments {
		if r.ParentID != nil && *r.ParentID == id {
			replies++
		}
	}

	s.deleteCommentLikes(id)
	if replies == 0 {
		delete(s.comments, id)
		return models.HardDeleted, nil
	}
	c.IsDeleted = true
	c.LikeCount = 0
	c.UpdatedAt = s.now()
	s.comments[id] = c
	return models.SoftDeleted, nil
}

func (s *Store) deleteCommentLikes(commentID uint) {
	for lid, l := range s.commentLikes {
		if l.CommentID == commentID {
			delete(s.commentLikes, lid)
		}
	}
}

func (s *Store) ListComments(_ context.Context, f models.CommentFilter) ([]models.Comment, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))
	items := make([]models.Comment, 0)
	for _, c := range s.comments {
		if f.DebateID != 0 && c.DebateID != f.DebateID {
			continue
		}
		if f.TopLevelOnly && c.ParentID != nil {
			continue
		}
		if f.Hidden != nil {
			if c.IsHidden != *f.Hidden {
				continue
			}
		} else if !f.IncludeHidden && c.IsHidden {
			continue
		}
		if keyword != "" && (c.IsDeleted || !strings.Contains(strings.ToLower(c.Content), keyword)) {
			continue
		}
		c.User = s.users[c.UserID]
		items = append(items, c)
	}
	sortComments(items)
	return page(items, f.Limit, f.Offset), int64(len(items)), nil
}

func (s *Store) ListReplies(_ context.Context, parentIDs []uint, includeHidden bool) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parents := make(map[uint]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	items := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.ParentID == nil || !parents[*c.ParentID] {
			continue
		}
		if c.IsHidden && !includeHidden {
			continue
		}
		c.User = s.users[c.UserID]
		items = append(items, c)
	}
	sortComments(items)
	return items, nil
}

func sortComments(items []models.Comment) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

func (s *Store) LikedComments(_ context.Context, userID uint, commentIDs []uint) (map[uint]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[uint]bool, len(commentIDs))
	for _, id := range commentIDs {
		wanted[id] = true
	}
	liked := make(map[uint]bool)
	for _, l := range s.commentLikes {
		if l.UserID == userID && wanted[l.CommentID] {
			liked[l.CommentID] = true
		}
	}
	return liked, nil
}

func (s *Store) ToggleCommentLike(_ context.Context, commentID, userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return false, apperr.NotFound("comment")
	}
	for lid, l := range s.commentLikes {
		if l.CommentID == commentID && l.UserID == userID {
			delete(s.commentLikes, lid)
			if c.LikeCount > 0 {
				c.LikeCount--
			}
			s.comments[commentID] = c
			return false, nil
		}
	}
	id := s.nextID()
	s.commentLikes[id] = models.CommentLike{ID: id, CommentID: commentID, UserID: userID, CreatedAt: s.now()}
	c.LikeCount++
	s.comments[commentID] = c
	return true, nil
}

func (s *Store) SetCommentHidden(_ context.Context, id uint, hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return apperr.NotFound("comment")
	}
	c.IsHidden = hidden
	s.comments[id] = c
	return nil
}
