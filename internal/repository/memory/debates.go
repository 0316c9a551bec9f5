package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"debatehub/internal/apperr"
	"debatehub/internal/models"
)

func (s *Store) CreateDebate(_ context.Context, d *models.Debate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[d.CategoryID]; !ok {
		return apperr.NotFound("category")
	}
	d.ID = s.nextID()
	if d.Status == "" {
		d.Status = models.DebateScheduled
	}
	d.CreatedAt = s.stamp(d.CreatedAt)
	d.UpdatedAt = d.CreatedAt
	s.debates[d.ID] = *d
	return nil
}

func (s *Store) GetDebate(_ context.Context, id uint) (*models.Debate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.debates[id]
	if !ok {
		return nil, apperr.NotFound("debate")
	}
	return &d, nil
}

func (s *Store) GetDebateView(_ context.Context, id uint) (*models.DebateView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.debates[id]
	if !ok {
		return nil, apperr.NotFound("debate")
	}
	v := s.view(d)
	return &v, nil
}

func (s *Store) view(d models.Debate) models.DebateView {
	v := models.DebateView{
		Debate:       d,
		Nickname:     s.nickname(d.UserID),
		CategoryName: s.categories[d.CategoryID].Name,
	}
	for _, l := range s.likes {
		if l.DebateID == d.ID {
			v.LikeCount++
		}
	}
	for _, c := range s.comments {
		if c.DebateID == d.ID && !c.IsHidden {
			v.CommentCount++
		}
	}
	for _, o := range s.opinions {
		if o.DebateID != d.ID {
			continue
		}
		switch o.Side {
		case models.SideA:
			v.SideACount++
		case models.SideB:
			v.SideBCount++
		}
	}
	return v
}

func (s *Store) ListDebates(_ context.Context, f models.DebateFilter) ([]models.DebateView, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))
	items := make([]models.DebateView, 0)
	for _, d := range s.debates {
		if d.IsHidden {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.CategoryID != 0 && d.CategoryID != f.CategoryID {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(d.Title), keyword) &&
			!strings.Contains(strings.ToLower(d.Content), keyword) {
			continue
		}
		items = append(items, s.view(d))
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch f.Sort {
		case models.SortViews:
			if a.ViewCount != b.ViewCount {
				return a.ViewCount > b.ViewCount
			}
		case models.SortPopular:
			if a.LikeCount != b.LikeCount {
				return a.LikeCount > b.LikeCount
			}
		case models.SortComments:
			if a.CommentCount != b.CommentCount {
				return a.CommentCount > b.CommentCount
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID > b.ID
	})

	return page(items, f.Limit, f.Offset), int64(len(items)), nil
}

func (s *Store) IncrementViewCount(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.debates[id]
	if !ok {
		return apperr.NotFound("debate")
	}
	d.ViewCount++
	s.debates[id] = d
	return nil
}

func (s *Store) UpdateScheduledDebate(_ context.Context, d *models.Debate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.debates[d.ID]
	if !ok || cur.Status != models.DebateScheduled {
		return false, nil
	}
	cur.Title = d.Title
	cur.Content = d.Content
	cur.CategoryID = d.CategoryID
	cur.StartAt = d.StartAt
	cur.EndAt = d.EndAt
	cur.UpdatedAt = s.now()
	s.debates[d.ID] = cur
	*d = cur
	return true, nil
}

func (s *Store) DeleteScheduledDebate(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.debates[id]
	if !ok || cur.Status != models.DebateScheduled {
		return false, nil
	}
	delete(s.debates, id)
	for cid, c := range s.comments {
		if c.DebateID == id {
			s.deleteCommentLikes(cid)
			delete(s.comments, cid)
		}
	}
	for lid, l := range s.likes {
		if l.DebateID == id {
			delete(s.likes, lid)
		}
	}
	for bid, b := range s.bookmarks {
		if b.DebateID == id {
			delete(s.bookmarks, bid)
		}
	}
	for oid, o := range s.opinions {
		if o.DebateID == id {
			delete(s.opinions, oid)
		}
	}
	for mid, m := range s.chat {
		if m.DebateID == id {
			delete(s.chat, mid)
		}
	}
	return true, nil
}

func (s *Store) SetDebateHidden(_ context.Context, id uint, hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.debates[id]
	if !ok {
		return apperr.NotFound("debate")
	}
	d.IsHidden = hidden
	s.debates[id] = d
	return nil
}

func (s *Store) DebatesToActivate(_ context.Context, now time.Time) ([]models.Debate, error) {
	return s.due(models.DebateScheduled, now, func(d models.Debate) time.Time { return d.StartAt }), nil
}

func (s *Store) DebatesToEnd(_ context.Context, now time.Time) ([]models.Debate, error) {
	return s.due(models.DebateActive, now, func(d models.Debate) time.Time { return d.EndAt }), nil
}

func (s *Store) due(status models.DebateStatus, now time.Time, at func(models.Debate) time.Time) []models.Debate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Debate, 0)
	for _, d := range s.debates {
		if d.Status == status && !at(d).After(now) {
			items = append(items, d)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (s *Store) TransitionDebate(_ context.Context, id uint, from, to models.DebateStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transitionFailures[id]; err != nil {
		return false, err
	}
	d, ok := s.debates[id]
	if !ok || d.Status != from {
		return false, nil
	}
	d.Status = to
	d.UpdatedAt = s.now()
	s.debates[id] = d
	return true, nil
}
