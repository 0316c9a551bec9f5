package memory

import (
	"context"
	"sort"
	"time"

	"debatehub/internal/apperr"
	"debatehub/internal/models"
)

func (s *Store) ToggleDebateLike(_ context.Context, debateID, userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.debates[debateID]; !ok {
		return false, apperr.NotFound("debate")
	}
	for id, l := range s.likes {
		if l.DebateID == debateID && l.UserID == userID {
			delete(s.likes, id)
			return false, nil
		}
	}
	id := s.nextID()
	s.likes[id] = models.Like{ID: id, DebateID: debateID, UserID: userID, CreatedAt: s.now()}
	return true, nil
}

func (s *Store) IsDebateLiked(_ context.Context, debateID, userID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.likes {
		if l.DebateID == debateID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ToggleBookmark(_ context.Context, debateID, userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.debates[debateID]; !ok {
		return false, apperr.NotFound("debate")
	}
	for id, b := range s.bookmarks {
		if b.DebateID == debateID && b.UserID == userID {
			delete(s.bookmarks, id)
			return false, nil
		}
	}
	id := s.nextID()
	s.bookmarks[id] = models.Bookmark{ID: id, DebateID: debateID, UserID: userID, CreatedAt: s.now()}
	return true, nil
}

func (s *Store) ListBookmarkedDebates(_ context.Context, userID uint, limit, offset int) ([]models.DebateView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	marks := make([]models.Bookmark, 0)
	for _, b := range s.bookmarks {
		if b.UserID == userID {
			marks = append(marks, b)
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].ID > marks[j].ID })

	items := make([]models.DebateView, 0, len(marks))
	for _, b := range marks {
		d, ok := s.debates[b.DebateID]
		if !ok || d.IsHidden {
			continue
		}
		items = append(items, s.view(d))
	}
	return page(items, limit, offset), nil
}

func (s *Store) CreateOpinion(_ context.Context, o *models.Opinion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.debates[o.DebateID]; !ok {
		return apperr.NotFound("debate")
	}
	for _, existing := range s.opinions {
		if existing.DebateID == o.DebateID && existing.UserID == o.UserID {
			return apperr.Conflict("opinion already submitted")
		}
	}
	o.ID = s.nextID()
	o.CreatedAt = s.stamp(o.CreatedAt)
	s.opinions[o.ID] = *o
	return nil
}

func (s *Store) ListOpinions(_ context.Context, debateID uint) ([]models.OpinionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.OpinionView, 0)
	for _, o := range s.opinions {
		if o.DebateID == debateID {
			items = append(items, models.OpinionView{Opinion: o, Nickname: s.nickname(o.UserID)})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// event is one counted row: who received it, on which debate, and when.
type event struct {
	owner    uint
	debateID uint
	at       time.Time
}

func (s *Store) events(criterion models.RankingCriterion) []event {
	var out []event
	switch criterion {
	case models.CriterionVotes:
		for _, o := range s.opinions {
			if d, ok := s.debates[o.DebateID]; ok {
				out = append(out, event{owner: d.UserID, debateID: d.ID, at: o.CreatedAt})
			}
		}
	case models.CriterionComments:
		for _, l := range s.commentLikes {
			if c, ok := s.comments[l.CommentID]; ok {
				out = append(out, event{owner: c.UserID, debateID: c.DebateID, at: l.CreatedAt})
			}
		}
	default:
		for _, l := range s.likes {
			if d, ok := s.debates[l.DebateID]; ok {
				out = append(out, event{owner: d.UserID, debateID: d.ID, at: l.CreatedAt})
			}
		}
	}
	return out
}

func (s *Store) Leaderboard(_ context.Context, criterion models.RankingCriterion, since, until time.Time, limit int) ([]models.RankingRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[uint]int64)
	debates := make(map[uint]map[uint]bool)
	for _, e := range s.events(criterion) {
		if e.at.Before(since) || !e.at.Before(until) {
			continue
		}
		u, ok := s.users[e.owner]
		if !ok {
			continue
		}
		totals[u.ID]++
		if debates[u.ID] == nil {
			debates[u.ID] = make(map[uint]bool)
		}
		debates[u.ID][e.debateID] = true
	}

	rows := make([]models.RankingRow, 0, len(totals))
	for userID, total := range totals {
		u := s.users[userID]
		rows = append(rows, models.RankingRow{
			UserID:       userID,
			Nickname:     u.Nickname,
			ProfileImage: u.ProfileImage,
			Total:        total,
			DebateCount:  int64(len(debates[userID])),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].UserID < rows[j].UserID
	})
	return page(rows, limit, 0), nil
}
