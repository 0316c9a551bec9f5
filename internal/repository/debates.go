package repository

import (
	"context"
	"strings"
	"time"

	"debatehub/internal/apperr"
	"debatehub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// debateViewColumns joins the counters a DebateView carries. Hidden
// comments are not counted.
const debateViewColumns = `debates.*,
	users.nickname AS nickname,
	categories.name AS category_name,
	(SELECT COUNT(*) FROM likes WHERE likes.debate_id = debates.id) AS like_count,
	(SELECT COUNT(*) FROM comments WHERE comments.debate_id = debates.id AND comments.is_hidden = false) AS comment_count,
	(SELECT COUNT(*) FROM opinions WHERE opinions.debate_id = debates.id AND opinions.side = 'A') AS side_a_count,
	(SELECT COUNT(*) FROM opinions WHERE opinions.debate_id = debates.id AND opinions.side = 'B') AS side_b_count`

var debateOrders = map[models.DebateSort]string{
	models.SortLatest:   "debates.created_at DESC, debates.id DESC",
	models.SortViews:    "debates.view_count DESC, debates.id DESC",
	models.SortPopular:  "like_count DESC, debates.id DESC",
	models.SortComments: "comment_count DESC, debates.id DESC",
}

func (s *Store) debateViews(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("debates").
		Select(debateViewColumns).
		Joins("LEFT JOIN users ON users.id = debates.user_id").
		Joins("LEFT JOIN categories ON categories.id = debates.category_id")
}

func (s *Store) CreateDebate(ctx context.Context, d *models.Debate) error {
	if d.Status == "" {
		d.Status = models.DebateScheduled
	}
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error, "category")
}

func (s *Store) GetDebate(ctx context.Context, id uint) (*models.Debate, error) {
	var d models.Debate
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, translate(err, "debate")
	}
	return &d, nil
}

func (s *Store) GetDebateView(ctx context.Context, id uint) (*models.DebateView, error) {
	var v models.DebateView
	res := s.debateViews(ctx).Where("debates.id = ?", id).Limit(1).Scan(&v)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("debate")
	}
	return &v, nil
}

func filterDebates(q *gorm.DB, f models.DebateFilter) *gorm.DB {
	q = q.Where("debates.is_hidden = ?", false)
	if f.Status != "" {
		q = q.Where("debates.status = ?", f.Status)
	}
	if f.CategoryID != 0 {
		q = q.Where("debates.category_id = ?", f.CategoryID)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("debates.title ILIKE ? OR debates.content ILIKE ?", like, like)
	}
	return q
}

func (s *Store) ListDebates(ctx context.Context, f models.DebateFilter) ([]models.DebateView, int64, error) {
	var total int64
	if err := filterDebates(s.db.WithContext(ctx).Table("debates"), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := debateOrders[f.Sort]
	if !ok {
		order = debateOrders[models.SortLatest]
	}
	var items []models.DebateView
	q := paginate(filterDebates(s.debateViews(ctx), f).Order(order), f.Limit, f.Offset)
	if err := q.Scan(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) IncrementViewCount(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Debate{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	return affected(res, "debate")
}

// UpdateScheduledDebate is a conditional write on status so an edit racing
// the activation tick loses cleanly.
func (s *Store) UpdateScheduledDebate(ctx context.Context, d *models.Debate) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Debate{}).
		Where("id = ? AND status = ?", d.ID, models.DebateScheduled).
		Updates(map[string]interface{}{
			"title":       d.Title,
			"content":     d.Content,
			"category_id": d.CategoryID,
			"start_at":    d.StartAt,
			"end_at":      d.EndAt,
		})
	if res.Error != nil {
		return false, translate(res.Error, "category")
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := s.db.WithContext(ctx).First(d, d.ID).Error; err != nil {
		return false, translate(err, "debate")
	}
	return true, nil
}

// DeleteScheduledDebate relies on ON DELETE CASCADE for dependent rows.
func (s *Store) DeleteScheduledDebate(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.DebateScheduled).
		Delete(&models.Debate{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) SetDebateHidden(ctx context.Context, id uint, hidden bool) error {
	res := s.db.WithContext(ctx).Model(&models.Debate{}).Where("id = ?", id).Update("is_hidden", hidden)
	return affected(res, "debate")
}

func (s *Store) DebatesToActivate(ctx context.Context, now time.Time) ([]models.Debate, error) {
	var items []models.Debate
	err := s.db.WithContext(ctx).
		Where("status = ? AND start_at <= ?", models.DebateScheduled, now).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (s *Store) DebatesToEnd(ctx context.Context, now time.Time) ([]models.Debate, error) {
	var items []models.Debate
	err := s.db.WithContext(ctx).
		Where("status = ? AND end_at <= ?", models.DebateActive, now).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// TransitionDebate moves a debate from one status to the next only if it is
// still in from. It reports whether the row changed.
func (s *Store) TransitionDebate(ctx context.Context, id uint, from, to models.DebateStatus) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Debate{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
