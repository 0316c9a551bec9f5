package repository

import (
	"context"
	"errors"
	"strings"

	"debatehub/internal/apperr"
	"debatehub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error, "debate")
}

func (s *Store) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, "comment")
	}
	return &c, nil
}

func (s *Store) UpdateCommentContent(ctx context.Context, id uint, content string) error {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("content", content)
	return affected(res, "comment")
}

// DeleteComment locks the row so no reply can attach while the policy is
// decided; inserting a reply needs a key-share lock on its parent.
func (s *Store) DeleteComment(ctx context.Context, id uint) (models.DeleteOutcome, error) {
	var outcome models.DeleteOutcome
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Comment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error; err != nil {
			return translate(err, "comment")
		}

		var replies int64
		if err := tx.Model(&models.Comment{}).Where("parent_id = ?", id).Count(&replies).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}

		if replies == 0 {
			outcome = models.HardDeleted
			return tx.Delete(&models.Comment{}, id).Error
		}
		outcome = models.SoftDeleted
		return tx.Model(&models.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
			"is_deleted": true,
			"like_count": 0,
		}).Error
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

func filterComments(q *gorm.DB, f models.CommentFilter) *gorm.DB {
	if f.DebateID != 0 {
		q = q.Where("debate_id = ?", f.DebateID)
	}
	if f.TopLevelOnly {
		q = q.Where("parent_id IS NULL")
	}
	if f.Hidden != nil {
		q = q.Where("is_hidden = ?", *f.Hidden)
	} else if !f.IncludeHidden {
		q = q.Where("is_hidden = ?", false)
	}
	// Soft-deleted rows are not searchable by their old content.
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		q = q.Where("is_deleted = ? AND content ILIKE ?", false, "%"+kw+"%")
	}
	return q
}

func (s *Store) ListComments(ctx context.Context, f models.CommentFilter) ([]models.Comment, int64, error) {
	var total int64
	if err := filterComments(s.db.WithContext(ctx).Model(&models.Comment{}), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Comment
	q := filterComments(s.db.WithContext(ctx).Preload("User"), f).Order("created_at ASC, id ASC")
	if err := paginate(q, f.Limit, f.Offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) ListReplies(ctx context.Context, parentIDs []uint, includeHidden bool) ([]models.Comment, error) {
	if len(parentIDs) == 0 {
		return []models.Comment{}, nil
	}
	q := s.db.WithContext(ctx).Preload("User").Where("parent_id IN ?", parentIDs)
	if !includeHidden {
		q = q.Where("is_hidden = ?", false)
	}
	var items []models.Comment
	if err := q.Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) LikedComments(ctx context.Context, userID uint, commentIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	if userID == 0 || len(commentIDs) == 0 {
		return liked, nil
	}
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// ToggleCommentLike flips the like row and moves like_count with it in one
// transaction. Losing an insert race to the same user counts as liked.
func (s *Store) ToggleCommentLike(ctx context.Context, commentID, userID uint) (bool, error) {
	var liked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return tx.Model(&models.Comment{}).
				Where("id = ? AND like_count > 0", commentID).
				UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
		}

		like := models.CommentLike{CommentID: commentID, UserID: userID}
		if err := tx.Omit(clause.Associations).Create(&like).Error; err != nil {
			return translate(err, "comment")
		}
		liked = true
		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	if errors.Is(err, apperr.ErrConflict) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return liked, nil
}

func (s *Store) SetCommentHidden(ctx context.Context, id uint, hidden bool) error {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("is_hidden", hidden)
	return affected(res, "comment")
}
