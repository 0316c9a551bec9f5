package repository

import (
	"context"
	"errors"

	"debatehub/internal/apperr"
	"debatehub/internal/models"

	"gorm.io/gorm/clause"
)

func (s *Store) ToggleDebateLike(ctx context.Context, debateID, userID uint) (bool, error) {
	res := s.db.WithContext(ctx).Where("debate_id = ? AND user_id = ?", debateID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	err := translate(s.db.WithContext(ctx).Omit(clause.Associations).
		Create(&models.Like{DebateID: debateID, UserID: userID}).Error, "debate")
	if err != nil && !errors.Is(err, apperr.ErrConflict) {
		return false, err
	}
	return true, nil
}

func (s *Store) IsDebateLiked(ctx context.Context, debateID, userID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("debate_id = ? AND user_id = ?", debateID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) ToggleBookmark(ctx context.Context, debateID, userID uint) (bool, error) {
	res := s.db.WithContext(ctx).Where("debate_id = ? AND user_id = ?", debateID, userID).Delete(&models.Bookmark{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	err := translate(s.db.WithContext(ctx).Omit(clause.Associations).
		Create(&models.Bookmark{DebateID: debateID, UserID: userID}).Error, "debate")
	if err != nil && !errors.Is(err, apperr.ErrConflict) {
		return false, err
	}
	return true, nil
}

func (s *Store) ListBookmarkedDebates(ctx context.Context, userID uint, limit, offset int) ([]models.DebateView, error) {
	var items []models.DebateView
	q := s.debateViews(ctx).
		Joins("JOIN bookmarks ON bookmarks.debate_id = debates.id AND bookmarks.user_id = ?", userID).
		Where("debates.is_hidden = ?", false).
		Order("bookmarks.id DESC")
	if err := paginate(q, limit, offset).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CreateOpinion(ctx context.Context, o *models.Opinion) error {
	err := translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error, "debate")
	if errors.Is(err, apperr.ErrConflict) {
		return apperr.Conflict("opinion already submitted")
	}
	return err
}

func (s *Store) ListOpinions(ctx context.Context, debateID uint) ([]models.OpinionView, error) {
	var items []models.OpinionView
	err := s.db.WithContext(ctx).Table("opinions").
		Select("opinions.*, users.nickname AS nickname").
		Joins("LEFT JOIN users ON users.id = opinions.user_id").
		Where("opinions.debate_id = ?", debateID).
		Order("opinions.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
