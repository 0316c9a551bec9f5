// Package repository is the PostgreSQL implementation of the service and
// scheduler stores, built on gorm.
package repository

import (
	"context"
	"errors"

	"debatehub/internal/apperr"
	"debatehub/internal/models"
	"debatehub/internal/scheduler"
	"debatehub/internal/services"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var (
	_ services.Store  = (*Store)(nil)
	_ scheduler.Store = (*Store)(nil)
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// translate maps driver errors onto apperr kinds. missing names the row a
// not-found or broken reference points at.
func translate(err error, missing string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(missing)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Conflict(pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return apperr.NotFound(missing)
		}
	}
	return err
}

// affected turns a zero-row write into a not-found error.
func affected(res *gorm.DB, missing string) error {
	if res.Error != nil {
		return translate(res.Error, missing)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(missing)
	}
	return nil
}

func paginate(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &c, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (s *Store) GetUserByNickname(ctx context.Context, nickname string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("nickname = ?", nickname).First(&u).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

const userProfileColumns = `users.*,
	(SELECT COUNT(*) FROM debates WHERE debates.user_id = users.id) AS debate_count,
	(SELECT COUNT(*) FROM comments WHERE comments.user_id = users.id AND comments.is_deleted = false) AS comment_count,
	(SELECT COUNT(*) FROM likes JOIN debates ON debates.id = likes.debate_id WHERE debates.user_id = users.id) AS like_count,
	(SELECT COUNT(*) FROM opinions WHERE opinions.user_id = users.id) AS participated_count`

func (s *Store) GetUserProfile(ctx context.Context, id uint) (*models.UserProfile, error) {
	var p models.UserProfile
	res := s.db.WithContext(ctx).Table("users").
		Select(userProfileColumns).
		Where("users.id = ?", id).
		Limit(1).
		Scan(&p)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("user")
	}
	return &p, nil
}
