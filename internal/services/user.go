package services

import (
	"context"
	"time"

	"debatehub/internal/models"
	"debatehub/internal/utils"
)

type UserService struct {
	users UserStore
	now   func() time.Time
}

func NewUserService(store UserStore) *UserService {
	return &UserService{users: store, now: time.Now}
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetUser(ctx, id)
}

// Profile returns the public profile with activity counters.
func (s *UserService) Profile(ctx context.Context, id uint) (*models.UserProfile, error) {
	p, err := s.users.GetUserProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	p.DaysSinceJoined = utils.DaysSinceJoined(p.CreatedAt, s.now())
	return p, nil
}
