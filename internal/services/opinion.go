package services

import (
	"context"
	"fmt"
	"time"

	"debatehub/internal/apperr"
	"debatehub/internal/lifecycle"
	"debatehub/internal/models"
	"debatehub/internal/utils"
)

type OpinionInput struct {
	Side    models.Side `json:"side" binding:"required"`
	Content string      `json:"content"`
}

type OpinionService struct {
	opinions OpinionStore
	debates  DebateStore
	users    UserStore
	notifier Notifier
	now      func() time.Time
}

func NewOpinionService(store Store, notifier Notifier) *OpinionService {
	return &OpinionService{
		opinions: store,
		debates:  store,
		users:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create records the user's side on an active debate. A user may take a
// side once per debate.
func (s *OpinionService) Create(ctx context.Context, debateID, userID uint, in OpinionInput) (*models.Opinion, error) {
	if !in.Side.Valid() {
		return nil, apperr.InvalidState("side must be A or B")
	}
	d, err := s.debates.GetDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	if d.IsHidden {
		return nil, apperr.NotFound("debate")
	}
	if !lifecycle.AcceptsOpinions(d.Status, d.StartAt, d.EndAt, s.now()) {
		return nil, apperr.InvalidState("debate is not accepting opinions")
	}

	o := &models.Opinion{
		DebateID: debateID,
		UserID:   userID,
		Side:     in.Side,
		Content:  utils.SanitizeText(in.Content),
	}
	if err := s.opinions.CreateOpinion(ctx, o); err != nil {
		return nil, err
	}

	notifyOther(s.notifier, userID, models.Notification{
		UserID:     d.UserID,
		Type:       models.NotificationOpinion,
		Content:    fmt.Sprintf("%s took side %s on \"%s\"", displayName(ctx, s.users, userID), o.Side, d.Title),
		RelatedURL: debateURL(d.ID),
	})
	return o, nil
}

func (s *OpinionService) List(ctx context.Context, debateID uint) ([]models.OpinionView, error) {
	d, err := s.debates.GetDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	if d.IsHidden {
		return nil, apperr.NotFound("debate")
	}
	return s.opinions.ListOpinions(ctx, debateID)
}
