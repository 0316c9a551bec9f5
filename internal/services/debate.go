package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"debatehub/internal/apperr"
	"debatehub/internal/lifecycle"
	"debatehub/internal/models"
	"debatehub/internal/utils"
)

const (
	categoriesCacheKey = "categories"
	categoriesCacheTTL = 10 * time.Minute
)

// DebateInput carries the owner-editable fields of a debate.
type DebateInput struct {
	CategoryID uint      `json:"category_id" binding:"required"`
	Title      string    `json:"title" binding:"required,max=255"`
	Content    string    `json:"content" binding:"required"`
	StartAt    time.Time `json:"start_at" binding:"required"`
	EndAt      time.Time `json:"end_at" binding:"required"`
}

// DebateDetail is a single debate as shown to a viewer.
type DebateDetail struct {
	models.DebateView
	Liked bool `json:"liked"`
}

type DebatePage struct {
	Items []models.DebateView `json:"items"`
	Total int64               `json:"total"`
}

type DebateService struct {
	debates    DebateStore
	categories CategoryStore
	likes      LikeStore
	bookmarks  BookmarkStore
	users      UserStore
	notifier   Notifier
	cache      *utils.LocalCache
	now        func() time.Time
}

func NewDebateService(store Store, notifier Notifier, cache *utils.LocalCache) *DebateService {
	return &DebateService{
		debates:    store,
		categories: store,
		likes:      store,
		bookmarks:  store,
		users:      store,
		notifier:   notifier,
		cache:      cache,
		now:        time.Now,
	}
}

func (s *DebateService) Categories(ctx context.Context) ([]models.Category, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(categoriesCacheKey).([]models.Category); ok {
			return cached, nil
		}
	}
	items, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(categoriesCacheKey, items, categoriesCacheTTL)
	}
	return items, nil
}

func (s *DebateService) validate(ctx context.Context, in *DebateInput) error {
	in.Title = utils.SanitizeText(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" {
		return apperr.InvalidState("title is required")
	}
	if in.Content == "" {
		return apperr.InvalidState("content is required")
	}
	if _, err := s.categories.GetCategory(ctx, in.CategoryID); err != nil {
		return err
	}
	if !lifecycle.ValidWindow(in.StartAt, in.EndAt) {
		return apperr.InvalidState("start_at must be before end_at")
	}
	if in.StartAt.Before(s.now()) {
		return apperr.InvalidState("start_at must not be in the past")
	}
	return nil
}

// Create opens a new debate in SCHEDULED state.
func (s *DebateService) Create(ctx context.Context, userID uint, in DebateInput) (*models.Debate, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	d := &models.Debate{
		UserID:     userID,
		CategoryID: in.CategoryID,
		Title:      in.Title,
		Content:    in.Content,
		StartAt:    in.StartAt,
		EndAt:      in.EndAt,
		Status:     models.DebateScheduled,
	}
	if err := s.debates.CreateDebate(ctx, d); err != nil {
		return nil, err
	}
	utils.LogSuccess(fmt.Sprintf("debate %d created by user %d", d.ID, userID))
	return d, nil
}

// Get returns a visible debate and counts the view. viewerID may be 0.
func (s *DebateService) Get(ctx context.Context, id, viewerID uint) (*DebateDetail, error) {
	v, err := s.debates.GetDebateView(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.IsHidden {
		return nil, apperr.NotFound("debate")
	}

	if err := s.debates.IncrementViewCount(ctx, id); err != nil {
		utils.LogError(err, "failed to increment view count")
	} else {
		v.ViewCount++
	}
	v.ContentHTML = utils.RenderMarkdown(v.Content)

	detail := &DebateDetail{DebateView: *v}
	if viewerID != 0 {
		if detail.Liked, err = s.likes.IsDebateLiked(ctx, id, viewerID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *DebateService) List(ctx context.Context, f models.DebateFilter) (*DebatePage, error) {
	f.Limit, f.Offset = DebatePageSize.normalize(f.Limit, f.Offset)
	if !f.Status.Valid() {
		f.Status = ""
	}
	switch f.Sort {
	case models.SortLatest, models.SortViews, models.SortPopular, models.SortComments:
	default:
		f.Sort = models.SortLatest
	}
	f.Keyword = strings.TrimSpace(f.Keyword)

	items, total, err := s.debates.ListDebates(ctx, f)
	if err != nil {
		return nil, err
	}
	return &DebatePage{Items: items, Total: total}, nil
}

// editable loads a debate the actor may still change.
func (s *DebateService) editable(ctx context.Context, userID, id uint) (*models.Debate, error) {
	d, err := s.debates.GetDebate(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, apperr.Forbidden("only the author can modify this debate")
	}
	if !lifecycle.Editable(d.Status) {
		return nil, apperr.InvalidState("debate can only be modified before it starts")
	}
	return d, nil
}

func (s *DebateService) Update(ctx context.Context, userID, id uint, in DebateInput) (*models.Debate, error) {
	d, err := s.editable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	d.CategoryID = in.CategoryID
	d.Title = in.Title
	d.Content = in.Content
	d.StartAt = in.StartAt
	d.EndAt = in.EndAt

	ok, err := s.debates.UpdateScheduledDebate(ctx, d)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The scheduler activated it between the read and the write.
		return nil, apperr.InvalidState("debate can only be modified before it starts")
	}
	return d, nil
}

func (s *DebateService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.editable(ctx, userID, id); err != nil {
		return err
	}
	ok, err := s.debates.DeleteScheduledDebate(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.InvalidState("debate can only be modified before it starts")
	}
	return nil
}

func (s *DebateService) visible(ctx context.Context, id uint) (*models.Debate, error) {
	d, err := s.debates.GetDebate(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.IsHidden {
		return nil, apperr.NotFound("debate")
	}
	return d, nil
}

// ToggleLike flips the user's like on a debate and reports the new state.
func (s *DebateService) ToggleLike(ctx context.Context, debateID, userID uint) (bool, error) {
	d, err := s.visible(ctx, debateID)
	if err != nil {
		return false, err
	}
	liked, err := s.likes.ToggleDebateLike(ctx, debateID, userID)
	if err != nil {
		return false, err
	}
	if liked {
		notifyOther(s.notifier, userID, models.Notification{
			UserID:     d.UserID,
			Type:       models.NotificationLike,
			Content:    fmt.Sprintf("%s liked your debate \"%s\"", displayName(ctx, s.users, userID), d.Title),
			RelatedURL: debateURL(d.ID),
		})
	}
	return liked, nil
}

func (s *DebateService) IsLiked(ctx context.Context, debateID, userID uint) (bool, error) {
	if _, err := s.visible(ctx, debateID); err != nil {
		return false, err
	}
	return s.likes.IsDebateLiked(ctx, debateID, userID)
}

func (s *DebateService) ToggleBookmark(ctx context.Context, debateID, userID uint) (bool, error) {
	if _, err := s.visible(ctx, debateID); err != nil {
		return false, err
	}
	return s.bookmarks.ToggleBookmark(ctx, debateID, userID)
}

func (s *DebateService) Bookmarks(ctx context.Context, userID uint, limit, offset int) ([]models.DebateView, error) {
	limit, offset = DebatePageSize.normalize(limit, offset)
	return s.bookmarks.ListBookmarkedDebates(ctx, userID, limit, offset)
}
