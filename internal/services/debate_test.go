package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"debatehub/internal/apperr"
	"debatehub/internal/models"
	"debatehub/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDebateService(f *fixture) *DebateService {
	svc := NewDebateService(f.store, f.notes, nil)
	svc.now = func() time.Time { return t0 }
	return svc
}

func validInput(f *fixture) DebateInput {
	return DebateInput{
		CategoryID: f.cat.ID,
		Title:      "Four day work week",
		Content:    "Is it **worth** it?",
		StartAt:    t0.Add(time.Hour),
		EndAt:      t0.Add(2 * time.Hour),
	}
}

func TestDebateCreate(t *testing.T) {
	f := newFixture(t)
	svc := newDebateService(f)
	ctx := context.Background()

	d, err := svc.Create(ctx, f.alice.ID, validInput(f))
	require.NoError(t, err)
	assert.Equal(t, models.DebateScheduled, d.Status)
	assert.Equal(t, f.alice.ID, d.UserID)

	tests := []struct {
		name   string
		mutate func(*DebateInput)
		kind   error
	}{
		{"start in the past", func(in *DebateInput) { in.StartAt = t0.Add(-time.Minute) }, apperr.ErrInvalidState},
		{"end before start", func(in *DebateInput) { in.EndAt = in.StartAt.Add(-time.Minute) }, apperr.ErrInvalidState},
		{"end equals start", func(in *DebateInput) { in.EndAt = in.StartAt }, apperr.ErrInvalidState},
		{"unknown category", func(in *DebateInput) { in.CategoryID = 9999 }, apperr.ErrNotFound},
		{"blank title", func(in *DebateInput) { in.Title = "  " }, apperr.ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput(f)
			tt.mutate(&in)
			_, err := svc.Create(ctx, f.alice.ID, in)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestDebateGet(t *testing.T) {
	f := newFixture(t)
	svc := newDebateService(f)
	ctx := context.Background()
	d, err := svc.Create(ctx, f.alice.ID, validInput(f))
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, d.ID, f.bob.ID)
	require.NoError(t, err)

	detail, err := svc.Get(ctx, d.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.ViewCount)
	assert.Equal(t, int64(1), detail.LikeCount)
	assert.True(t, detail.Liked)
	assert.Equal(t, "alice", detail.Nickname)
	assert.Equal(t, "Society", detail.CategoryName)
	assert.Contains(t, detail.ContentHTML, "<strong>worth</strong>")

	again, err := svc.Get(ctx, d.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, again.ViewCount)
	assert.False(t, again.Liked)

	require.NoError(t, f.store.SetDebateHidden(ctx, d.ID, true))
	_, err = svc.Get(ctx, d.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDebateUpdateAndDelete_OwnerBeforeStartOnly(t *testing.T) {
	f := newFixture(t)
	svc := newDebateService(f)
	ctx := context.Background()
	d, err := svc.Create(ctx, f.alice.ID, validInput(f))
	require.NoError(t, err)

	in := validInput(f)
	in.Title = "Three day work week"
	_, err = svc.Update(ctx, f.bob.ID, d.ID, in)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := svc.Update(ctx, f.alice.ID, d.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Three day work week", updated.Title)

	assert.ErrorIs(t, svc.Delete(ctx, f.bob.ID, d.ID), apperr.ErrForbidden)

	_, err = f.store.TransitionDebate(ctx, d.ID, models.DebateScheduled, models.DebateActive)
	require.NoError(t, err)

	_, err = svc.Update(ctx, f.alice.ID, d.ID, in)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.ErrorIs(t, svc.Delete(ctx, f.alice.ID, d.ID), apperr.ErrInvalidState)

	other, err := svc.Create(ctx, f.alice.ID, validInput(f))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, f.alice.ID, other.ID))
	_, err = f.store.GetDebate(ctx, other.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDebateToggleLike(t *testing.T) {
	f := newFixture(t)
	svc := newDebateService(f)
	ctx := context.Background()
	d := f.activeDebate(t, f.alice)

	for i, want := range []bool{true, false, true, false} {
		liked, err := svc.ToggleLike(ctx, d.ID, f.bob.ID)
		require.NoError(t, err)
		assert.Equal(t, want, liked, "toggle %d", i+1)
	}
	liked, err := svc.IsLiked(ctx, d.ID, f.bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	notes := f.notificationsOf(models.NotificationLike)
	require.Len(t, notes, 2)
	assert.Equal(t, f.alice.ID, notes[0].UserID)
	assert.Equal(t, fmt.Sprintf("/debates/%d", d.ID), notes[0].RelatedURL)

	_, err = svc.ToggleLike(ctx, d.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Len(t, f.notificationsOf(models.NotificationLike), 2)

	_, err = svc.ToggleLike(ctx, 9999, f.bob.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDebateList(t *testing.T) {
	f := newFixture(t)
	svc := newDebateService(f)
	ctx := context.Background()

	quiet := f.activeDebate(t, f.alice)
	popular := f.activeDebate(t, f.alice)
	hidden := f.activeDebate(t, f.alice)
	require.NoError(t, f.store.SetDebateHidden(ctx, hidden.ID, true))
	_, err := svc.ToggleLike(ctx, popular.ID, f.bob.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, popular.ID, f.carol.ID)
	require.NoError(t, err)

	page, err := svc.List(ctx, models.DebateFilter{Sort: models.SortPopular})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, popular.ID, page.Items[0].ID)
	assert.Equal(t, quiet.ID, page.Items[1].ID)

	page, err = svc.List(ctx, models.DebateFilter{Status: models.DebateScheduled})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = svc.List(ctx, models.DebateFilter{Status: "bogus", Sort: "bogus", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 1)
}

func TestDebateToggleBookmark(t *testing.T) {
	f := newFixture(t)
	svc := newDebateService(f)
	ctx := context.Background()
	d := f.activeDebate(t, f.alice)

	on, err := svc.ToggleBookmark(ctx, d.ID, f.bob.ID)
	require.NoError(t, err)
	assert.True(t, on)

	marks, err := svc.Bookmarks(ctx, f.bob.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, d.ID, marks[0].ID)

	on, err = svc.ToggleBookmark(ctx, d.ID, f.bob.ID)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestDebateCategories_Cached(t *testing.T) {
	f := newFixture(t)
	cache, err := utils.NewCache(8)
	require.NoError(t, err)
	svc := NewDebateService(f.store, f.notes, cache)
	ctx := context.Background()

	first, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	f.store.AddCategory(models.Category{Name: "Science"})
	second, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 1)

	cache.Delete(categoriesCacheKey)
	third, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 2)
}
