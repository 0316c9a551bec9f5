package services

import (
	"context"
	"testing"

	"debatehub/internal/apperr"
	"debatehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_HideCommentAndDebate(t *testing.T) {
	f := newFixture(t)
	admin := NewAdminService(f.store)
	comments := NewCommentService(f.store, f.notes)
	ctx := context.Background()
	d := f.activeDebate(t, f.alice)

	c, err := comments.Create(ctx, d.ID, f.bob.ID, "rude remark", nil)
	require.NoError(t, err)

	hidden, err := admin.ToggleCommentHidden(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, hidden)

	public, err := comments.ListByDebate(ctx, d.ID, 0, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, public.Items)

	all, err := admin.DebateComments(ctx, d.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
	assert.True(t, all.Items[0].IsHidden)

	hidden, err = admin.ToggleCommentHidden(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, hidden)

	hidden, err = admin.ToggleDebateHidden(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, hidden)
	_, err = NewDebateService(f.store, f.notes, nil).Get(ctx, d.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = admin.ToggleCommentHidden(ctx, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = admin.ToggleDebateHidden(ctx, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAdmin_SearchComments(t *testing.T) {
	f := newFixture(t)
	admin := NewAdminService(f.store)
	comments := NewCommentService(f.store, f.notes)
	ctx := context.Background()
	d1 := f.activeDebate(t, f.alice)
	d2 := f.activeDebate(t, f.bob)

	spam, err := comments.Create(ctx, d1.ID, f.carol.ID, "Buy cheap watches", nil)
	require.NoError(t, err)
	_, err = comments.Create(ctx, d2.ID, f.carol.ID, "cheap shot", nil)
	require.NoError(t, err)
	_, err = comments.Create(ctx, d2.ID, f.bob.ID, "fair point", nil)
	require.NoError(t, err)
	require.NoError(t, f.store.SetCommentHidden(ctx, spam.ID, true))

	page, err := admin.SearchComments(ctx, "CHEAP", nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	yes := true
	page, err = admin.SearchComments(ctx, "cheap", &yes, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, spam.ID, page.Items[0].ID)

	no := false
	page, err = admin.SearchComments(ctx, "", &no, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestAdmin_SearchSkipsDeletedContent(t *testing.T) {
	f := newFixture(t)
	admin := NewAdminService(f.store)
	comments := NewCommentService(f.store, f.notes)
	ctx := context.Background()
	d := f.activeDebate(t, f.alice)

	regret, err := comments.Create(ctx, d.ID, f.carol.ID, "my phone number is 555-0100", nil)
	require.NoError(t, err)
	_, err = comments.Create(ctx, d.ID, f.bob.ID, "you should remove that", &regret.ID)
	require.NoError(t, err)
	outcome, err := comments.Delete(ctx, regret.ID, f.carol.ID)
	require.NoError(t, err)
	require.Equal(t, models.SoftDeleted, outcome)

	page, err := admin.SearchComments(ctx, "555-0100", nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Empty(t, page.Items)

	page, err = admin.SearchComments(ctx, "remove", nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestAdmin_DeleteCommentUsesTreePolicy(t *testing.T) {
	f := newFixture(t)
	admin := NewAdminService(f.store)
	comments := NewCommentService(f.store, f.notes)
	ctx := context.Background()
	d := f.activeDebate(t, f.alice)

	parent, err := comments.Create(ctx, d.ID, f.bob.ID, "parent", nil)
	require.NoError(t, err)
	_, err = comments.Create(ctx, d.ID, f.carol.ID, "child", &parent.ID)
	require.NoError(t, err)
	leaf, err := comments.Create(ctx, d.ID, f.carol.ID, "leaf", nil)
	require.NoError(t, err)

	outcome, err := admin.DeleteComment(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SoftDeleted, outcome)

	outcome, err = admin.DeleteComment(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HardDeleted, outcome)

	_, err = admin.DeleteComment(ctx, leaf.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	all, err := admin.DebateComments(ctx, d.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
	assert.Equal(t, models.DeletedCommentContent, all.Items[0].Content)
	assert.Len(t, all.Items[0].Replies, 1)
}
