package services

import (
	"context"
	"testing"
	"time"

	"debatehub/internal/apperr"
	"debatehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.activeDebate(t, f.alice)
	f.store.AddLike(models.Like{DebateID: d.ID, UserID: f.bob.ID})
	f.store.AddOpinion(models.Opinion{DebateID: d.ID, UserID: f.bob.ID, Side: models.SideA})

	svc := NewUserService(f.store)
	svc.now = func() time.Time { return t0.Add(10*24*time.Hour + time.Hour) }

	alice, err := svc.Profile(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.DebateCount)
	assert.Equal(t, int64(1), alice.LikeCount)
	assert.Zero(t, alice.ParticipatedCount)
	assert.Equal(t, 10, alice.DaysSinceJoined)

	bob, err := svc.Profile(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bob.ParticipatedCount)
	assert.Zero(t, bob.LikeCount)

	_, err = svc.Profile(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
