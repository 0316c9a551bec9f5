package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"debatehub/internal/models"
	"debatehub/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu    sync.Mutex
	items []models.Notification
}

func (r *recordingNotifier) Notify(n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recordingNotifier) all() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.items...)
}

type fixture struct {
	store *memory.Store
	notes *recordingNotifier
	alice models.User
	bob   models.User
	carol models.User
	cat   models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SetClock(func() time.Time { return t0 })
	return &fixture{
		store: store,
		notes: &recordingNotifier{},
		alice: store.AddUser(models.User{Nickname: "alice", Email: "alice@example.com"}),
		bob:   store.AddUser(models.User{Nickname: "bob", Email: "bob@example.com"}),
		carol: store.AddUser(models.User{Nickname: "carol", Email: "carol@example.com"}),
		cat:   store.AddCategory(models.Category{Name: "Society"}),
	}
}

// debate stores a debate owned by owner and forces it into status.
func (f *fixture) debate(t *testing.T, owner models.User, start, end time.Time, status models.DebateStatus) *models.Debate {
	t.Helper()
	ctx := context.Background()
	d := &models.Debate{
		UserID:     owner.ID,
		CategoryID: f.cat.ID,
		Title:      "Remote work beats the office",
		Content:    "Discuss",
		StartAt:    start,
		EndAt:      end,
	}
	require.NoError(t, f.store.CreateDebate(ctx, d))
	switch status {
	case models.DebateActive:
		_, err := f.store.TransitionDebate(ctx, d.ID, models.DebateScheduled, models.DebateActive)
		require.NoError(t, err)
	case models.DebateEnded:
		_, err := f.store.TransitionDebate(ctx, d.ID, models.DebateScheduled, models.DebateActive)
		require.NoError(t, err)
		_, err = f.store.TransitionDebate(ctx, d.ID, models.DebateActive, models.DebateEnded)
		require.NoError(t, err)
	}
	d.Status = status
	return d
}

func (f *fixture) activeDebate(t *testing.T, owner models.User) *models.Debate {
	return f.debate(t, owner, t0.Add(-time.Hour), t0.Add(time.Hour), models.DebateActive)
}

func (f *fixture) notificationsOf(typ models.NotificationType) []models.Notification {
	var out []models.Notification
	for _, n := range f.notes.all() {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}
