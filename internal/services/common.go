package services

import (
	"context"
	"fmt"

	"debatehub/internal/models"
)

// PageSize bounds a list endpoint. Handlers clamp with the same bounds
// before turning a page number into an offset.
type PageSize struct {
	Default, Max int
}

var (
	DebatePageSize = PageSize{Default: 10, Max: 50}
	ThreadPageSize = PageSize{Default: 20, Max: 100}
)

// Limit applies the default and the upper bound.
func (p PageSize) Limit(limit int) int {
	if limit <= 0 {
		return p.Default
	}
	if limit > p.Max {
		return p.Max
	}
	return limit
}

func (p PageSize) normalize(limit, offset int) (int, int) {
	return normalizePage(limit, offset, p.Default, p.Max)
}

// Notifier accepts notifications for asynchronous delivery. Notify must not
// block and never reports failure to the caller.
type Notifier interface {
	Notify(n models.Notification)
}

// normalizePage applies the default size and bounds to a page request.
func normalizePage(limit, offset, def, max int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func debateURL(debateID uint) string {
	return fmt.Sprintf("/debates/%d", debateID)
}

func commentURL(debateID, commentID uint) string {
	return fmt.Sprintf("/debates/%d#comment-%d", debateID, commentID)
}

// displayName is used in notification text; lookups are best effort.
func displayName(ctx context.Context, users UserStore, userID uint) string {
	u, err := users.GetUser(ctx, userID)
	if err != nil || u.Nickname == "" {
		return "Someone"
	}
	return u.Nickname
}

// notifyOther queues n unless the recipient is the actor.
func notifyOther(notifier Notifier, actorID uint, n models.Notification) {
	if notifier == nil || n.UserID == 0 || n.UserID == actorID {
		return
	}
	notifier.Notify(n)
}
