// Package lifecycle decides which state a debate should be in at a given time.
// Every function here is pure.
package lifecycle

import (
	"time"

	"debatehub/internal/models"
)

// Next returns the status that follows status at now. It advances at most one
// step: a SCHEDULED debate whose end has also passed becomes ACTIVE, and only
// a later call moves it to ENDED. ENDED is terminal.
func Next(status models.DebateStatus, startAt, endAt, now time.Time) models.DebateStatus {
	switch status {
	case models.DebateScheduled:
		if !now.Before(startAt) {
			return models.DebateActive
		}
	case models.DebateActive:
		if !now.Before(endAt) {
			return models.DebateEnded
		}
	}
	return status
}

// Settle applies Next until the status stops changing.
func Settle(status models.DebateStatus, startAt, endAt, now time.Time) models.DebateStatus {
	for {
		next := Next(status, startAt, endAt, now)
		if next == status {
			return status
		}
		status = next
	}
}

// ValidWindow reports whether startAt is strictly before endAt.
func ValidWindow(startAt, endAt time.Time) bool {
	return startAt.Before(endAt)
}

// Editable reports whether the owner may still change content and dates.
func Editable(status models.DebateStatus) bool {
	return status == models.DebateScheduled
}

// AcceptsOpinions reports whether a side may be taken at now.
func AcceptsOpinions(status models.DebateStatus, startAt, endAt, now time.Time) bool {
	if status != models.DebateActive {
		return false
	}
	return !now.Before(startAt) && !now.After(endAt)
}
