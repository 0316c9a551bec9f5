package utils

import (
	"time"
)

// DaysSinceJoined counts whole days between createdAt and now.
func DaysSinceJoined(createdAt, now time.Time) int {
	if createdAt.IsZero() || now.Before(createdAt) {
		return 0
	}
	return int(now.Sub(createdAt).Hours() / 24)
}
