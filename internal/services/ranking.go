package services

import (
	"context"
	"strings"
	"time"

	"debatehub/internal/models"
)

const (
	DefaultRankingLimit = 10
	MaxRankingLimit     = 100
)

// rankingEpoch is the start of the "all" window.
var rankingEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type RankingOptions struct {
	Location     *time.Location
	DefaultLimit int
	MaxLimit     int
}

// RankingService builds user leaderboards straight from the event tables.
// Results are never cached.
type RankingService struct {
	store        RankingStore
	loc          *time.Location
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

func NewRankingService(store RankingStore, opts RankingOptions) *RankingService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = MaxRankingLimit
	}
	if opts.DefaultLimit <= 0 || opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = min(DefaultRankingLimit, opts.MaxLimit)
	}
	return &RankingService{
		store:        store,
		loc:          opts.Location,
		defaultLimit: opts.DefaultLimit,
		maxLimit:     opts.MaxLimit,
		now:          time.Now,
	}
}

// ParsePeriod maps unknown values to PeriodAll.
func ParsePeriod(s string) models.RankingPeriod {
	switch p := models.RankingPeriod(strings.ToLower(strings.TrimSpace(s))); p {
	case models.PeriodDaily, models.PeriodMonthly, models.PeriodYearly:
		return p
	}
	return models.PeriodAll
}

// ParseCriterion maps unknown values to CriterionLikes.
func ParseCriterion(s string) models.RankingCriterion {
	switch c := models.RankingCriterion(strings.ToLower(strings.TrimSpace(s))); c {
	case models.CriterionVotes, models.CriterionComments:
		return c
	}
	return models.CriterionLikes
}

// WindowStart returns the start of the calendar period containing now, in loc.
func WindowStart(period models.RankingPeriod, now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	switch period {
	case models.PeriodDaily:
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	case models.PeriodMonthly:
		return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	case models.PeriodYearly:
		return time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, loc)
	}
	return rankingEpoch
}

func (s *RankingService) clamp(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

// Rank returns the top users for criterion over [start of period, now).
// Rank is the 1-based position in the returned slice.
func (s *RankingService) Rank(ctx context.Context, period models.RankingPeriod, criterion models.RankingCriterion, limit int) ([]models.RankingRow, error) {
	now := s.now()
	since := WindowStart(period, now, s.loc)

	limit = s.clamp(limit)

	rows, err := s.store.Leaderboard(ctx, criterion, since, now, limit)
	if err != nil {
		return nil, err
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}
