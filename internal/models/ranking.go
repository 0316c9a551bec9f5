package models

type RankingPeriod string

const (
	PeriodDaily   RankingPeriod = "daily"
	PeriodMonthly RankingPeriod = "monthly"
	PeriodYearly  RankingPeriod = "yearly"
	PeriodAll     RankingPeriod = "all"
)

// RankingCriterion picks the event source a leaderboard is counted from.
type RankingCriterion string

const (
	CriterionLikes    RankingCriterion = "likes"    // debate likes, grouped by debate owner
	CriterionVotes    RankingCriterion = "votes"    // opinions, grouped by debate owner
	CriterionComments RankingCriterion = "comments" // comment likes, grouped by comment author
)

// RankingRow is a derived leaderboard line. It is never persisted.
type RankingRow struct {
	UserID       uint   `json:"user_id"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image"`
	Total        int64  `json:"total"`
	DebateCount  int64  `json:"debate_count"`
	Rank         int    `json:"rank" gorm:"-"`
}
