package repository

import (
	"context"
	"time"

	"debatehub/internal/models"
)

// rankingSource describes where one criterion's events live and who
// receives them.
type rankingSource struct {
	table  string // event table, filtered on its created_at
	join   string // reaches the row that names the owner
	owner  string
	debate string
}

var rankingSources = map[models.RankingCriterion]rankingSource{
	models.CriterionLikes: {
		table:  "likes",
		join:   "JOIN debates ON debates.id = likes.debate_id",
		owner:  "debates.user_id",
		debate: "likes.debate_id",
	},
	models.CriterionVotes: {
		table:  "opinions",
		join:   "JOIN debates ON debates.id = opinions.debate_id",
		owner:  "debates.user_id",
		debate: "opinions.debate_id",
	},
	models.CriterionComments: {
		table:  "comment_likes",
		join:   "JOIN comments ON comments.id = comment_likes.comment_id",
		owner:  "comments.user_id",
		debate: "comments.debate_id",
	},
}

func (s *Store) Leaderboard(ctx context.Context, criterion models.RankingCriterion, since, until time.Time, limit int) ([]models.RankingRow, error) {
	src, ok := rankingSources[criterion]
	if !ok {
		src = rankingSources[models.CriterionLikes]
	}

	var rows []models.RankingRow
	q := s.db.WithContext(ctx).Table(src.table).
		Select(src.owner+" AS user_id, users.nickname AS nickname, users.profile_image AS profile_image, "+
			"COUNT(*) AS total, COUNT(DISTINCT "+src.debate+") AS debate_count").
		Joins(src.join).
		Joins("JOIN users ON users.id = "+src.owner).
		Where(src.table+".created_at >= ? AND "+src.table+".created_at < ?", since, until).
		Group(src.owner + ", users.nickname, users.profile_image").
		Order("total DESC, user_id ASC")
	if err := paginate(q, limit, 0).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
