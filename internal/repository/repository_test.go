package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"debatehub/internal/apperr"
	"debatehub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})
	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	})
	return New(gdb), mock
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "debate"))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound, "debate"), apperr.ErrNotFound)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: pgUniqueViolation}, "debate"), apperr.ErrConflict)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: pgForeignKeyViolation}, "debate"), apperr.ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other, "debate"))
}

func TestTransitionDebate(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "debates" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3 AND status = \$4`).
		WithArgs("ACTIVE", sqlmock.AnyArg(), 7, "SCHEDULED").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "debates" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := store.TransitionDebate(context.Background(), 7, models.DebateScheduled, models.DebateActive)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.TransitionDebate(context.Background(), 7, models.DebateScheduled, models.DebateActive)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDebatesToActivate(t *testing.T) {
	store, mock := setupTestDB(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "debates" WHERE status = \$1 AND start_at <= \$2 ORDER BY id ASC`).
		WithArgs("SCHEDULED", now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "start_at", "end_at"}).
			AddRow(3, "SCHEDULED", now.Add(-time.Minute), now.Add(time.Hour)).
			AddRow(4, "SCHEDULED", now, now.Add(time.Hour)))

	items, err := store.DebatesToActivate(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, uint(3), items[0].ID)
	assert.Equal(t, uint(4), items[1].ID)
}

func TestCreateOpinion_Duplicate(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "opinions"`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "idx_opinion_debate_user"})
	mock.ExpectRollback()

	err := store.CreateOpinion(context.Background(), &models.Opinion{DebateID: 1, UserID: 2, Side: models.SideA})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCreateComment_MissingDebate(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})
	mock.ExpectRollback()

	err := store.CreateComment(context.Background(), &models.Comment{DebateID: 99, UserID: 2, Content: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteComment_SoftWhenReplied(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE "comments"."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "debate_id", "user_id", "content"}).AddRow(5, 1, 2, "parent"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comments" WHERE parent_id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`DELETE FROM "comment_likes" WHERE comment_id = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE "comments" SET "is_deleted"=\$1,"like_count"=\$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	outcome, err := store.DeleteComment(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.SoftDeleted, outcome)
}

func TestDeleteComment_HardWhenLeaf(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "comments" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "debate_id", "user_id", "content"}).AddRow(6, 1, 2, "leaf"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM "comment_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "comments" WHERE "comments"."id" = \$1`).
		WithArgs(6).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	outcome, err := store.DeleteComment(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, models.HardDeleted, outcome)
}

func TestDeleteComment_NotFound(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "comments" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := store.DeleteComment(context.Background(), 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestToggleDebateLike_LostInsertRaceCountsAsLiked(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "likes" WHERE debate_id = \$1 AND user_id = \$2`).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})
	mock.ExpectRollback()

	liked, err := store.ToggleDebateLike(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestToggleCommentLike_LostInsertRaceCountsAsLiked(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "comment_likes" WHERE comment_id = \$1 AND user_id = \$2`).
		WithArgs(4, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "comment_likes"`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})
	mock.ExpectRollback()

	liked, err := store.ToggleCommentLike(context.Background(), 4, 2)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestListComments_KeywordSkipsDeleted(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "comments" WHERE is_deleted = \$1 AND content ILIKE \$2`).
		WithArgs(false, "%phone%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE is_deleted = \$1 AND content ILIKE \$2 ORDER BY created_at ASC, id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	items, total, err := store.ListComments(context.Background(), models.CommentFilter{
		Keyword:       " phone ",
		IncludeHidden: true,
		Limit:         20,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestLeaderboard_Query(t *testing.T) {
	store, mock := setupTestDB(t)
	since := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	until := since.Add(12 * time.Hour)

	mock.ExpectQuery(`SELECT comments.user_id AS user_id, .*COUNT\(\*\) AS total, COUNT\(DISTINCT comments.debate_id\) AS debate_count ` +
		`FROM "comment_likes" JOIN comments ON comments.id = comment_likes.comment_id JOIN users ON users.id = comments.user_id ` +
		`WHERE comment_likes.created_at >= \$1 AND comment_likes.created_at < \$2 ` +
		`GROUP BY .* ORDER BY total DESC, user_id ASC LIMIT \$3`).
		WithArgs(since, until, 5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "nickname", "profile_image", "total", "debate_count"}).
			AddRow(2, "bob", "", 5, 2).
			AddRow(1, "alice", "", 4, 1))

	rows, err := store.Leaderboard(context.Background(), models.CriterionComments, since, until, 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint(2), rows[0].UserID)
	assert.Equal(t, "bob", rows[0].Nickname)
	assert.Equal(t, int64(5), rows[0].Total)
	assert.Equal(t, int64(2), rows[0].DebateCount)
}

func TestListDebates_PopularOrder(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "debates" WHERE debates.is_hidden = \$1 AND debates.status = \$2`).
		WithArgs(false, "ACTIVE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`(?s)SELECT debates\.\*,.*FROM "debates" LEFT JOIN users .* ORDER BY like_count DESC, debates.id DESC LIMIT \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "nickname", "category_name", "like_count", "comment_count"}).
			AddRow(9, "Cats or dogs", "ACTIVE", "alice", "Society", 12, 3))

	items, total, err := store.ListDebates(context.Background(), models.DebateFilter{
		Status: models.DebateActive,
		Sort:   models.SortPopular,
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, uint(9), items[0].ID)
	assert.Equal(t, "alice", items[0].Nickname)
	assert.Equal(t, "Society", items[0].CategoryName)
	assert.Equal(t, int64(12), items[0].LikeCount)
	assert.Equal(t, int64(3), items[0].CommentCount)
}

func TestGetUserProfile_NotFound(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectQuery(`FROM "users" WHERE users.id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetUserProfile(context.Background(), 77)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSetCommentHidden_Missing(t *testing.T) {
	store, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "comments" SET "is_hidden"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, store.SetCommentHidden(context.Background(), 1, true), apperr.ErrNotFound)
}
