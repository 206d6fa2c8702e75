package aggregate

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return New(db), mock
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 4.33, Round2(13.0/3.0))
	// Rounds, never truncates: truncation would give 4.66.
	assert.Equal(t, 4.67, Round2(14.0/3.0))
	assert.Equal(t, 0.67, Round2(2.0/3.0))
	assert.Equal(t, 2.5, Round2(2.5))
	assert.Equal(t, 0.0, Round2(0))
}

func TestSummarize(t *testing.T) {
	avg, count := Summarize(nil)
	assert.Equal(t, 0.0, avg)
	assert.Equal(t, 0, count)

	avg, count = Summarize([]int{5})
	assert.Equal(t, 5.0, avg)
	assert.Equal(t, 1, count)

	avg, count = Summarize([]int{5, 4, 4})
	assert.Equal(t, 4.33, avg)
	assert.Equal(t, 3, count)
}

func TestHelpfulnessPercentage(t *testing.T) {
	assert.Equal(t, 0, HelpfulnessPercentage(0, 0))
	assert.Equal(t, 100, HelpfulnessPercentage(7, 0))
	assert.Equal(t, 0, HelpfulnessPercentage(0, 3))
	assert.Equal(t, 67, HelpfulnessPercentage(2, 1))
	assert.Equal(t, 33, HelpfulnessPercentage(1, 2))
}

// The tool row lock serializes concurrent recomputes: without it, two
// transactions could each read a partial review set and the staler writer
// could commit last.
func TestRecomputeToolRating(t *testing.T) {
	engine, mock := newMockEngine(t)
	toolID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "tools" WHERE id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(toolID))
	mock.ExpectQuery(`SELECT "rating" FROM "reviews"`).
		WithArgs(toolID, true, false).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(5).AddRow(4).AddRow(4))
	mock.ExpectExec(`UPDATE "tools" SET`).
		WithArgs(4.33, 3, sqlmock.AnyArg(), toolID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, engine.RecomputeToolRating(toolID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeToolRatingNoValidReviews(t *testing.T) {
	engine, mock := newMockEngine(t)
	toolID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "tools" WHERE id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(toolID))
	mock.ExpectQuery(`SELECT "rating" FROM "reviews"`).
		WithArgs(toolID, true, false).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}))
	mock.ExpectExec(`UPDATE "tools" SET`).
		WithArgs(0.0, 0, sqlmock.AnyArg(), toolID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, engine.RecomputeToolRating(toolID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeToolRatingMissingTool(t *testing.T) {
	engine, mock := newMockEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "tools" WHERE id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := engine.RecomputeToolRating(uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddFavorite(t *testing.T) {
	engine, mock := newMockEngine(t)
	userID, toolID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT "id" FROM "tools" WHERE id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(toolID))
	mock.ExpectExec(`INSERT INTO user_favorites`).
		WithArgs(userID, toolID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE tools SET favorite_count`).
		WithArgs(toolID, toolID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, engine.AddFavorite(userID, toolID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveFavoriteUnknownTool(t *testing.T) {
	engine, mock := newMockEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT "id" FROM "tools" WHERE id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := engine.RemoveFavorite(uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementCounter(t *testing.T) {
	engine, mock := newMockEngine(t)
	toolID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tools" SET "views"=views \+ 1`).
		WithArgs(toolID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, engine.IncrementCounter(toolID, CounterViews))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementCounterUnknownField(t *testing.T) {
	engine, _ := newMockEngine(t)
	err := engine.IncrementCounter(uuid.New(), CounterField("drop table"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestIncrementCounterMissingTool(t *testing.T) {
	engine, mock := newMockEngine(t)
	toolID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tools" SET "views"=views \+ 1`).
		WithArgs(toolID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := engine.IncrementCounter(toolID, CounterViews)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAddVote(t *testing.T) {
	engine, mock := newMockEngine(t)
	reviewID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reviews" SET "helpful_count"=helpful_count \+ 1`).
		WithArgs(reviewID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, engine.AddVote(reviewID, VoteHelpful))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveVoteFloorsAtZero(t *testing.T) {
	engine, mock := newMockEngine(t)
	reviewID := uuid.New()

	// The floor lives in the SQL itself.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reviews" SET "unhelpful_count"=GREATEST\(unhelpful_count - 1, 0\)`).
		WithArgs(reviewID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, engine.RemoveVote(reviewID, VoteUnhelpful))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteUnknownField(t *testing.T) {
	engine, _ := newMockEngine(t)
	err := engine.AddVote(uuid.New(), VoteField("views"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
