package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/harshxd2006/Nexus-Ai/internal/aggregate"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/config"
	"github.com/harshxd2006/Nexus-Ai/internal/dto"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

var uniqueViolation = &pgconn.PgError{Code: "23505"}

// Two concurrent creates can both pass the duplicate pre-check; when the
// unique (tool, author) index then rejects the loser, the caller sees a
// conflict, not an internal error.
func TestReviewCreateDuplicateInsertConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReviewService(db, aggregate.New(db))
	toolID, authorID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tools"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "reviews"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "reviews"`).
		WillReturnError(uniqueViolation)
	mock.ExpectRollback()

	review, err := svc.Create(authorID, toolID, &dto.CreateReviewRequest{
		Rating:  5,
		Title:   "Great tool",
		Content: "Saved me hours on my first day.",
	})
	require.Error(t, err)
	assert.Nil(t, review)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

type noopMailer struct{}

func (noopMailer) PublishVerification(context.Context, string, string) error  { return nil }
func (noopMailer) PublishPasswordReset(context.Context, string, string) error { return nil }

// A soft-deleted account still holds its email in the unique index even
// though the pre-check (which filters deleted rows) cannot see it;
// re-registering that address must answer conflict.
func TestRegisterDuplicateEmailInsertConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db, &config.Config{}, noopMailer{})

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(uniqueViolation)
	mock.ExpectRollback()

	resp, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		DisplayName: "Ada",
		Email:       "ada@example.com",
		Password:    "s3cretpass",
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}
