package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newSeasonRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSeasonRepositoryFindCurrent(t *testing.T) {
	db, mock, cleanup := newSeasonRepoMock(t)
	defer cleanup()
	repo := NewSeasonRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "year", "start_date", "end_date", "current", "created_at", "updated_at"}).
		AddRow("ssn-1", "2026 Season", 2026, now, now.AddDate(0, 6, 0), true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, year, start_date, end_date, current, created_at, updated_at FROM seasons WHERE current = TRUE LIMIT 1`)).
		WillReturnRows(rows)

	season, err := repo.FindCurrent(context.Background())
	require.NoError(t, err)
	require.True(t, season.Current)
	require.Equal(t, 2026, season.Year)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeasonRepositoryFindCurrentNone(t *testing.T) {
	db, mock, cleanup := newSeasonRepoMock(t)
	defer cleanup()
	repo := NewSeasonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM seasons WHERE current = TRUE`)).
		WillReturnError(sql.ErrNoRows)

	season, err := repo.FindCurrent(context.Background())
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.Nil(t, season)
}

func TestSeasonRepositorySetCurrent(t *testing.T) {
	db, mock, cleanup := newSeasonRepoMock(t)
	defer cleanup()
	repo := NewSeasonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE seasons SET current = FALSE, updated_at = $1 WHERE current = TRUE`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE seasons SET current = TRUE, updated_at = $2 WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SetCurrent(context.Background(), "ssn-2")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeasonRepositorySetCurrentUnknownSeason(t *testing.T) {
	db, mock, cleanup := newSeasonRepoMock(t)
	defer cleanup()
	repo := NewSeasonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE seasons SET current = FALSE`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE seasons SET current = TRUE`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SetCurrent(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
