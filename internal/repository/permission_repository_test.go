package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/frcteamops/pitcrew-api/internal/models"
)

func newPermissionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPermissionRepositoryEffectiveCodes(t *testing.T) {
	db, mock, cleanup := newPermissionRepoMock(t)
	defer cleanup()
	repo := NewPermissionRepository(db)

	rows := sqlmock.NewRows([]string{"code"}).
		AddRow(models.PermRecordAttendance).
		AddRow(models.PermViewReports)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT p.code FROM permissions p`)).
		WithArgs("usr-1").
		WillReturnRows(rows)

	codes, err := repo.EffectiveCodes(context.Background(), "usr-1")
	require.NoError(t, err)
	require.Equal(t, []string{models.PermRecordAttendance, models.PermViewReports}, codes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepositoryEffectiveCodesEmptyForUnknownUser(t *testing.T) {
	db, mock, cleanup := newPermissionRepoMock(t)
	defer cleanup()
	repo := NewPermissionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT p.code FROM permissions p`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"code"}))

	codes, err := repo.EffectiveCodes(context.Background(), "ghost")
	require.NoError(t, err)
	require.Empty(t, codes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepositoryGrantToUserIgnoresDuplicates(t *testing.T) {
	db, mock, cleanup := newPermissionRepoMock(t)
	defer cleanup()
	repo := NewPermissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_permissions (user_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`)).
		WithArgs("usr-1", "perm-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.GrantToUser(context.Background(), "usr-1", "perm-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepositoryGroupPermissions(t *testing.T) {
	db, mock, cleanup := newPermissionRepoMock(t)
	defer cleanup()
	repo := NewPermissionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "code", "description"}).
		AddRow("perm-1", models.PermApproveHours, "Approve attendance hours")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT p.id, p.code, p.description FROM permissions p`)).
		WithArgs("grp-1").
		WillReturnRows(rows)

	permissions, err := repo.GroupPermissions(context.Background(), "grp-1")
	require.NoError(t, err)
	require.Len(t, permissions, 1)
	require.Equal(t, models.PermApproveHours, permissions[0].Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
