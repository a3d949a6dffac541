package roles

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/motomarket/internal/common"
	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT role FROM user_roles WHERE user_id = `).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("moderator"))

	role, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, role)
}

func TestGet_NoRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT role FROM user_roles`).
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_UnknownStoredRole(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT role FROM user_roles`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("superuser"))

	_, err := repo.Get(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestGetForShare_LocksRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT role FROM user_roles WHERE user_id = .* FOR SHARE`).
		WithArgs("admin-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("admin"))

	role, err := repo.GetForShare(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO user_roles .* ON CONFLICT \(user_id\) DO UPDATE SET role = EXCLUDED\.role`).
			WithArgs("u1", "moderator").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Upsert(context.Background(), "u1", models.RoleModerator))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO user_roles`).WillReturnError(errors.New("db is down"))

		err := repo.Upsert(context.Background(), "u1", models.RoleUser)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db error")
	})
}
