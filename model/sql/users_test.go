package sql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/Brawl345/autoblock/model"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const (
	releaseUsernameQuery = `UPDATE users SET username = NULL WHERE username = ? AND id <> ?`
	upsertUserQuery      = `INSERT INTO
    users (id, first_name, last_name, username)
    VALUES (? ,?, ?, ?)
    ON DUPLICATE KEY UPDATE first_name = ?, last_name = ?, username = ?, updated_at = CURRENT_TIMESTAMP`
	resolveUserQuery = `SELECT id, first_name, last_name, username FROM users
    WHERE username = ?`
)

func newTestUserService(t *testing.T) (*userService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewUserService(sqlx.NewDb(db, "mysql")), mock
}

func TestUserService_Remember(t *testing.T) {
	t.Run("should take the username from other rows and bump updated_at", func(t *testing.T) {
		req := require.New(t)
		users, mock := newTestUserService(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(releaseUsernameQuery)).
			WithArgs("x", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(upsertUserQuery)).
			WithArgs(int64(1), "Alice", nil, "x", "Alice", nil, "x").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := users.Remember(context.Background(), &gotgbot.User{Id: 1, FirstName: "Alice", Username: "x"})

		req.NoError(err)
		req.NoError(mock.ExpectationsWereMet())
	})

	t.Run("should not release anything for users without a username", func(t *testing.T) {
		req := require.New(t)
		users, mock := newTestUserService(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(upsertUserQuery)).
			WithArgs(int64(2), "Bob", "Builder", nil, "Bob", "Builder", nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := users.Remember(context.Background(), &gotgbot.User{Id: 2, FirstName: "Bob", LastName: "Builder"})

		req.NoError(err)
		req.NoError(mock.ExpectationsWereMet())
	})

	t.Run("should roll back when the upsert fails", func(t *testing.T) {
		req := require.New(t)
		users, mock := newTestUserService(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(releaseUsernameQuery)).
			WithArgs("x", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(upsertUserQuery)).
			WillReturnError(errors.New("deadlock"))
		mock.ExpectRollback()

		err := users.Remember(context.Background(), &gotgbot.User{Id: 1, FirstName: "Alice", Username: "x"})

		req.Error(err)
		req.NoError(mock.ExpectationsWereMet())
	})
}

func TestUserService_Resolve(t *testing.T) {
	t.Run("should resolve the current owner", func(t *testing.T) {
		req := require.New(t)
		users, mock := newTestUserService(t)

		mock.ExpectQuery(regexp.QuoteMeta(resolveUserQuery)).
			WithArgs("x").
			WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "username"}).
				AddRow(int64(1), "Alice", nil, "x"))

		identity, err := users.Resolve(context.Background(), "@x")

		req.NoError(err)
		req.Equal(model.Identity{ID: 1, Username: "x"}, identity)
		req.NoError(mock.ExpectationsWereMet())
	})

	t.Run("should report unknown usernames", func(t *testing.T) {
		req := require.New(t)
		users, mock := newTestUserService(t)

		mock.ExpectQuery(regexp.QuoteMeta(resolveUserQuery)).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "username"}))

		_, err := users.Resolve(context.Background(), "ghost")

		req.ErrorIs(err, model.ErrNotFound)
		req.EqualError(err, `No user has "ghost" as username`)
	})

	t.Run("should pass through database errors", func(t *testing.T) {
		req := require.New(t)
		users, mock := newTestUserService(t)

		mock.ExpectQuery(regexp.QuoteMeta(resolveUserQuery)).
			WillReturnError(errors.New("connection refused"))

		_, err := users.Resolve(context.Background(), "x")

		req.Error(err)
		req.NotErrorIs(err, model.ErrNotFound)
	})
}
