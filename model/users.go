//go:generate go run go.uber.org/mock/mockgen -source=users.go -destination=../mocks/mock_users.go -package=mocks
package model

import (
	"context"
	"database/sql"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

type (
	// UserService records every user the bot sees so usernames can be
	// resolved later.
	UserService interface {
		Remember(ctx context.Context, user *gotgbot.User) error
	}

	// Resolver turns a username into a numeric identity. An unknown username
	// yields *UnknownUsernameError; any other error is an infrastructure failure.
	Resolver interface {
		Resolve(ctx context.Context, username string) (Identity, error)
	}

	Identity struct {
		ID       int64
		Username string
	}

	User struct {
		ID        int64          `db:"id"`
		FirstName string         `db:"first_name"`
		LastName  sql.NullString `db:"last_name"`
		Username  sql.NullString `db:"username"`
	}
)

func (user *User) GetFullName() string {
	if user.LastName.Valid {
		return user.FirstName + " " + user.LastName.String
	}
	return user.FirstName
}
