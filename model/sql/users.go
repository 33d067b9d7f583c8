package sql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Brawl345/autoblock/logger"
	"github.com/Brawl345/autoblock/model"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// userService is the user directory. It doubles as the username resolver.
type userService struct {
	*sqlx.DB
	log zerolog.Logger
}

func NewUserService(db *sqlx.DB) *userService {
	return &userService{
		DB:  db,
		log: logger.New("userService"),
	}
}

// Remember upserts the user and takes the username away from any other row,
// so a username always points at its latest known owner.
func (db *userService) Remember(ctx context.Context, user *gotgbot.User) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func(tx *sqlx.Tx) {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			db.log.Err(err).Msg("failed to rollback transaction")
		}
	}(tx)

	if user.Username != "" {
		const releaseQuery = `UPDATE users SET username = NULL WHERE username = ? AND id <> ?`
		_, err = tx.ExecContext(ctx, releaseQuery, user.Username, user.Id)
		if err != nil {
			return err
		}
	}

	const query = `INSERT INTO
    users (id, first_name, last_name, username)
    VALUES (? ,?, ?, ?)
    ON DUPLICATE KEY UPDATE first_name = ?, last_name = ?, username = ?, updated_at = CURRENT_TIMESTAMP`
	_, err = tx.ExecContext(
		ctx,
		query,
		user.Id,
		user.FirstName,
		NewNullString(user.LastName),
		NewNullString(user.Username),
		user.FirstName,
		NewNullString(user.LastName),
		NewNullString(user.Username),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (db *userService) Resolve(ctx context.Context, username string) (model.Identity, error) {
	username = strings.TrimPrefix(username, "@")

	// The column collation compares case-insensitively.
	const query = `SELECT id, first_name, last_name, username FROM users
    WHERE username = ?
    ORDER BY updated_at DESC
    LIMIT 1`

	var user model.User
	err := db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Identity{}, &model.UnknownUsernameError{Username: username}
	}
	if err != nil {
		return model.Identity{}, err
	}

	db.log.Debug().
		Int64("user_id", user.ID).
		Str("username", username).
		Msgf("Resolved to %s", user.GetFullName())

	return model.Identity{ID: user.ID, Username: user.Username.String}, nil
}
