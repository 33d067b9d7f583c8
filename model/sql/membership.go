package sql

import (
	"context"

	"github.com/Brawl345/autoblock/logger"
	"github.com/Brawl345/autoblock/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// membershipService keeps both namespaces in one table, keyed by "<ns>_<id>".
type membershipService struct {
	*sqlx.DB
	log zerolog.Logger
}

func NewMembershipService(db *sqlx.DB) *membershipService {
	return &membershipService{
		DB:  db,
		log: logger.New("membershipService"),
	}
}

func (db *membershipService) Exists(ctx context.Context, ns model.Namespace, id int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM membership WHERE pk = ?)`
	var exists bool
	err := db.GetContext(ctx, &exists, query, model.Key(ns, id))
	return exists, err
}

func (db *membershipService) Put(ctx context.Context, ns model.Namespace, id int64, attrs model.Attributes) error {
	const query = `INSERT INTO membership (pk, username) VALUES (?, ?)
    ON DUPLICATE KEY UPDATE username = ?`
	username := NewNullString(attrs.Username)
	_, err := db.ExecContext(ctx, query, model.Key(ns, id), username, username)
	return err
}

func (db *membershipService) Delete(ctx context.Context, ns model.Namespace, id int64) error {
	const query = `DELETE FROM membership WHERE pk = ?`
	res, err := db.ExecContext(ctx, query, model.Key(ns, id))
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		db.log.Debug().Str("pk", model.Key(ns, id)).Msg("Nothing to delete")
	}

	return nil
}
