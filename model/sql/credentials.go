package sql

import (
	"github.com/Brawl345/autoblock/logger"
	"github.com/Brawl345/autoblock/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type credentialService struct {
	*sqlx.DB
	log         zerolog.Logger
	credentials map[string]string
}

// NewCredentialService loads all credentials once. Unlike a plugin lookup,
// the bot cannot start without them, so a failed read is returned.
func NewCredentialService(db *sqlx.DB) (*credentialService, error) {
	s := &credentialService{
		DB:          db,
		log:         logger.New("credentialService"),
		credentials: make(map[string]string),
	}

	const query = `SELECT name, value FROM credentials`
	var credentials []model.Credential
	if err := db.Select(&credentials, query); err != nil {
		return nil, err
	}

	for _, cred := range credentials {
		s.credentials[cred.Name] = cred.Value
	}

	return s, nil
}

func (db *credentialService) GetAllCredentials() map[string]string {
	return db.credentials
}

func (db *credentialService) GetKey(name string) string {
	return db.credentials[name]
}
