package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"

	"github.com/Brawl345/autoblock/logger"
	"github.com/Brawl345/autoblock/model"
)

const (
	BackendMySQL  = "mysql"
	BackendBadger = "badger"

	KeyBotToken = "bot_key"
	KeyAPIID    = "api_id"
	KeyAPIHash  = "api_hash"
)

var (
	log = logger.New("config")

	RequiredCredentials = []string{KeyBotToken, KeyAPIID, KeyAPIHash}

	ErrMissingCredential = errors.New("expected key not found in config")
)

type (
	// Settings come from the process environment (.env is autoloaded in main).
	Settings struct {
		ListenAddr    string `env:"LISTEN_ADDR,default=:8080" validate:"required"`
		WebhookPath   string `env:"WEBHOOK_PATH,default=/webhook" validate:"required,startswith=/"`
		WebhookURL    string `env:"WEBHOOK_URL" validate:"omitempty,url"`
		WebhookSecret string `env:"WEBHOOK_SECRET"`

		StoreBackend string `env:"STORE_BACKEND,default=mysql" validate:"oneof=mysql badger"`
		BadgerPath   string `env:"BADGER_PATH" validate:"required_if=StoreBackend badger"`

		MySQL MySQL

		LogLevel string `env:"LOG_LEVEL"`
	}

	MySQL struct {
		Host            string `env:"MYSQL_HOST,default=localhost"`
		Port            string `env:"MYSQL_PORT,default=3306"`
		User            string `env:"MYSQL_USER" validate:"required"`
		Password        string `env:"MYSQL_PASSWORD"`
		DB              string `env:"MYSQL_DB" validate:"required"`
		TLS             string `env:"MYSQL_TLS,default=false"`
		// IgnoreMigration is set when IGNORE_SQL_MIGRATION is present, whatever its value.
		IgnoreMigration bool
	}

	// Credentials are the bot secrets read from the credential store.
	Credentials struct {
		BotToken string
		APIID    string
		APIHash  string
	}
)

func LoadSettings() (Settings, error) {
	var settings Settings
	if _, err := env.UnmarshalFromEnviron(&settings); err != nil {
		return Settings{}, fmt.Errorf("config error: %w", err)
	}
	_, settings.MySQL.IgnoreMigration = os.LookupEnv("IGNORE_SQL_MIGRATION")

	if err := validator.New().Struct(settings); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}

	return settings, nil
}

// LoadCredentials reads the bot secrets. Every key in RequiredCredentials
// must be present and non-empty.
func LoadCredentials(service model.CredentialService) (Credentials, error) {
	all := service.GetAllCredentials()

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	log.Info().Strs("keys", names).Msg("Loaded config")

	for _, key := range RequiredCredentials {
		if all[key] == "" {
			return Credentials{}, fmt.Errorf("%w: %s", ErrMissingCredential, key)
		}
	}

	return Credentials{
		BotToken: all[KeyBotToken],
		APIID:    all[KeyAPIID],
		APIHash:  all[KeyAPIHash],
	}, nil
}
