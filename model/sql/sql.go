package sql

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/Brawl345/autoblock/config"
	"github.com/Brawl345/autoblock/logger"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*
var embeddedMigrations embed.FS

var log = logger.New("sql")

func New(settings config.MySQL) (*sqlx.DB, error) {
	connectionString := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&tls=%s",
		settings.User,
		settings.Password,
		settings.Host,
		settings.Port,
		settings.DB,
		settings.TLS,
	)

	db, err := sqlx.Connect("mysql", connectionString)
	if err != nil {
		return nil, err
	}

	if !settings.IgnoreMigration {
		n, err := Migrate(db)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			log.Info().Msgf("Applied %d migration(s)", n)
		}
	}

	db.SetMaxIdleConns(100)
	db.SetMaxOpenConns(100)
	db.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

func Migrate(db *sqlx.DB) (int, error) {
	migrationSource := &migrate.EmbedFileSystemMigrationSource{FileSystem: embeddedMigrations, Root: "migrations"}
	return migrate.Exec(db.DB, "mysql", migrationSource, migrate.Up)
}

func NewNullString(s string) sql.NullString {
	if len(s) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{
		String: s,
		Valid:  true,
	}
}
