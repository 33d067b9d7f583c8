package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Brawl345/autoblock/bot"
	"github.com/Brawl345/autoblock/config"
	"github.com/Brawl345/autoblock/logger"
	"github.com/Brawl345/autoblock/model"
	"github.com/Brawl345/autoblock/model/badgerdb"
	"github.com/Brawl345/autoblock/model/sql"
	"github.com/Brawl345/autoblock/utils"
	"github.com/Brawl345/autoblock/utils/tgUtils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
)

var log = logger.New("main")

func main() {
	grantAdmin := flag.Int64("grant-admin", 0, "add a user id to the admin set and exit")
	revokeAdmin := flag.Int64("revoke-admin", 0, "remove a user id from the admin set and exit")
	flag.Parse()

	versionInfo, err := utils.ReadVersionInfo()
	if err == nil {
		log.Info().Msgf("Autoblock-%s, %v", versionInfo.Revision, versionInfo.LastCommit)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	logger.Configure(settings.LogLevel)

	db, err := sql.New(settings.MySQL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	store, closeStore, err := openStore(settings, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open membership store")
	}
	defer closeStore()

	if *grantAdmin != 0 || *revokeAdmin != 0 {
		if err := provisionAdmins(store, *grantAdmin, *revokeAdmin); err != nil {
			log.Error().Err(err).Msg("Failed to update admins")
		}
		return
	}

	credentialService, err := sql.NewCredentialService(db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read credentials")
	}
	credentials, err := config.LoadCredentials(credentialService)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	b, err := gotgbot.NewBot(credentials.BotToken, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}
	log.Info().Msgf("Logged in as @%s (%d)", b.Username, b.Id)

	if settings.WebhookURL != "" {
		_, err = b.SetWebhook(settings.WebhookURL, &gotgbot.SetWebhookOpts{
			SecretToken:    settings.WebhookSecret,
			AllowedUpdates: []string{tgUtils.UpdateTypeMessage},
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to set webhook")
		}
		log.Info().Str("url", settings.WebhookURL).Msg("Webhook registered")
	}

	userService := sql.NewUserService(db)
	dispatcher := bot.NewDispatcher(store, userService, bot.NewNotifier(b), &b.User)

	_, printMessages := os.LookupEnv("PRINT_MSGS")
	webhook := bot.NewWebhook(dispatcher, userService, &bot.WebhookOpts{
		Secret:        settings.WebhookSecret,
		PrintMessages: printMessages,
	})

	srv := &http.Server{
		Addr:              settings.ListenAddr,
		Handler:           bot.NewWebhookRouter(settings.WebhookPath, webhook),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", settings.ListenAddr).Str("path", settings.WebhookPath).Msg("Listening for updates")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Webhook server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down cleanly")
	}
}

func openStore(settings config.Settings, db *sqlx.DB) (model.MembershipStore, func(), error) {
	if settings.StoreBackend == config.BackendBadger {
		bdb, err := badgerdb.Open(settings.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", settings.BadgerPath).Msg("Using badger membership store")
		return badgerdb.NewMembershipStore(bdb), func() { _ = bdb.Close() }, nil
	}

	return sql.NewMembershipService(db), func() {}, nil
}

// provisionAdmins is the only way to change the admin set; no chat command does.
func provisionAdmins(store model.MembershipStore, grant, revoke int64) error {
	ctx := context.Background()

	if grant != 0 {
		if err := store.Put(ctx, model.NamespaceAdmin, grant, model.Attributes{}); err != nil {
			return err
		}
		log.Info().Int64("user_id", grant).Msg("Granted admin")
	}

	if revoke != 0 {
		if err := store.Delete(ctx, model.NamespaceAdmin, revoke); err != nil {
			return err
		}
		log.Info().Int64("user_id", revoke).Msg("Revoked admin")
	}

	return nil
}
