package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Brawl345/autoblock/logger"
	"github.com/Brawl345/autoblock/model"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

const (
	CommandIsBanned = "/isbanned"
	CommandBan      = "/ban"
	CommandUnban    = "/unban"

	ReplyUnknownCommand   = "Unknown command"
	ReplyUsernameRequired = "This command requires a username."
	replyIsBanned         = "%s (%d) is banned"
	replyIsNotBanned      = "%s (%d) is not banned"
	replyAlreadyBanned    = "%s (%d) is already banned"
	replyHasBeenBanned    = "%s (%d) has been banned"
	replyHasBeenUnbanned  = "%s (%d) has been unbanned"
)

var (
	log = logger.New("bot")

	usernameCommands = []string{CommandIsBanned, CommandBan, CommandUnban}
)

// Dispatcher handles one InboundEvent at a time. It keeps no state between
// events, so one instance serves concurrent deliveries.
type Dispatcher struct {
	store       model.MembershipStore
	resolver    model.Resolver
	notifier    model.Notifier
	botID       int64
	botUsername string
}

func NewDispatcher(store model.MembershipStore, resolver model.Resolver, notifier model.Notifier, me *gotgbot.User) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		resolver: resolver,
		notifier: notifier,
	}
	if me != nil {
		d.botID = me.Id
		d.botUsername = me.Username
	}
	return d
}

// Handle runs the join flow or the command flow. Store, resolver and
// transport failures are returned; they never count as "not banned".
func (d *Dispatcher) Handle(ctx context.Context, event InboundEvent) error {
	switch {
	case event.Join != nil:
		return d.onUserJoined(ctx, event)
	case event.ChatType == gotgbot.ChatTypePrivate && event.Text != nil && len(event.Text.Entities) > 0:
		return d.onCommand(ctx, event)
	default:
		return nil
	}
}

func (d *Dispatcher) onUserJoined(ctx context.Context, event InboundEvent) error {
	l := zerolog.Ctx(ctx)

	var errs []error
	for _, participant := range event.Join.Participants {
		if d.botID != 0 && participant.Id == d.botID {
			continue
		}

		banned, err := d.store.Exists(ctx, model.NamespaceUser, participant.Id)
		if err != nil {
			errs = append(errs, fmt.Errorf("checking blocklist for %d: %w", participant.Id, err))
			continue
		}
		if !banned {
			continue
		}

		l.Info().
			Int64("chat_id", event.ChatID).
			Int64("user_id", participant.Id).
			Msgf("User %d (@%s) is in blocklist, banning", participant.Id, participant.Username)

		if err := d.notifier.KickMember(event.ChatID, participant.Id); err != nil {
			errs = append(errs, fmt.Errorf("kicking %d from %d: %w", participant.Id, event.ChatID, err))
		}
	}

	return errors.Join(errs...)
}

func (d *Dispatcher) onCommand(ctx context.Context, event InboundEvent) error {
	l := zerolog.Ctx(ctx)

	parsed := ParseEntities(event.Text.Text, event.Text.Entities)
	if !parsed.HasCommand {
		return nil
	}

	command := d.normalizeCommand(parsed.Command)
	l.Debug().Str("command", command).Msg("Parsed command")

	isAdmin, err := d.store.Exists(ctx, model.NamespaceAdmin, event.FromID)
	if err != nil {
		return fmt.Errorf("checking admin %d: %w", event.FromID, err)
	}
	if !isAdmin {
		l.Debug().Int64("user_id", event.FromID).Msg("Ignoring command from non-admin")
		return nil
	}

	if !slices.Contains(usernameCommands, command) {
		return d.reply(event, ReplyUnknownCommand)
	}

	if !parsed.HasMention {
		return d.reply(event, ReplyUsernameRequired)
	}

	username := strings.TrimPrefix(parsed.Mention, "@")

	identity, err := d.resolver.Resolve(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return d.reply(event, err.Error())
	}
	if err != nil {
		return fmt.Errorf("resolving %s: %w", username, err)
	}

	switch command {
	case CommandIsBanned:
		return d.onIsBanned(ctx, event, username, identity.ID)
	case CommandBan:
		return d.onBan(ctx, event, username, identity.ID)
	default:
		return d.onUnban(ctx, event, username, identity.ID)
	}
}

func (d *Dispatcher) onIsBanned(ctx context.Context, event InboundEvent, username string, id int64) error {
	banned, err := d.store.Exists(ctx, model.NamespaceUser, id)
	if err != nil {
		return fmt.Errorf("checking blocklist for %d: %w", id, err)
	}

	if banned {
		return d.reply(event, fmt.Sprintf(replyIsBanned, username, id))
	}
	return d.reply(event, fmt.Sprintf(replyIsNotBanned, username, id))
}

func (d *Dispatcher) onBan(ctx context.Context, event InboundEvent, username string, id int64) error {
	banned, err := d.store.Exists(ctx, model.NamespaceUser, id)
	if err != nil {
		return fmt.Errorf("checking blocklist for %d: %w", id, err)
	}
	if banned {
		return d.reply(event, fmt.Sprintf(replyAlreadyBanned, username, id))
	}

	if err := d.store.Put(ctx, model.NamespaceUser, id, model.Attributes{Username: username}); err != nil {
		return fmt.Errorf("banning %d: %w", id, err)
	}

	zerolog.Ctx(ctx).Info().
		Int64("user_id", id).
		Int64("admin_id", event.FromID).
		Msgf("Banned %s", username)

	return d.reply(event, fmt.Sprintf(replyHasBeenBanned, username, id))
}

func (d *Dispatcher) onUnban(ctx context.Context, event InboundEvent, username string, id int64) error {
	banned, err := d.store.Exists(ctx, model.NamespaceUser, id)
	if err != nil {
		return fmt.Errorf("checking blocklist for %d: %w", id, err)
	}
	if !banned {
		return d.reply(event, fmt.Sprintf(replyIsNotBanned, username, id))
	}

	if err := d.store.Delete(ctx, model.NamespaceUser, id); err != nil {
		return fmt.Errorf("unbanning %d: %w", id, err)
	}

	zerolog.Ctx(ctx).Info().
		Int64("user_id", id).
		Int64("admin_id", event.FromID).
		Msgf("Unbanned %s", username)

	return d.reply(event, fmt.Sprintf(replyHasBeenUnbanned, username, id))
}

func (d *Dispatcher) reply(event InboundEvent, text string) error {
	if err := d.notifier.SendMessage(event.ChatID, event.MessageID, text); err != nil {
		return fmt.Errorf("replying to %d: %w", event.MessageID, err)
	}
	return nil
}

// normalizeCommand drops our own "@botname" suffix, as sent by clients that
// append it. Foreign suffixes are left alone and end up as unknown commands.
func (d *Dispatcher) normalizeCommand(command string) string {
	name, suffix, found := strings.Cut(command, "@")
	if found && d.botUsername != "" && strings.EqualFold(suffix, d.botUsername) {
		return name
	}
	return command
}
