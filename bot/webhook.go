package bot

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/Brawl345/autoblock/model"
	"github.com/Brawl345/autoblock/utils/tgUtils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/xid"
)

// maxBodySize caps a single update; real ones are a few KB.
const maxBodySize = 1 << 20

type (
	EventHandler interface {
		Handle(ctx context.Context, event InboundEvent) error
	}

	Webhook struct {
		handler       EventHandler
		userService   model.UserService
		secret        string
		printMessages bool
	}

	WebhookOpts struct {
		// Secret must match the X-Telegram-Bot-Api-Secret-Token header when set.
		Secret string
		// PrintMessages writes every delivery to the console.
		PrintMessages bool
	}
)

func NewWebhook(handler EventHandler, userService model.UserService, opts *WebhookOpts) *Webhook {
	wh := &Webhook{
		handler:     handler,
		userService: userService,
	}
	if opts != nil {
		wh.secret = opts.Secret
		wh.printMessages = opts.PrintMessages
	}
	return wh
}

func NewWebhookRouter(path string, wh *Webhook) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	// Any method is answered with 200 so Telegram never sees a failure.
	r.HandleFunc(path, wh.ServeHTTP)

	return r
}

// ServeHTTP always answers 200 with "{}" so Telegram does not redeliver.
// Failures end up in the log only.
func (wh *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	guid := xid.New().String()
	l := log.With().
		Str("guid", guid).
		Str("request_id", middleware.GetReqID(r.Context())).
		Logger()
	ctx := l.WithContext(r.Context())

	defer func() {
		if rec := recover(); rec != nil {
			l.Err(errors.New("panic")).Msgf("%s", rec)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	}()

	if wh.secret != "" {
		got := r.Header.Get(tgUtils.SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(wh.secret)) != 1 {
			l.Warn().Str("remote_addr", r.RemoteAddr).Msg("Dropping update with invalid secret token")
			return
		}
	}

	event, ok, err := DecodeUpdate(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		l.Err(err).Msg("Failed to decode update")
		return
	}
	if !ok {
		return
	}

	if wh.printMessages {
		fmt.Println(printEvent(event))
	}

	for i := range event.Users {
		if err := wh.userService.Remember(ctx, &event.Users[i]); err != nil {
			l.Warn().Err(err).Int64("user_id", event.Users[i].Id).Msg("Failed to remember user")
		}
	}

	if err := wh.handler.Handle(ctx, event); err != nil {
		l.Err(err).
			Int64("chat_id", event.ChatID).
			Int64("user_id", event.FromID).
			Str("text", textOf(event)).
			Send()
	}
}

func textOf(event InboundEvent) string {
	if event.Text == nil {
		return ""
	}
	return event.Text.Text
}
