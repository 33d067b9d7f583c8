package tgUtils

// EntityType is one of https://core.telegram.org/bots/api#messageentity
type EntityType string

const (
	EntityTypeBotCommand EntityType = "bot_command"
	EntityTypeMention    EntityType = "mention"

	UpdateTypeMessage = "message"

	// SecretTokenHeader carries the secret_token given to setWebhook.
	SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"
)
