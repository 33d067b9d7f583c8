package bot

import (
	"github.com/PaulSonOfLars/gotgbot/v2"
)

// Notifier sends replies and kicks through the Bot API.
type Notifier struct {
	bot *gotgbot.Bot
}

func NewNotifier(b *gotgbot.Bot) *Notifier {
	return &Notifier{bot: b}
}

func (n *Notifier) SendMessage(chatID, replyToMessageID int64, text string) error {
	_, err := n.bot.SendMessage(chatID, text, &gotgbot.SendMessageOpts{
		ReplyParameters: &gotgbot.ReplyParameters{
			MessageId:                replyToMessageID,
			AllowSendingWithoutReply: true,
		},
		LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
			IsDisabled: true,
		},
	})
	return err
}

// KickMember bans the user from the chat, which is what kickChatMember
// used to be called.
func (n *Notifier) KickMember(chatID, userID int64) error {
	_, err := n.bot.BanChatMember(chatID, userID, nil)
	return err
}
