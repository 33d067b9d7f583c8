package bot

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

type (
	// InboundEvent is one webhook delivery, reduced to what the dispatcher reads.
	InboundEvent struct {
		ChatID    int64
		ChatType  string
		FromID    int64
		MessageID int64

		// Join is set when the message announces new participants.
		Join *JoinEvent
		// Text is set when the message carries text with at least one entity.
		Text *TextEvent

		// Users are everyone the message tells us about: sender and participants.
		Users []gotgbot.User
	}

	JoinEvent struct {
		Participants []gotgbot.User
	}

	TextEvent struct {
		Text     string
		Entities []gotgbot.MessageEntity
	}

	// update mirrors the subset of https://core.telegram.org/bots/api#update
	// the bot consumes. gotgbot.Message has no new_chat_participant field.
	update struct {
		UpdateId int64           `json:"update_id"`
		Message  *webhookMessage `json:"message"`
	}

	webhookMessage struct {
		MessageId          int64                   `json:"message_id"`
		Chat               gotgbot.Chat            `json:"chat"`
		From               *gotgbot.User           `json:"from"`
		NewChatParticipant *gotgbot.User           `json:"new_chat_participant"`
		NewChatMembers     []gotgbot.User          `json:"new_chat_members"`
		Text               string                  `json:"text"`
		Entities           []gotgbot.MessageEntity `json:"entities"`
	}
)

// DecodeUpdate reads a webhook body. The bool is false for updates without a
// message, which are ignored.
func DecodeUpdate(r io.Reader) (InboundEvent, bool, error) {
	var u update
	if err := json.NewDecoder(r).Decode(&u); err != nil {
		return InboundEvent{}, false, fmt.Errorf("decoding update: %w", err)
	}
	if u.Message == nil {
		return InboundEvent{}, false, nil
	}

	msg := u.Message
	event := InboundEvent{
		ChatID:    msg.Chat.Id,
		ChatType:  msg.Chat.Type,
		MessageID: msg.MessageId,
	}
	if msg.From != nil {
		event.FromID = msg.From.Id
		event.Users = append(event.Users, *msg.From)
	}

	switch {
	case msg.NewChatParticipant != nil:
		event.Join = &JoinEvent{Participants: []gotgbot.User{*msg.NewChatParticipant}}
	case len(msg.NewChatMembers) > 0:
		event.Join = &JoinEvent{Participants: msg.NewChatMembers}
	case msg.Text != "" && len(msg.Entities) > 0:
		event.Text = &TextEvent{Text: msg.Text, Entities: msg.Entities}
	}

	if event.Join != nil {
		for _, participant := range event.Join.Participants {
			if participant.Id != event.FromID {
				event.Users = append(event.Users, participant)
			}
		}
	}

	return event, true, nil
}
