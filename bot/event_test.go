package bot

import (
	"strings"
	"testing"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/require"
)

func TestDecodeUpdate(t *testing.T) {
	t.Run("should decode a private command", func(t *testing.T) {
		req := require.New(t)
		body := `{
			"update_id": 1,
			"message": {
				"message_id": 12,
				"chat": {"id": 900, "type": "private"},
				"from": {"id": 900, "is_bot": false, "first_name": "Admin", "username": "admin"},
				"text": "/ban @alice",
				"entities": [
					{"type": "bot_command", "offset": 0, "length": 4},
					{"type": "mention", "offset": 5, "length": 6}
				]
			}
		}`

		event, ok, err := DecodeUpdate(strings.NewReader(body))

		req.NoError(err)
		req.True(ok)
		req.Equal(int64(900), event.ChatID)
		req.Equal(gotgbot.ChatTypePrivate, event.ChatType)
		req.Equal(int64(900), event.FromID)
		req.Equal(int64(12), event.MessageID)
		req.Nil(event.Join)
		req.NotNil(event.Text)
		req.Equal("/ban @alice", event.Text.Text)
		req.Len(event.Text.Entities, 2)
		req.Len(event.Users, 1)
		req.Equal("admin", event.Users[0].Username)
	})

	t.Run("should decode a join from new_chat_participant", func(t *testing.T) {
		req := require.New(t)
		body := `{
			"update_id": 2,
			"message": {
				"message_id": 13,
				"chat": {"id": -100, "type": "supergroup"},
				"from": {"id": 42, "is_bot": false, "first_name": "Spam"},
				"new_chat_participant": {"id": 42, "is_bot": false, "first_name": "Spam", "username": "spammer"},
				"new_chat_members": [{"id": 42, "is_bot": false, "first_name": "Spam", "username": "spammer"}]
			}
		}`

		event, ok, err := DecodeUpdate(strings.NewReader(body))

		req.NoError(err)
		req.True(ok)
		req.NotNil(event.Join)
		req.Nil(event.Text)
		req.Len(event.Join.Participants, 1)
		req.Equal(int64(42), event.Join.Participants[0].Id)
		req.Equal("spammer", event.Join.Participants[0].Username)
		req.Len(event.Users, 1)
	})

	t.Run("should fall back to new_chat_members", func(t *testing.T) {
		req := require.New(t)
		body := `{
			"update_id": 3,
			"message": {
				"message_id": 14,
				"chat": {"id": -100, "type": "supergroup"},
				"from": {"id": 5, "is_bot": false, "first_name": "Inviter"},
				"new_chat_members": [
					{"id": 6, "is_bot": false, "first_name": "A"},
					{"id": 7, "is_bot": false, "first_name": "B"}
				]
			}
		}`

		event, ok, err := DecodeUpdate(strings.NewReader(body))

		req.NoError(err)
		req.True(ok)
		req.Len(event.Join.Participants, 2)
		req.Len(event.Users, 3)
	})

	t.Run("should leave text without entities unclassified", func(t *testing.T) {
		req := require.New(t)
		body := `{"update_id": 4, "message": {"message_id": 1, "chat": {"id": 1, "type": "private"}, "from": {"id": 1, "is_bot": false, "first_name": "A"}, "text": "hello"}}`

		event, ok, err := DecodeUpdate(strings.NewReader(body))

		req.NoError(err)
		req.True(ok)
		req.Nil(event.Text)
		req.Nil(event.Join)
	})

	t.Run("should skip updates without a message", func(t *testing.T) {
		req := require.New(t)

		_, ok, err := DecodeUpdate(strings.NewReader(`{"update_id": 5, "edited_message": {}}`))

		req.NoError(err)
		req.False(ok)
	})

	t.Run("should fail on invalid json", func(t *testing.T) {
		req := require.New(t)

		_, _, err := DecodeUpdate(strings.NewReader(`{`))

		req.Error(err)
	})
}
