package bot

import (
	"testing"

	"github.com/Brawl345/autoblock/utils/tgUtils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/require"
)

func TestParseEntities(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		entities    []gotgbot.MessageEntity
		wantCommand string
		wantMention string
		hasCommand  bool
		hasMention  bool
	}{
		{
			name: "command and mention",
			text: "/ban @carol please",
			entities: []gotgbot.MessageEntity{
				entity(tgUtils.EntityTypeBotCommand, 0, 4),
				entity(tgUtils.EntityTypeMention, 5, 6),
			},
			wantCommand: "/ban",
			wantMention: "@carol",
			hasCommand:  true,
			hasMention:  true,
		},
		{
			name: "first of each type wins",
			text: "/unban @dave /ban @erin",
			entities: []gotgbot.MessageEntity{
				entity(tgUtils.EntityTypeBotCommand, 0, 6),
				entity(tgUtils.EntityTypeMention, 7, 5),
				entity(tgUtils.EntityTypeBotCommand, 13, 4),
				entity(tgUtils.EntityTypeMention, 18, 5),
			},
			wantCommand: "/unban",
			wantMention: "@dave",
			hasCommand:  true,
			hasMention:  true,
		},
		{
			name:        "no entities",
			text:        "hello",
			hasCommand:  false,
			hasMention:  false,
			wantCommand: "",
		},
		{
			name: "other entity types are ignored",
			text: "/ban https://example.com",
			entities: []gotgbot.MessageEntity{
				entity(tgUtils.EntityTypeBotCommand, 0, 4),
				{Type: "url", Offset: 5, Length: 19},
			},
			wantCommand: "/ban",
			hasCommand:  true,
		},
		{
			// 😀 is two UTF-16 code units but four bytes.
			name: "offsets are utf-16 code units",
			text: "😀 /isbanned @frank",
			entities: []gotgbot.MessageEntity{
				entity(tgUtils.EntityTypeBotCommand, 3, 9),
				entity(tgUtils.EntityTypeMention, 13, 6),
			},
			wantCommand: "/isbanned",
			wantMention: "@frank",
			hasCommand:  true,
			hasMention:  true,
		},
		{
			name: "out of range entity is skipped",
			text: "/ban",
			entities: []gotgbot.MessageEntity{
				entity(tgUtils.EntityTypeBotCommand, 0, 4),
				entity(tgUtils.EntityTypeMention, 5, 6),
			},
			wantCommand: "/ban",
			hasCommand:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			parsed := ParseEntities(tt.text, tt.entities)

			req.Equal(tt.hasCommand, parsed.HasCommand)
			req.Equal(tt.wantCommand, parsed.Command)
			req.Equal(tt.hasMention, parsed.HasMention)
			req.Equal(tt.wantMention, parsed.Mention)
		})
	}
}
