package bot

import (
	"unicode/utf16"

	"github.com/Brawl345/autoblock/utils/tgUtils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/samber/lo"
)

// ParsedEntities holds the first command and the first mention of a message.
// Later entities of the same type are ignored.
type ParsedEntities struct {
	Command    string
	HasCommand bool
	Mention    string
	HasMention bool
}

// ParseEntities slices text by the entity offsets. Telegram counts offsets in
// UTF-16 code units, so text must be the unmodified message text.
// Entities that point outside the text are skipped.
func ParseEntities(text string, entities []gotgbot.MessageEntity) ParsedEntities {
	var parsed ParsedEntities
	parsed.Command, parsed.HasCommand = firstOfType(text, entities, tgUtils.EntityTypeBotCommand)
	parsed.Mention, parsed.HasMention = firstOfType(text, entities, tgUtils.EntityTypeMention)
	return parsed
}

func firstOfType(text string, entities []gotgbot.MessageEntity, entityType tgUtils.EntityType) (string, bool) {
	entity, found := lo.Find(entities, func(e gotgbot.MessageEntity) bool {
		return e.Type == string(entityType)
	})
	if !found {
		return "", false
	}

	units := int64(len(utf16.Encode([]rune(text))))
	if entity.Offset < 0 || entity.Length < 0 || entity.Offset+entity.Length > units {
		return "", false
	}

	return gotgbot.ParseEntity(text, entity).Text, true
}
