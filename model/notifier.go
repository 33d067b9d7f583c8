//go:generate go run go.uber.org/mock/mockgen -source=notifier.go -destination=../mocks/mock_notifier.go -package=mocks
package model

// Notifier is the outbound side of the chat: replies and kicks.
type Notifier interface {
	SendMessage(chatID, replyToMessageID int64, text string) error
	KickMember(chatID, userID int64) error
}
