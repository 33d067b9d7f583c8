package bot

import (
	"fmt"
	"strings"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

// https://twin.sh/articles/35/how-to-add-colors-to-your-console-terminal-output-in-go
var (
	reset  = "\033[0m"
	bold   = "\033[1m"
	red    = "\033[31m"
	green  = "\033[32m"
	purple = "\033[35m"
	cyan   = "\033[36m"
)

func printUser(user *gotgbot.User) string {
	var sb strings.Builder
	sb.WriteString(
		fmt.Sprintf(
			"%s%s%s",
			bold,
			red,
			user.FirstName,
		),
	)

	if user.LastName != "" {
		sb.WriteString(" ")
		sb.WriteString(user.LastName)
	}

	sb.WriteString(reset)

	if user.Username != "" {
		sb.WriteString(
			fmt.Sprintf(
				" %s(@%s)%s",
				red,
				user.Username,
				reset,
			),
		)
	}

	return sb.String()
}

// printEvent renders a delivery for PRINT_MSGS console output.
func printEvent(event InboundEvent) string {
	var sb strings.Builder

	sb.WriteString(
		fmt.Sprintf(
			"%s[%d/%d]%s",
			cyan,
			event.ChatID,
			event.MessageID,
			reset,
		),
	)

	if len(event.Users) > 0 && event.Users[0].Id == event.FromID {
		sb.WriteString(" ")
		sb.WriteString(printUser(&event.Users[0]))
	}

	sb.WriteString(
		fmt.Sprintf(
			"%s >>> %s",
			cyan,
			reset,
		),
	)

	switch {
	case event.Join != nil:
		for i := range event.Join.Participants {
			sb.WriteString(
				fmt.Sprintf(
					"%s[joined: %s%s] ",
					green,
					printUser(&event.Join.Participants[i]),
					green,
				),
			)
		}
		sb.WriteString(reset)
	case event.Text != nil:
		sb.WriteString(
			fmt.Sprintf(
				"%s[%d entities]%s %s",
				purple,
				len(event.Text.Entities),
				reset,
				event.Text.Text,
			),
		)
	}

	return sb.String()
}
