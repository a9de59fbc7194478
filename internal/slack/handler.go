package slack

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/slack-go/slack/slackevents"
)

// Sender delivers a message to a Slack channel
type Sender interface {
	SendMessage(ctx context.Context, channelID, message string) error
}

// MentionHandler answers "@bot <command>" mentions with the same commands as
// the slash command endpoint
type MentionHandler struct {
	sender         Sender
	botID          string
	commandHandler *CommandHandler
}

func NewMentionHandler(sender Sender, botID string, commandHandler *CommandHandler) *MentionHandler {
	return &MentionHandler{
		sender:         sender,
		botID:          botID,
		commandHandler: commandHandler,
	}
}

func (h *MentionHandler) HandleAppMention(ctx context.Context, event *slackevents.AppMentionEvent) error {
	if event.BotID != "" || event.User == h.botID {
		return nil
	}

	text := strings.TrimSpace(strings.Replace(event.Text, "<@"+h.botID+">", "", 1))

	reply, err := h.commandHandler.Handle(ctx, text)
	if err != nil {
		log.Printf("❌ Error handling mention %q: %v", text, err)
	}

	if err := h.sender.SendMessage(ctx, event.Channel, reply); err != nil {
		return fmt.Errorf("failed to answer mention: %w", err)
	}
	return nil
}
