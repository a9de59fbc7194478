package slack

import (
	"context"
	"fmt"

	"github.com/shubh-37/peyza-simulator/internal/models"
	"github.com/shubh-37/peyza-simulator/internal/simulation"
)

// Notifier posts every new notification to a Slack channel
type Notifier struct {
	client    *Client
	channelID string
}

func NewNotifier(client *Client, channelID string) *Notifier {
	return &Notifier{
		client:    client,
		channelID: channelID,
	}
}

func (n *Notifier) HandleTick(ctx context.Context, res simulation.Result) error {
	// Oldest first so the channel reads chronologically
	for i := len(res.Notifications) - 1; i >= 0; i-- {
		if err := n.client.SendMessage(ctx, n.channelID, notificationText(res.Notifications[i])); err != nil {
			return fmt.Errorf("failed to deliver notification: %w", err)
		}
	}
	return nil
}

func notificationText(n models.Notification) string {
	icon := "👤"
	switch n.Type {
	case models.NotificationLike:
		icon = "❤️"
	case models.NotificationRetweet:
		icon = "🔁"
	case models.NotificationReply:
		icon = "💬"
	}

	return fmt.Sprintf("%s *%s* %s", icon, n.User.Name, n.Content)
}
