package slack

import (
	"context"
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

type Client struct {
	api   *slack.Client
	botID string
}

// NewClient authenticates with Slack and remembers the bot's user ID
func NewClient(token string) (*Client, error) {
	api := slack.New(token)

	authTest, err := api.AuthTest()
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Slack: %w", err)
	}

	log.Printf("✅ Slack authenticated as %s", authTest.User)

	return &Client{
		api:   api,
		botID: authTest.UserID,
	}, nil
}

func (c *Client) GetBotID() string {
	return c.botID
}

func (c *Client) SendMessage(ctx context.Context, channelID, message string) error {
	_, _, err := c.api.PostMessageContext(ctx,
		channelID,
		slack.MsgOptionText(message, false),
	)
	return err
}
