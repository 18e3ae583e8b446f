package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// sender is the part of *messaging.Client the hub uses
type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type Client struct {
	msgClient sender
	logger    *zap.Logger
}

// NewClient builds a messaging client from an initialised Firebase app
func NewClient(ctx context.Context, app *firebase.App, logger *zap.Logger) (*Client, error) {
	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &Client{
		msgClient: msgClient,
		logger:    logger,
	}, nil
}

// Send pushes a notification to a single registration token and returns the FCM message ID.
func (c *Client) Send(ctx context.Context, token string, title, body string, data map[string]string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("empty registration token")
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	messageID, err := c.msgClient.Send(ctx, message)
	if err != nil {
		c.logger.Error("Failed to send FCM message", zap.String("token", redact(token)), zap.Error(err))
		return "", err
	}

	c.logger.Debug("FCM message sent", zap.String("message_id", messageID))
	return messageID, nil
}

// redact keeps enough of a token to correlate log lines without exposing it
func redact(token string) string {
	if len(token) <= 12 {
		return "***"
	}
	return token[:12] + "..."
}
