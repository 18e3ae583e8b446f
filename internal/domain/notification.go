package domain

import "context"

// DefaultNotificationTitle is used when a request carries no title
const DefaultNotificationTitle = "AJNA"

// NotificationRequest is a transient push request; it is never stored.
// A nil Title gets DefaultNotificationTitle; a nil Body is sent empty.
type NotificationRequest struct {
	DeviceID string
	Title    *string
	Body     *string
}

// Pusher delivers a notification to a single push token and returns the provider message ID.
type Pusher interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) (string, error)
}
