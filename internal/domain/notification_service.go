package domain

import (
	"context"
	"errors"
)

type NotificationService struct {
	repo   DeviceRepository
	pusher Pusher
}

func NewNotificationService(repo DeviceRepository, pusher Pusher) *NotificationService {
	return &NotificationService{
		repo:   repo,
		pusher: pusher,
	}
}

// Notify looks up the device's push token and dispatches the message through the pusher.
func (s *NotificationService) Notify(ctx context.Context, req NotificationRequest) (string, error) {
	id, err := normalizeDeviceID(req.DeviceID)
	if err != nil {
		return "", err
	}

	device, err := s.repo.GetDevice(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", notFoundError("unknown device")
		}
		return "", err
	}

	if device.Token() == "" {
		return "", validationError("no fcm_token for device")
	}

	title := DefaultNotificationTitle
	if req.Title != nil {
		title = *req.Title
	}
	var body string
	if req.Body != nil {
		body = *req.Body
	}

	if s.pusher == nil {
		return "", dispatchError("push messaging is not configured", nil)
	}

	messageID, err := s.pusher.Send(ctx, device.Token(), title, body, nil)
	if err != nil {
		return "", dispatchError("failed to send notification", err)
	}
	return messageID, nil
}
