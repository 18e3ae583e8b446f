package domain

import (
	"context"
	"strings"

	"github.com/ajna/ajna-hub/pkg/validator"
)

// FCM registration tokens are well under this; longer values are rejected, never cut.
const maxFCMTokenBytes = 4096

type DeviceService struct {
	repo DeviceRepository
}

func NewDeviceService(repo DeviceRepository) *DeviceService {
	return &DeviceService{repo: repo}
}

// Register upserts a device and marks it online. A nil token leaves any stored token as is.
func (s *DeviceService) Register(ctx context.Context, deviceID string, fcmToken *string) (string, error) {
	var errs validator.ValidationErrors
	id := strings.TrimSpace(deviceID)
	errs.DocumentID("device_id", id)
	if fcmToken != nil {
		errs.MaxBytes("fcm_token", *fcmToken, maxFCMTokenBytes)
	}
	if errs.HasErrors() {
		return "", fieldErrors(errs)
	}

	update := DeviceUpdate{Status: StatusOnline, FCMToken: fcmToken}

	if err := s.repo.MergeDevice(ctx, id, update); err != nil {
		return "", err
	}
	return id, nil
}

// Heartbeat stamps last_seen and marks the device online, creating it if unknown.
func (s *DeviceService) Heartbeat(ctx context.Context, deviceID string) (string, error) {
	id, err := normalizeDeviceID(deviceID)
	if err != nil {
		return "", err
	}

	if err := s.repo.MergeDevice(ctx, id, DeviceUpdate{Status: StatusOnline, TouchLastSeen: true}); err != nil {
		return "", err
	}
	return id, nil
}

func (s *DeviceService) List(ctx context.Context) ([]*Device, error) {
	devices, err := s.repo.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	if devices == nil {
		devices = []*Device{}
	}
	return devices, nil
}

func (s *DeviceService) Count(ctx context.Context) (int, error) {
	return s.repo.CountDevices(ctx)
}

func normalizeDeviceID(deviceID string) (string, error) {
	var errs validator.ValidationErrors
	id := strings.TrimSpace(deviceID)
	errs.DocumentID("device_id", id)
	if errs.HasErrors() {
		return "", fieldErrors(errs)
	}
	return id, nil
}
