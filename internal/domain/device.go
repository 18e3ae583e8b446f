package domain

import (
	"context"
	"encoding/json"
	"time"
)

// DeviceStatus is the server-assigned liveness state of a device
type DeviceStatus string

const (
	StatusOnline  DeviceStatus = "online"
	StatusOffline DeviceStatus = "offline"
)

// Map holds stored fields this service does not model
type Map map[string]interface{}

// Device is a stored device record keyed by its caller-supplied ID
type Device struct {
	ID string
	// FCMToken is nil when no token field is stored; an empty stored token is kept as "".
	FCMToken *string
	Status   DeviceStatus
	LastSeen *time.Time
	// Extra carries any other stored fields so listings stay verbatim.
	Extra Map
}

// MarshalJSON flattens Extra alongside the known fields, known fields winning.
func (d Device) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Extra)+4)
	for k, v := range d.Extra {
		out[k] = v
	}
	out["device_id"] = d.ID
	if d.FCMToken != nil {
		out["fcm_token"] = *d.FCMToken
	}
	if d.Status != "" {
		out["status"] = d.Status
	}
	if d.LastSeen != nil {
		out["last_seen"] = d.LastSeen.UTC()
	}
	return json.Marshal(out)
}

// Token returns the stored push token, or "" when none is stored
func (d *Device) Token() string {
	if d.FCMToken == nil {
		return ""
	}
	return *d.FCMToken
}

// DeviceUpdate is a merge write: nil or false fields leave stored values untouched.
type DeviceUpdate struct {
	FCMToken *string
	Status   DeviceStatus
	// TouchLastSeen asks the store to stamp last_seen with its own clock.
	TouchLastSeen bool
}

// DeviceRepository is implemented by the document store backends
type DeviceRepository interface {
	// MergeDevice creates the record if needed and writes only the fields set in update.
	MergeDevice(ctx context.Context, id string, update DeviceUpdate) error
	// GetDevice returns ErrNotFound when no record exists.
	GetDevice(ctx context.Context, id string) (*Device, error)
	ListDevices(ctx context.Context) ([]*Device, error)
	CountDevices(ctx context.Context) (int, error)
}
