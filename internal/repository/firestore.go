package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ajna/ajna-hub/internal/domain"
)

// Firestore field names
const (
	fieldFCMToken = "fcm_token"
	fieldStatus   = "status"
	fieldLastSeen = "last_seen"
)

// FirestoreRepository implements domain.DeviceRepository on a Firestore collection
type FirestoreRepository struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreRepository creates a repository over the named collection
func NewFirestoreRepository(client *firestore.Client, collection string) *FirestoreRepository {
	return &FirestoreRepository{
		client:     client,
		collection: collection,
	}
}

// mergeFields builds the Set payload; only fields present in update are written.
func mergeFields(update domain.DeviceUpdate) map[string]interface{} {
	fields := make(map[string]interface{}, 3)
	if update.FCMToken != nil {
		fields[fieldFCMToken] = *update.FCMToken
	}
	if update.Status != "" {
		fields[fieldStatus] = string(update.Status)
	}
	if update.TouchLastSeen {
		fields[fieldLastSeen] = firestore.ServerTimestamp
	}
	return fields
}

// MergeDevice writes the update with MergeAll so untouched fields survive
func (r *FirestoreRepository) MergeDevice(ctx context.Context, id string, update domain.DeviceUpdate) error {
	fields := mergeFields(update)
	if len(fields) == 0 {
		return nil
	}
	if _, err := r.client.Collection(r.collection).Doc(id).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to merge device %s: %w", id, err)
	}
	return nil
}

// GetDevice retrieves a device document
func (r *FirestoreRepository) GetDevice(ctx context.Context, id string) (*domain.Device, error) {
	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get device %s: %w", id, err)
	}
	if !snap.Exists() {
		return nil, domain.ErrNotFound
	}
	return deviceFromData(snap.Ref.ID, snap.Data()), nil
}

// ListDevices streams every document in the collection
func (r *FirestoreRepository) ListDevices(ctx context.Context) ([]*domain.Device, error) {
	iter := r.client.Collection(r.collection).Documents(ctx)
	defer iter.Stop()

	devices := []*domain.Device{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list devices: %w", err)
		}
		devices = append(devices, deviceFromData(snap.Ref.ID, snap.Data()))
	}
	return devices, nil
}

// CountDevices runs a server-side count aggregation
func (r *FirestoreRepository) CountDevices(ctx context.Context) (int, error) {
	result, err := r.client.Collection(r.collection).NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count devices: %w", err)
	}
	value, ok := result["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count result type %T", result["all"])
	}
	return int(value.GetIntegerValue()), nil
}

// deviceFromData maps a document's fields onto a Device, keeping unknown fields in Extra.
func deviceFromData(id string, data map[string]interface{}) *domain.Device {
	device := &domain.Device{ID: id, Extra: domain.Map{}}
	for k, v := range data {
		switch k {
		case fieldFCMToken:
			if s, ok := v.(string); ok {
				device.FCMToken = &s
				continue
			}
		case fieldStatus:
			if s, ok := v.(string); ok {
				device.Status = domain.DeviceStatus(s)
				continue
			}
		case fieldLastSeen:
			if t, ok := v.(time.Time); ok {
				device.LastSeen = &t
				continue
			}
		case "device_id":
			continue
		}
		// Values of unexpected type (e.g. a null fcm_token) are passed through as stored.
		device.Extra[k] = v
	}
	return device
}
