package domain

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockPusher records push sends.
type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) Send(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	args := m.Called(ctx, token, title, body, data)
	return args.String(0), args.Error(1)
}

// memRepo is an in-memory DeviceRepository with document-store merge semantics.
type memRepo struct {
	mu      sync.Mutex
	devices map[string]*Device
	calls   int
	err     error
	now     func() time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		devices: map[string]*Device{},
		now:     time.Now,
	}
}

func (r *memRepo) MergeDevice(_ context.Context, id string, update DeviceUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	d, ok := r.devices[id]
	if !ok {
		d = &Device{ID: id}
		r.devices[id] = d
	}
	if update.FCMToken != nil {
		token := *update.FCMToken
		d.FCMToken = &token
	}
	if update.Status != "" {
		d.Status = update.Status
	}
	if update.TouchLastSeen {
		t := r.now()
		d.LastSeen = &t
	}
	return nil
}

func (r *memRepo) GetDevice(_ context.Context, id string) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	d, ok := r.devices[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memRepo) ListDevices(_ context.Context) ([]*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	var out []*Device
	for _, d := range r.devices {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRepo) CountDevices(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return 0, r.err
	}
	return len(r.devices), nil
}
