package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajna/ajna-hub/internal/config"
	"github.com/ajna/ajna-hub/internal/domain"
	"github.com/ajna/ajna-hub/internal/metrics"
	"github.com/ajna/ajna-hub/internal/sysinfo"
)

const testAPIKey = "test-api-key-12345"

func strPtr(s string) *string { return &s }

// fakeStore is an in-memory device store with merge semantics.
type fakeStore struct {
	mu      sync.Mutex
	devices map[string]*domain.Device
	calls   int
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{devices: map[string]*domain.Device{}}
}

func (s *fakeStore) MergeDevice(_ context.Context, id string, u domain.DeviceUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	d, ok := s.devices[id]
	if !ok {
		d = &domain.Device{ID: id}
		s.devices[id] = d
	}
	if u.FCMToken != nil {
		token := *u.FCMToken
		d.FCMToken = &token
	}
	if u.Status != "" {
		d.Status = u.Status
	}
	if u.TouchLastSeen {
		now := time.Now().UTC()
		d.LastSeen = &now
	}
	return nil
}

func (s *fakeStore) GetDevice(_ context.Context, id string) (*domain.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	d, ok := s.devices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *fakeStore) ListDevices(_ context.Context) ([]*domain.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := []*domain.Device{}
	for _, d := range s.devices {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStore) CountDevices(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return len(s.devices), nil
}

type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) Send(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	args := m.Called(ctx, token, title, body, data)
	return args.String(0), args.Error(1)
}

type stubGenerator struct {
	status int
	body   []byte
	err    error
	prompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (int, []byte, error) {
	g.prompt = prompt
	return g.status, g.body, g.err
}

type stubSampler struct {
	usage sysinfo.Usage
	err   error
}

func (s stubSampler) Sample(context.Context) (sysinfo.Usage, error) {
	return s.usage, s.err
}

type testServer struct {
	handler   http.Handler
	store     *fakeStore
	pusher    *MockPusher
	generator *stubGenerator
	metrics   *metrics.Metrics
}

func newTestServer(t *testing.T, auth config.AuthConfig) *testServer {
	t.Helper()

	logger := zap.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, reg)
	store := newFakeStore()
	pusher := new(MockPusher)
	generator := &stubGenerator{status: http.StatusOK, body: []byte(`{"response":"hi","done":true}`)}

	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}},
		Auth:   auth,
	}

	deviceService := domain.NewDeviceService(store)
	router := NewRouter(
		NewHealthHandler(deviceService, logger),
		NewDeviceHandler(deviceService, logger),
		NewNotificationHandler(domain.NewNotificationService(store, pusher), m, logger),
		NewChatHandler(domain.NewChatService(generator), m, logger),
		NewDashboardHandler(deviceService, stubSampler{usage: sysinfo.Usage{CPUPercent: 12.5, MemoryPercent: 40, DiskPercent: 70}}, "abc1234", time.Now().Add(-time.Hour), logger),
		cfg,
		m,
		logger,
	)

	return &testServer{
		handler:   router.Setup(),
		store:     store,
		pusher:    pusher,
		generator: generator,
		metrics:   m,
	}
}

func enforced() config.AuthConfig {
	return config.AuthConfig{APIKey: testAPIKey, Enforce: true}
}

// do sends an authenticated request with an optional JSON body.
func (s *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}
