package api

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ajna/ajna-hub/internal/sysinfo"
	"github.com/ajna/ajna-hub/pkg/response"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// DeviceCounter is satisfied by domain.DeviceService
type DeviceCounter interface {
	Count(ctx context.Context) (int, error)
}

// DeviceCount renders as a number, or "unavailable" when the store could not be read.
type DeviceCount struct {
	N         int
	Available bool
}

func (c DeviceCount) MarshalJSON() ([]byte, error) {
	if !c.Available {
		return json.Marshal("unavailable")
	}
	return json.Marshal(c.N)
}

func (c DeviceCount) String() string {
	if !c.Available {
		return "unavailable"
	}
	return strconv.Itoa(c.N)
}

// Dashboard is the monitoring snapshot
type Dashboard struct {
	Timestamp     string        `json:"timestamp"`
	Version       string        `json:"version"`
	Uptime        string        `json:"uptime"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	Devices       DeviceCount   `json:"device_count"`
	System        sysinfo.Usage `json:"system"`
}

type DashboardHandler struct {
	devices   DeviceCounter
	sampler   sysinfo.Sampler
	version   string
	startTime time.Time
	logger    *zap.Logger
}

func NewDashboardHandler(devices DeviceCounter, sampler sysinfo.Sampler, version string, startTime time.Time, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		devices:   devices,
		sampler:   sampler,
		version:   version,
		startTime: startTime,
		logger:    logger,
	}
}

// Snapshot gathers the dashboard data; failing sources degrade to placeholders.
func (h *DashboardHandler) Snapshot(ctx context.Context) Dashboard {
	uptime := time.Since(h.startTime)
	d := Dashboard{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       h.version,
		Uptime:        uptime.Truncate(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
	}

	if n, err := h.devices.Count(ctx); err != nil {
		h.logger.Warn("device count unavailable", zap.Error(err))
	} else {
		d.Devices = DeviceCount{N: n, Available: true}
	}

	usage, err := h.sampler.Sample(ctx)
	if err != nil {
		h.logger.Warn("host metrics incomplete", zap.Error(err))
	}
	d.System = usage

	return d
}

// Dashboard serves the snapshot as JSON (format=json) or as an HTML page
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snapshot := h.Snapshot(r.Context())

	if r.URL.Query().Get("format") == "json" {
		response.OK(w, snapshot)
		return
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, snapshot); err != nil {
		h.logger.Error("failed to render dashboard", zap.Error(err))
		response.InternalError(w, "failed to render dashboard")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
