// Package sysinfo samples host utilisation for the dashboard.
package sysinfo

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// Usage is a point-in-time utilisation snapshot in percent
type Usage struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
}

// Sampler reads host utilisation
type Sampler interface {
	Sample(ctx context.Context) (Usage, error)
}

// HostSampler reads CPU, memory and disk usage through gopsutil
type HostSampler struct {
	diskPath string
}

// NewHostSampler samples disk usage for the filesystem holding diskPath
func NewHostSampler(diskPath string) *HostSampler {
	if diskPath == "" {
		diskPath = "/"
	}
	return &HostSampler{diskPath: diskPath}
}

// Sample returns whatever it could read; the error reports the first failed reading.
func (s *HostSampler) Sample(ctx context.Context) (Usage, error) {
	var usage Usage
	var firstErr error
	record := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	// Interval 0 compares against the previous call instead of blocking.
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		record(fmt.Errorf("cpu: %w", err))
	} else if len(pct) > 0 {
		usage.CPUPercent = pct[0]
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		record(fmt.Errorf("memory: %w", err))
	} else {
		usage.MemoryPercent = vm.UsedPercent
	}

	if du, err := disk.UsageWithContext(ctx, s.diskPath); err != nil {
		record(fmt.Errorf("disk: %w", err))
	} else {
		usage.DiskPercent = du.UsedPercent
	}

	return usage, firstErr
}
