package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/storeops/storeconsole/pkg/metrics"
	"go.uber.org/zap"
)

// ProbeStatus is the latest health probe result for one backend service.
type ProbeStatus struct {
	Service   string    `json:"service"`
	Healthy   bool      `json:"healthy"`
	LatencyMs int64     `json:"latency_ms"`
	Message   string    `json:"message,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// probeBoard keeps the last probe result per service. Probe results are
// operator information only; they never substitute data for a failed fetch.
type probeBoard struct {
	mu     sync.RWMutex
	status map[string]ProbeStatus
}

func newProbeBoard() *probeBoard {
	return &probeBoard{status: make(map[string]ProbeStatus)}
}

func (b *probeBoard) set(s ProbeStatus) {
	b.mu.Lock()
	b.status[s.Service] = s
	b.mu.Unlock()
}

func (b *probeBoard) all() map[string]ProbeStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]ProbeStatus, len(b.status))
	for k, v := range b.status {
		out[k] = v
	}
	return out
}

// BackendHealth returns the latest probe result per backend service.
func (a *Application) BackendHealth() map[string]ProbeStatus {
	return a.probes.all()
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	if iv := a.appConfig.View.RefreshInterval; iv > 0 {
		_, err = a.sched.AddFunc(fmt.Sprintf("@every %ds", iv), a.SchedViewRefreshTask)
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	if iv := a.appConfig.View.ProbeInterval; iv > 0 {
		_, err = a.sched.AddFunc(fmt.Sprintf("@every %ds", iv), a.SchedProbeBackendsTask)
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	a.sched.Start()
}

// SchedViewRefreshTask periodically rebuilds the view so an idle console
// does not drift arbitrarily far from the backends. Destructive decisions
// never read this snapshot; the guard always fetches fresh.
func (a *Application) SchedViewRefreshTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*a.appConfig.BackendTimeout())
	defer cancel()

	if _, err := a.refresher.RefreshAll(ctx); err != nil {
		zap.L().Warn("scheduled view refresh failed", zap.Error(err))
		return
	}
	metrics.SetGauge("view_refresh_scheduled", 1)
}

// SchedProbeBackendsTask probes both services and records their latency.
func (a *Application) SchedProbeBackendsTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), a.appConfig.BackendTimeout())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		latency, err := a.products.Ping(ctx)
		a.recordProbe("produits", latency, err)
	}()
	go func() {
		defer wg.Done()
		latency, err := a.orders.Ping(ctx)
		a.recordProbe("commandes", latency, err)
	}()
	wg.Wait()
}

func (a *Application) recordProbe(service string, latency time.Duration, err error) {
	status := ProbeStatus{
		Service:   service,
		Healthy:   err == nil,
		LatencyMs: latency.Milliseconds(),
		CheckedAt: time.Now(),
	}
	if err != nil {
		status.Message = err.Error()
		zap.L().Warn("backend probe failed", zap.String("service", service), zap.Error(err))
	}
	a.probes.set(status)
	metrics.RecordLatency("backend_latency_"+service, latency)
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	// Collect CPU usage
	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge("system_cpuuse", int64(_cpuuse[0]*100)) // Store as percentage * 100
	}

	// Collect memory usage
	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge("system_memuse", int64(_meminfo.Used/1024/1024)) //nolint:gosec // G115: memory MB value fits in int64
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return
	}

	// Collect process CPU usage
	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge("storeconsole_cpuuse", int64(cpuuse*100)) // Store as percentage * 100
	}

	// Collect process memory usage
	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge("storeconsole_memuse", int64(meminfo.RSS/1024/1024)) //nolint:gosec // G115: memory MB value fits in int64
	}
}
