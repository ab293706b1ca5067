package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/output"
)

// Profiler tracks frame rate, memory and dispatch statistics for performance monitoring.
// Outputs stats through common.Logger at a configurable interval.
type Profiler struct {
	frameCount     int
	skippedFrames  int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	dispatch output.DispatchStats

	now func() time.Time
}

// Report is the summary logged at the end of each interval.
type Report struct {
	FPS           float64
	SkippedFrames int
	HeapMB        float64
	AllocRateMB   float64
	SysMB         float64
	GCCount       uint32
	LastPauseUs   uint64
	MaxPauseUs    uint64

	// Dispatch holds per-frame averages over the interval.
	Dispatch output.DispatchStats
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - interval: how often stats are logged; values <= 0 use the default
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Record adds the statistics of one presented frame.
//
// Parameters:
//   - stats: what the frame's dispatch recorded
func (p *Profiler) Record(stats output.DispatchStats) {
	p.dispatch.Add(stats)
}

// Skip counts a frame that could not be presented, such as one with no surface image.
func (p *Profiler) Skip() {
	p.skippedFrames++
}

// Tick should be called once per render loop iteration to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - *Report: the logged report if the interval elapsed this tick, nil otherwise
func (p *Profiler) Tick() *Report {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return nil
	}

	rep := &Report{
		FPS:           float64(p.frameCount) / elapsed.Seconds(),
		SkippedFrames: p.skippedFrames,
		Dispatch:      average(p.dispatch, p.frameCount-p.skippedFrames),
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap, TotalAlloc is cumulative and tracks churn, Sys is the process footprint.
	rep.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	rep.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	rep.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	rep.GCCount = p.memStats.NumGC
	if rep.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		rep.LastPauseUs = p.memStats.PauseNs[(rep.GCCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if rep.GCCount-startIdx > 256 {
			startIdx = rep.GCCount - 256
		}
		for i := startIdx; i < rep.GCCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > rep.MaxPauseUs {
				rep.MaxPauseUs = pause
			}
		}
	}

	common.Logger().Info("profiler",
		slog.Float64("fps", rep.FPS),
		slog.Int("skipped_frames", rep.SkippedFrames),
		slog.Float64("heap_mb", rep.HeapMB),
		slog.Float64("alloc_rate_mb_s", rep.AllocRateMB),
		slog.Uint64("gc", uint64(rep.GCCount)),
		slog.Uint64("gc_last_pause_us", rep.LastPauseUs),
		slog.Uint64("gc_max_pause_us", rep.MaxPauseUs),
		slog.Float64("sys_mb", rep.SysMB),
		slog.Group("dispatch",
			slog.Int("classes", rep.Dispatch.Classes),
			slog.Int("pipeline_binds", rep.Dispatch.PipelineBinds),
			slog.Int("bind_group_binds", rep.Dispatch.BindGroupBinds),
			slog.Int("draws", rep.Dispatch.Draws),
			slog.Int("indices", rep.Dispatch.Indices),
			slog.Int("skipped", rep.Dispatch.Skipped),
		),
	)

	p.frameCount = 0
	p.skippedFrames = 0
	p.dispatch = output.DispatchStats{}
	p.lastTime = currentTime
	p.lastGCCount = rep.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return rep
}

func average(s output.DispatchStats, frames int) output.DispatchStats {
	if frames <= 0 {
		return output.DispatchStats{}
	}
	return output.DispatchStats{
		Classes:           s.Classes / frames,
		PipelineBinds:     s.PipelineBinds / frames,
		BindGroupBinds:    s.BindGroupBinds / frames,
		VertexBufferBinds: s.VertexBufferBinds / frames,
		IndexBufferBinds:  s.IndexBufferBinds / frames,
		Draws:             s.Draws / frames,
		Indices:           s.Indices / frames,
		Skipped:           s.Skipped / frames,
	}
}

// Skipped returns the number of frames skipped since the last report.
func (p *Profiler) Skipped() int {
	return p.skippedFrames
}
