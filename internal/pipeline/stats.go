package pipeline

import (
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v3/process"
)

type stage struct {
	name     string
	duration time.Duration
}

// runStats collects per-stage timings for the performance report.
type runStats struct {
	start  time.Time
	last   time.Time
	stages []stage
}

func newRunStats() *runStats {
	now := time.Now()
	return &runStats{start: now, last: now}
}

func (s *runStats) mark(name string) {
	now := time.Now()
	s.stages = append(s.stages, stage{name: name, duration: now.Sub(s.last)})
	s.last = now
}

func (s *runStats) report(logger hclog.Logger, run string) {
	args := []any{"run", run, "total", time.Since(s.start).Round(time.Millisecond)}
	for _, st := range s.stages {
		args = append(args, st.name, st.duration.Round(time.Millisecond))
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			args = append(args, "rss_mb", mem.RSS/1024/1024)
		}
		if cpu, err := proc.Times(); err == nil {
			args = append(args, "cpu_s", cpu.User+cpu.System)
		}
	}

	logger.Info("performance report", args...)
}
