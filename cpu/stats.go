package cpu

import (
	"time"
)

// Stats counts executed steps and the time spent executing them. Time spent
// blocked on I/O is excluded by stopping the timer around stream calls.
type Stats struct {
	Silent bool   // If set, steps are not counted.
	Steps  uint64 // Executed steps.

	active    time.Duration
	lastStart time.Time
	running   bool
}

// NewStats creates statistics with a running timer.
func NewStats(silent bool) (stats *Stats) {
	stats = &Stats{Silent: silent}
	stats.StartTimer()
	return
}

// Count records one executed step.
func (stats *Stats) Count() {
	if !stats.Silent {
		stats.Steps++
	}
}

// StartTimer resumes the active-time timer.
func (stats *Stats) StartTimer() {
	if stats.running {
		return
	}
	stats.lastStart = time.Now()
	stats.running = true
}

// StopTimer pauses the active-time timer.
func (stats *Stats) StopTimer() {
	if !stats.running {
		return
	}
	stats.active += time.Since(stats.lastStart)
	stats.running = false
}

// Elapsed returns the accumulated active time.
func (stats *Stats) Elapsed() (elapsed time.Duration) {
	elapsed = stats.active
	if stats.running {
		elapsed += time.Since(stats.lastStart)
	}
	return
}

// Report stops the timer and formats the run summary.
func (stats *Stats) Report() string {
	stats.StopTimer()
	return f("Finished after %.4gs (%d FJ ops executed).", stats.Elapsed().Seconds(), stats.Steps)
}
