package cpu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStats_Count(t *testing.T) {
	assert := assert.New(t)

	stats := NewStats(false)
	for range 1234567 {
		stats.Count()
	}
	assert.Equal(uint64(1234567), stats.Steps)

	silent := NewStats(true)
	silent.Count()
	assert.Equal(uint64(0), silent.Steps)
}

func TestStats_Timer(t *testing.T) {
	assert := assert.New(t)

	stats := NewStats(false)
	stats.StopTimer()
	stopped := stats.Elapsed()

	// Time while stopped is not counted.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(stopped, stats.Elapsed())

	// Repeated stops and starts are harmless.
	stats.StopTimer()
	stats.StartTimer()
	stats.StartTimer()
	time.Sleep(time.Millisecond)
	assert.Greater(stats.Elapsed(), stopped)
}

func TestStats_Report(t *testing.T) {
	assert := assert.New(t)

	stats := NewStats(false)
	stats.Steps = 1234567
	report := stats.Report()

	assert.Contains(report, "Finished after")
	assert.Contains(report, "FJ ops executed")
	assert.Regexp(`1\D234\D567`, report)
	assert.False(stats.running)
}
