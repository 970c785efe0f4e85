package core

import "time"

const AVG_COUNT uint8 = 30

// LoadMetrics keeps a rolling average over the last AVG_COUNT mesh loads.
type LoadMetrics struct {
	avgCounter uint8
	samples    [AVG_COUNT]time.Duration
	filled     uint8

	Loads    uint64
	Failures uint64
}

func NewLoadMetrics() *LoadMetrics {
	return &LoadMetrics{}
}

// Record adds one load attempt. Failed loads count but do not enter the average.
func (m *LoadMetrics) Record(elapsed time.Duration, failed bool) {
	m.Loads++
	if failed {
		m.Failures++
		return
	}
	m.samples[m.avgCounter] = elapsed
	m.avgCounter = (m.avgCounter + 1) % AVG_COUNT
	if m.filled < AVG_COUNT {
		m.filled++
	}
}

// Average returns the mean duration of the recorded successful loads.
func (m *LoadMetrics) Average() time.Duration {
	if m.filled == 0 {
		return 0
	}
	var total time.Duration
	for i := uint8(0); i < m.filled; i++ {
		total += m.samples[i]
	}
	return total / time.Duration(m.filled)
}
