package hls

import (
	"sync"
	"time"
)

const (
	// minSampleBytes keeps latency-bound tiny manifests out of the estimate.
	minSampleBytes = 16 * 1024
	ewmaAlpha      = 0.3
)

// Estimator tracks download throughput as an exponentially weighted moving average.
type Estimator struct {
	mu       sync.Mutex
	estimate float64
	samples  int
}

// Sample records a download of n bytes that took elapsed.
func (e *Estimator) Sample(n int, elapsed time.Duration) {
	if n < minSampleBytes || elapsed <= 0 {
		return
	}

	bps := float64(n) * 8 / elapsed.Seconds()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.samples == 0 {
		e.estimate = bps
	} else {
		e.estimate = ewmaAlpha*bps + (1-ewmaAlpha)*e.estimate
	}
	e.samples++
}

// Estimate returns bits per second, or 0 while no usable sample exists.
func (e *Estimator) Estimate() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return int(e.estimate)
}
