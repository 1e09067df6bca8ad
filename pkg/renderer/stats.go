package renderer

import "time"

// RenderStats describes one pass, or the sum of several
type RenderStats struct {
	Passes          int
	Pixels          int           // pixels visited
	TotalSamples    int           // primary samples of every kind
	AdaptiveSamples int           // extra samples from adaptive refinement
	FireflySamples  int           // extra samples from firefly suppression
	Rays            int64         // scene intersections
	Duration        time.Duration // wall time
}

// AverageSamples returns the mean number of primary samples per pixel
func (s RenderStats) AverageSamples() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.TotalSamples) / float64(s.Pixels)
}

// RaysPerSecond returns the intersection throughput
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Rays) / s.Duration.Seconds()
}

// Add accumulates other into s. Durations add up, so merging the stats of
// concurrent tiles measures busy time, not wall time.
func (s *RenderStats) Add(other RenderStats) {
	s.Passes += other.Passes
	s.Pixels += other.Pixels
	s.TotalSamples += other.TotalSamples
	s.AdaptiveSamples += other.AdaptiveSamples
	s.FireflySamples += other.FireflySamples
	s.Rays += other.Rays
	s.Duration += other.Duration
}
