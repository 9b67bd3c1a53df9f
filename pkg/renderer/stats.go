package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of rays traced
	Hits         int           // Rays that hit a primitive
	Misses       int           // Rays that fell through to the background
	RowsRendered int           // Completed rows
	NumWorkers   int           // Workers used for the render
	Elapsed      time.Duration // Wall-clock render time
}

// Add merges the counters of another stats value into s
func (s *RenderStats) Add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.Hits += other.Hits
	s.Misses += other.Misses
	s.RowsRendered += other.RowsRendered
}

// HitRatio returns the fraction of traced rays that hit a primitive
func (s RenderStats) HitRatio() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalSamples)
}

// AverageSamples returns the mean number of rays per pixel
func (s RenderStats) AverageSamples() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalSamples) / float64(s.TotalPixels)
}
