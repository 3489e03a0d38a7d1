package viewer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/Faultbox/objviewer/internal/engine/renderer"
)

// statsWindow is how often FPS and memory are resampled.
const statsWindow = 500 * time.Millisecond

// FrameStats tracks frame timing and memory for the stats overlay.
type FrameStats struct {
	FPS       float64
	FrameTime time.Duration
	HeapBytes uint64
	Render    renderer.Stats

	frames    int
	last      time.Time
	windowBeg time.Time
}

// Tick records a frame ending at now.
func (s *FrameStats) Tick(now time.Time, render renderer.Stats) {
	s.Render = render
	if s.last.IsZero() {
		s.last, s.windowBeg = now, now
		return
	}
	s.FrameTime = now.Sub(s.last)
	s.last = now
	s.frames++

	if elapsed := now.Sub(s.windowBeg); elapsed >= statsWindow {
		s.FPS = float64(s.frames) / elapsed.Seconds()
		s.frames = 0
		s.windowBeg = now

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		s.HeapBytes = m.HeapAlloc
	}
}

// Lines formats the overlay rows.
func (s *FrameStats) Lines() []string {
	return []string{
		fmt.Sprintf("%.0f FPS", s.FPS),
		fmt.Sprintf("%.2f ms", float64(s.FrameTime.Microseconds())/1000),
		fmt.Sprintf("%.1f MB heap", float64(s.HeapBytes)/(1<<20)),
		fmt.Sprintf("%d draws, %d tris", s.Render.DrawCalls, s.Render.Triangles),
	}
}
