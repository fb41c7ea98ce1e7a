package triangle

import (
	"fmt"
	"time"
)

// FrameTimes accumulates the wall-clock duration of rendered frames.
// The zero value is ready to use.
type FrameTimes struct {
	armed  bool
	last   time.Duration
	frames int
	total  time.Duration
	min    time.Duration
	max    time.Duration
}

// Tick records that a frame finished at the given timestamp, typically
// hrtime.Now(). The first call only arms the clock; each later call
// accounts one frame.
func (ft *FrameTimes) Tick(now time.Duration) {
	if !ft.armed {
		ft.armed = true
		ft.last = now
		return
	}

	elapsed := now - ft.last
	ft.last = now

	if ft.frames == 0 || elapsed < ft.min {
		ft.min = elapsed
	}
	if ft.frames == 0 || elapsed > ft.max {
		ft.max = elapsed
	}
	ft.frames++
	ft.total += elapsed
}

// Frames reports how many frames have been accounted so far.
func (ft *FrameTimes) Frames() int {
	return ft.frames
}

// Average reports the mean frame duration, or zero before any frame
// completes.
func (ft *FrameTimes) Average() time.Duration {
	if ft.frames == 0 {
		return 0
	}

	return ft.total / time.Duration(ft.frames)
}

func (ft *FrameTimes) String() string {
	if ft.frames == 0 {
		return "no frames recorded"
	}

	avg := ft.Average()
	var fps float64
	if avg > 0 {
		fps = float64(time.Second) / float64(avg)
	}

	return fmt.Sprintf("%d frames, avg %v (%.1f fps), min %v, max %v", ft.frames, avg, fps, ft.min, ft.max)
}
