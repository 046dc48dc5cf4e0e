package timectrl

import (
	"sync"
	"time"
)

// Mode describes how the FrameTicker advances simulation frames.
type Mode int

const (
	// RealTime paces frames by wall-clock time at the configured interval.
	RealTime Mode = iota
	// Accelerated fires frames as quickly as the listeners can run while
	// still advancing simulation time by Interval per frame.
	Accelerated
)

// DefaultInterval approximates a 60 Hz update loop.
const DefaultInterval = time.Second / 60

// FrameTicker drives the per-frame update loop and notifies registered
// listeners with the frame number and the current simulation time.
// Listeners run sequentially on the ticker goroutine; a slow listener
// delays the next frame rather than dropping it.
type FrameTicker struct {
	mu        sync.RWMutex
	StartTime time.Time
	Interval  time.Duration
	Mode      Mode

	// currentTime tracks simulation time, advanced by Interval per frame.
	currentTime time.Time
	frame       int

	listeners []func(frame int, now time.Time)
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewFrameTicker constructs a ticker. A zero interval falls back to
// DefaultInterval; a zero start time falls back to time.Now().
func NewFrameTicker(start time.Time, interval time.Duration, mode Mode) *FrameTicker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if start.IsZero() {
		start = time.Now()
	}
	return &FrameTicker{
		StartTime:   start,
		Interval:    interval,
		Mode:        mode,
		currentTime: start,
		stop:        make(chan struct{}),
	}
}

// Now returns the current simulation time.
func (ft *FrameTicker) Now() time.Time {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.currentTime
}

// Frame returns the number of frames fired so far.
func (ft *FrameTicker) Frame() int {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.frame
}

// AddListener registers a callback invoked on every frame. Listeners must
// be registered before Start.
func (ft *FrameTicker) AddListener(fn func(frame int, now time.Time)) {
	ft.listeners = append(ft.listeners, fn)
}

// Stop requests the ticker to finish. It only prevents future frames; a
// frame already in flight completes. Safe to call more than once.
func (ft *FrameTicker) Stop() {
	ft.stopOnce.Do(func() { close(ft.stop) })
}

// Start runs the ticker in a separate goroutine for the given simulation
// duration (zero means until Stop). It returns a channel that is closed
// when the ticker finishes.
func (ft *FrameTicker) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		ft.mu.Lock()
		simTime := ft.StartTime
		ft.currentTime = simTime
		ft.mu.Unlock()

		elapsed := time.Duration(0)

		var tick <-chan time.Time
		if ft.Mode == RealTime {
			ticker := time.NewTicker(ft.Interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			if duration > 0 && elapsed >= duration {
				return
			}

			if tick != nil {
				select {
				case <-ft.stop:
					return
				case <-tick:
				}
			} else {
				select {
				case <-ft.stop:
					return
				default:
				}
			}

			simTime = simTime.Add(ft.Interval)
			elapsed += ft.Interval

			ft.mu.Lock()
			ft.currentTime = simTime
			ft.frame++
			frame := ft.frame
			ft.mu.Unlock()

			for _, fn := range ft.listeners {
				fn(frame, simTime)
			}
		}
	}()
	return done
}
