package carousel

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultInterval is the time each image stays on screen while playing.
const DefaultInterval = 5 * time.Second

// ErrClosed is returned by calls made after the controller was unmounted.
var ErrClosed = errors.New("carousel controller is closed")

// Snapshot is a copy of the rotation state at one point of the loop.
type Snapshot struct {
	Phase   Phase
	Index   int
	Playing bool
	Images  []ImageRecord

	// ActiveTimers is 1 while a ticker exists and 0 otherwise.
	ActiveTimers int
	// TimersStarted counts every ticker created since mount.
	TimersStarted int
}

// Current returns the image at the current index, false when idle.
func (s Snapshot) Current() (ImageRecord, bool) {
	if len(s.Images) == 0 {
		return ImageRecord{}, false
	}
	return s.Images[s.Index], true
}

// Controller runs the rotation loop for one mounted carousel. A single
// goroutine owns the State; every mutation goes through it.
type Controller struct {
	clock    clock.Clock
	interval time.Duration

	loaded   chan []ImageRecord
	toggle   chan chan Snapshot
	snapshot chan chan Snapshot

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// Mount starts the rotation loop and fires the one fetch of this mount. The
// fetch is not cancelled by Close; its result is dropped if it arrives late.
func Mount(ctx context.Context, fetcher Fetcher, clk clock.Clock, interval time.Duration) *Controller {
	if clk == nil {
		clk = clock.New()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	c := &Controller{
		clock:    clk,
		interval: interval,
		loaded:   make(chan []ImageRecord),
		toggle:   make(chan chan Snapshot),
		snapshot: make(chan chan Snapshot),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	go c.run()
	go c.fetch(ctx, fetcher)

	return c
}

func (c *Controller) fetch(ctx context.Context, fetcher Fetcher) {
	images := fetcher.FetchImages(ctx)
	select {
	case c.loaded <- images:
	case <-c.done:
		slog.Debug("carousel unmounted before fetch finished, discarding images", "count", len(images))
	}
}

// ticker wraps the only timer of a controller so that it can only be created
// when entering Playing and only stopped when leaving it.
type ticker struct {
	t       *clock.Ticker
	started int
}

func (tk *ticker) C() <-chan time.Time {
	if tk.t == nil {
		return nil
	}
	return tk.t.C
}

func (tk *ticker) active() int {
	if tk.t == nil {
		return 0
	}
	return 1
}

// sync makes ticker existence match the phase.
func (tk *ticker) sync(phase Phase, clk clock.Clock, interval time.Duration) {
	switch {
	case phase == Playing && tk.t == nil:
		tk.t = clk.Ticker(interval)
		tk.started++
	case phase != Playing && tk.t != nil:
		tk.t.Stop()
		tk.t = nil
	}
}

func (c *Controller) run() {
	defer close(c.stopped)

	state := NewState()
	var tk ticker

	snap := func() Snapshot {
		return Snapshot{
			Phase:         state.Phase(),
			Index:         state.Index(),
			Playing:       state.IsPlaying(),
			Images:        state.Images(),
			ActiveTimers:  tk.active(),
			TimersStarted: tk.started,
		}
	}

	for {
		select {
		case images := <-c.loaded:
			if state.Load(images) {
				tk.sync(state.Phase(), c.clock, c.interval)
				slog.Debug("carousel images loaded", "count", len(images), "phase", state.Phase())
			}
		case <-tk.C():
			state.Advance()
		case reply := <-c.toggle:
			state.TogglePlayPause()
			tk.sync(state.Phase(), c.clock, c.interval)
			reply <- snap()
		case reply := <-c.snapshot:
			reply <- snap()
		case <-c.done:
			tk.sync(Idle, c.clock, c.interval)
			return
		}
	}
}

// TogglePlayPause flips play/pause and returns the resulting snapshot.
func (c *Controller) TogglePlayPause() (Snapshot, error) {
	return c.request(c.toggle)
}

// Snapshot returns the current rotation state.
func (c *Controller) Snapshot() (Snapshot, error) {
	return c.request(c.snapshot)
}

func (c *Controller) request(ch chan chan Snapshot) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case ch <- reply:
	case <-c.done:
		return Snapshot{}, ErrClosed
	}
	return <-reply, nil
}

// Close unmounts the carousel: the ticker is stopped and the loop exits.
// It is safe to call more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	<-c.stopped
}
