package simulation

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shubh-37/peyza-simulator/internal/models"
)

// ProfileProvider supplies the acting user at the start of each tick
type ProfileProvider interface {
	Profile() models.UserProfile
}

// PostStore owns the post collection. Update hands the current posts to fn and
// installs the Result it returns, with no other write in between.
type PostStore interface {
	Update(fn func(posts []models.Post) Result) Result
}

// TickListener observes committed tick results (persistence, delivery, caching)
type TickListener interface {
	HandleTick(ctx context.Context, res Result) error
}

// TickListenerFunc adapts a function to TickListener
type TickListenerFunc func(ctx context.Context, res Result) error

func (f TickListenerFunc) HandleTick(ctx context.Context, res Result) error {
	return f(ctx, res)
}

// Runner drives a Simulator on a fixed interval
type Runner struct {
	sim       *Simulator
	interval  time.Duration
	nowFunc   func() time.Time
	listeners []TickListener
}

type RunnerOption func(*Runner)

// WithClock overrides the wall clock used to age posts
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.nowFunc = now
	}
}

// WithListeners registers listeners called after every committed tick
func WithListeners(listeners ...TickListener) RunnerOption {
	return func(r *Runner) {
		r.listeners = append(r.listeners, listeners...)
	}
}

// WithInterval overrides the model's tick interval
func WithInterval(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.interval = d
	}
}

func NewRunner(sim *Simulator, opts ...RunnerOption) *Runner {
	r := &Runner{
		sim:      sim,
		interval: sim.Model().TickInterval,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle controls a started schedule
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the schedule and waits until the ticker is released.
// It is safe to call more than once.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the loop has exited
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start runs one tick per interval until ctx is cancelled or Stop is called.
// Ticks never overlap: each one finishes, listeners included, before the next.
func (r *Runner) Start(ctx context.Context, profiles ProfileProvider, posts PostStore) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		log.Printf("🚀 Engagement simulator running (every %s)", r.interval)

		for {
			select {
			case <-ctx.Done():
				log.Println("Engagement simulator stopped")
				return
			case <-ticker.C:
				r.RunOnce(ctx, profiles, posts)
			}
		}
	}()

	return h
}

// RunOnce performs a single tick. A panic during the tick is logged and
// swallowed so the schedule keeps going.
func (r *Runner) RunOnce(ctx context.Context, profiles ProfileProvider, posts PostStore) (res Result, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("❌ Tick failed: %v", p)
			ok = false
		}
	}()

	profile := profiles.Profile()
	now := r.nowFunc()
	res = posts.Update(func(current []models.Post) Result {
		return r.sim.Tick(current, profile, now)
	})

	if res.Skipped > 0 {
		log.Printf("⚠️ Skipped %d malformed post(s) this tick", res.Skipped)
	}

	for _, l := range r.listeners {
		if err := l.HandleTick(ctx, res); err != nil {
			log.Printf("⚠️ Tick listener failed: %v", err)
		}
	}

	return res, true
}
