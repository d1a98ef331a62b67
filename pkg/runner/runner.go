package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
)

// ErrNotRunning is returned when Run is called on an idle engine.
var ErrNotRunning = errors.New("no conversation is running")

// ErrFrameBudget is returned when the conversation is still open after MaxFrames ticks,
// typically because the key script ran out before the box was dismissed.
var ErrFrameBudget = errors.New("frame budget exhausted")

// Driver is the part of the engine the runner needs.
type Driver interface {
	Tick(elapsed time.Duration)
	State() domain.State
}

// Closer is implemented by drivers that can be closed on interrupt or cancellation.
type Closer interface {
	ForceClose()
}

// Result summarizes a run.
type Result struct {
	Frames      int
	Elapsed     time.Duration
	Interrupted bool
}

// Runner ticks a Driver until its conversation closes.
type Runner struct {
	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	Frame           time.Duration
	MaxFrames       int
	Realtime        bool
	InterruptSource <-chan struct{}
}

// New creates a Runner with a fixed 1/60s step and the default frame budget.
func New(opts ...Option) *Runner {
	r := &Runner{
		Frame:     DefaultFrame,
		MaxFrames: DefaultMaxFrames,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run drives d until it returns to Idle.
//
// On context cancellation or interrupt the box is force-closed when d implements Closer.
// Cancellation returns ctx.Err(); an interrupt is reported through Result.Interrupted.
func (r *Runner) Run(ctx context.Context, d Driver) (Result, error) {
	var res Result
	if d.State() == domain.StateIdle {
		return res, ErrNotRunning
	}

	var ticks <-chan time.Time
	last := time.Now()
	if r.Realtime {
		ticker := time.NewTicker(r.Frame)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for d.State() != domain.StateIdle {
		if r.MaxFrames > 0 && res.Frames >= r.MaxFrames {
			r.Logger.Warn("Frame budget exhausted", "frames", res.Frames, "state", d.State().String())
			return res, fmt.Errorf("%w: still %s after %d frames", ErrFrameBudget, d.State(), res.Frames)
		}

		elapsed := r.Frame
		if r.Realtime {
			select {
			case <-ctx.Done():
				r.close(d)
				return res, ctx.Err()
			case <-r.InterruptSource:
				r.close(d)
				res.Interrupted = true
				return res, nil
			case now := <-ticks:
				elapsed = now.Sub(last)
				last = now
			}
		} else {
			select {
			case <-ctx.Done():
				r.close(d)
				return res, ctx.Err()
			case <-r.InterruptSource:
				r.close(d)
				res.Interrupted = true
				return res, nil
			default:
			}
		}

		d.Tick(elapsed)
		res.Frames++
		res.Elapsed += elapsed
	}

	r.Logger.Debug("Conversation finished", "frames", res.Frames, "elapsed", res.Elapsed)
	return res, nil
}

func (r *Runner) close(d Driver) {
	if c, ok := d.(Closer); ok {
		c.ForceClose()
	}
}
