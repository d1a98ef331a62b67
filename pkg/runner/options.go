package runner

import (
	"log/slog"
	"time"
)

// DefaultFrame is the fixed step of a headless run (60 frames per second).
const DefaultFrame = time.Second / 60

// DefaultMaxFrames bounds a headless run; about three minutes at DefaultFrame.
const DefaultMaxFrames = 10_000

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithFrame sets the step passed to Tick (and the ticker period in realtime mode).
func WithFrame(frame time.Duration) Option {
	return func(r *Runner) {
		if frame > 0 {
			r.Frame = frame
		}
	}
}

// WithMaxFrames sets the frame budget. Zero or less disables the budget.
func WithMaxFrames(n int) Option {
	return func(r *Runner) {
		r.MaxFrames = n
	}
}

// WithRealtime paces the loop with a wall-clock ticker and passes the measured
// elapsed time to Tick instead of the fixed step.
func WithRealtime(realtime bool) Option {
	return func(r *Runner) {
		r.Realtime = realtime
	}
}

// WithInterruptSource sets a channel that signals the runner to close the box and stop.
func WithInterruptSource(ch <-chan struct{}) Option {
	return func(r *Runner) {
		r.InterruptSource = ch
	}
}
