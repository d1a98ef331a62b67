package runner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
)

// ParseKeys reads a key script into per-frame input snapshots.
//
// One command per line; blank lines and lines starting with '#' are ignored:
//
//	up [N]        N frames pressing up (default 1)
//	down [N]      N frames pressing down
//	confirm [N]   N presses, each followed by a release frame
//	hold N        confirm held for N frames, then released
//	wait N        N frames without input
func ParseKeys(r io.Reader) ([]domain.Input, error) {
	var frames []domain.Input
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		cmd := strings.ToLower(fields[0])
		n, err := parseCount(cmd, fields[1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		switch cmd {
		case "up":
			for i := 0; i < n; i++ {
				frames = append(frames, domain.Input{Up: true})
			}
		case "down":
			for i := 0; i < n; i++ {
				frames = append(frames, domain.Input{Down: true})
			}
		case "confirm":
			for i := 0; i < n; i++ {
				frames = append(frames, memory.Press(), domain.Input{})
			}
		case "hold":
			frames = append(frames, memory.Hold(n)...)
			frames = append(frames, domain.Input{})
		case "wait":
			frames = append(frames, memory.Idle(n)...)
		default:
			return nil, fmt.Errorf("line %d: unknown key %q", lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read key script: %w", err)
	}
	return frames, nil
}

func parseCount(cmd string, args []string) (int, error) {
	required := cmd == "hold" || cmd == "wait"
	switch {
	case len(args) == 0 && required:
		return 0, fmt.Errorf("%s needs a frame count", cmd)
	case len(args) == 0:
		return 1, nil
	case len(args) > 1:
		return 0, fmt.Errorf("%s takes at most one argument", cmd)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s: invalid count %q", cmd, args[0])
	}
	return n, nil
}

// Feed implements ports.InputReader over a parsed key script.
type Feed struct {
	queue       *memory.InputQueue
	autoConfirm bool
	gate        func() bool
	pressed     bool

	// holding is set while the last frame read kept confirm down; released marks a
	// hold the gate cut short, whose remaining frames are dropped.
	holding  bool
	released bool
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithAutoConfirm makes the feed alternate confirm presses and releases once the
// script is exhausted, so every conversation eventually closes (on the first option).
func WithAutoConfirm() FeedOption {
	return func(f *Feed) {
		f.autoConfirm = true
	}
}

// WithGate holds the script back while ready reports false: those frames read as no
// input and consume nothing. Gating on "the box waits for the player" lets a script
// be written as the sequence of decisions, without counting reveal frames.
// A hold interrupted by the gate counts as released: the rest of it is skipped
// instead of resuming as a fresh press.
func WithGate(ready func() bool) FeedOption {
	return func(f *Feed) {
		f.gate = ready
	}
}

// NewFeed creates a feed replaying frames in order.
func NewFeed(frames []domain.Input, opts ...FeedOption) *Feed {
	f := &Feed{queue: memory.NewInputQueue(frames...)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ReadInput returns the next scripted frame.
func (f *Feed) ReadInput() domain.Input {
	if f.gate != nil && !f.gate() {
		if f.holding {
			f.released = true
			f.holding = false
		}
		return domain.Input{}
	}
	if f.queue.Len() > 0 {
		in := f.next()
		f.holding = in.ConfirmHeld
		return in
	}
	if !f.autoConfirm {
		return domain.Input{}
	}
	f.pressed = !f.pressed
	if f.pressed {
		return memory.Press()
	}
	return domain.Input{}
}

// next pops the following frame, skipping what is left of a released hold.
func (f *Feed) next() domain.Input {
	in := f.queue.ReadInput()
	if f.released {
		for continuesHold(in) {
			if f.queue.Len() == 0 {
				in = domain.Input{}
				break
			}
			in = f.queue.ReadInput()
		}
		f.released = false
	}
	return in
}

func continuesHold(in domain.Input) bool {
	return in.ConfirmHeld && !in.ConfirmJustPressed
}

// Remaining returns the number of scripted frames not yet read.
func (f *Feed) Remaining() int {
	return f.queue.Len()
}
