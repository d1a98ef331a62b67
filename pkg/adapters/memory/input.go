package memory

import (
	"sync"

	"github.com/aretw0/parley/pkg/domain"
)

// InputQueue implements ports.InputReader by replaying queued frames.
// Once the queue is empty every frame reports no input.
// Safe for concurrent use.
type InputQueue struct {
	mu     sync.Mutex
	frames []domain.Input
}

// NewInputQueue creates a queue pre-filled with frames.
func NewInputQueue(frames ...domain.Input) *InputQueue {
	return &InputQueue{frames: append([]domain.Input(nil), frames...)}
}

// Push appends frames to the queue.
func (q *InputQueue) Push(frames ...domain.Input) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.frames = append(q.frames, frames...)
}

// ReadInput pops the next frame.
func (q *InputQueue) ReadInput() domain.Input {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.frames) == 0 {
		return domain.Input{}
	}
	next := q.frames[0]
	q.frames = q.frames[1:]
	return next
}

// Len returns the number of frames still queued.
func (q *InputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}

// Press returns the frame of a fresh confirm press.
func Press() domain.Input {
	return domain.Input{ConfirmJustPressed: true, ConfirmHeld: true}
}

// Hold returns n frames of a confirm press held down: the first frame is the edge,
// the rest only report the level.
func Hold(n int) []domain.Input {
	frames := make([]domain.Input, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, domain.Input{ConfirmJustPressed: i == 0, ConfirmHeld: true})
	}
	return frames
}

// Idle returns n frames without input.
func Idle(n int) []domain.Input {
	return make([]domain.Input, n)
}
