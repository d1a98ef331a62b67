package ports

import "github.com/aretw0/parley/pkg/domain"

// InputReader reports the player input for the current frame.
// The engine calls ReadInput exactly once per Tick.
type InputReader interface {
	ReadInput() domain.Input
}

// InputFunc adapts a plain function to InputReader.
type InputFunc func() domain.Input

// ReadInput calls f.
func (f InputFunc) ReadInput() domain.Input {
	return f()
}
