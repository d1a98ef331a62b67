package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
	"golang.org/x/term"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// createLogger configures the application logger.
// In debug mode, it writes to w (stderr) to keep stdout for the transcript.
func createLogger(debug bool, w io.Writer) *slog.Logger {
	if debug {
		return logging.NewWithWriter(w, logging.Level(debug))
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// resolveName picks the conversation to play: the given name, or the only one the
// source holds.
func resolveName(ctx context.Context, eng *parley.Engine, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	names, err := eng.Scripts(ctx)
	if err != nil {
		return "", err
	}
	switch len(names) {
	case 0:
		return "", errors.New("source holds no conversations")
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("source holds %d conversations, name one of %v", len(names), names)
	}
}

// loadScript reads and decodes one conversation from source.
func loadScript(ctx context.Context, source, name string) (*domain.Script, string, error) {
	if source == "" {
		return nil, "", errors.New("no script source: pass --source or set it in the config")
	}
	eng, err := parley.New(source)
	if err != nil {
		return nil, "", err
	}
	name, err = resolveName(ctx, eng, name)
	if err != nil {
		return nil, "", err
	}
	payload, err := eng.Loader().LoadScript(ctx, name)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	script, err := domain.Decode(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	return script, name, nil
}
