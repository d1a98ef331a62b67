package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/parley/pkg/domain"
)

// Loader implements ports.ScriptLoader using an in-memory map of raw payloads.
// Safe for concurrent use.
type Loader struct {
	mu       sync.RWMutex
	payloads map[string]any
}

// NewLoader creates a new in-memory loader with the provided raw payloads.
// Values may be any shape accepted by domain.Decode.
func NewLoader(payloads map[string]any) *Loader {
	data := make(map[string]any, len(payloads))
	for k, v := range payloads {
		data[k] = v
	}
	return &Loader{payloads: data}
}

// NewFromScripts creates a loader from already validated scripts.
// This improves DX for tests.
func NewFromScripts(scripts map[string]*domain.Script) (*Loader, error) {
	data := make(map[string]any, len(scripts))
	for id, s := range scripts {
		if s == nil {
			return nil, fmt.Errorf("script %s is nil", id)
		}
		data[id] = s.Payload()
	}
	return &Loader{payloads: data}, nil
}

// Put registers or replaces a payload.
func (l *Loader) Put(id string, payload any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.payloads[id] = payload
}

// LoadScript returns the raw payload registered under id.
func (l *Loader) LoadScript(ctx context.Context, id string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	payload, ok := l.payloads[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrScriptNotFound, id)
	}
	return payload, nil
}

// ListScripts returns all registered names.
func (l *Loader) ListScripts(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]string, 0, len(l.payloads))
	for k := range l.payloads {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
