package parley

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/internal/runtime"
	"github.com/aretw0/parley/pkg/adapters/file"
	loamAdapter "github.com/aretw0/parley/pkg/adapters/loam"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/bwmarrin/snowflake"
)

// ErrNoLoader is returned by BeginNamed when the engine has no script source.
var ErrNoLoader = errors.New("no script loader configured")

// DefaultCadence is the interval between two revealed characters.
const DefaultCadence = runtime.DefaultCadence

// Engine is the high-level entry point for the Parley library.
// It wraps the internal runtime and resolves named conversations through a ScriptLoader.
//
// Like the runtime it is tick-driven and owned by a single game loop.
type Engine struct {
	runtime   *runtime.Engine
	loader    ports.ScriptLoader
	presenter ports.Presenter
	input     ports.InputReader
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	cadence   time.Duration
	pageLines int
	newID     func() string
	nodeID    int64
	Name      string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom ScriptLoader, bypassing the default file/Loam detection.
func WithLoader(l ports.ScriptLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithPresenter sets where the dialogue box is drawn.
func WithPresenter(p ports.Presenter) Option {
	return func(e *Engine) {
		e.presenter = p
	}
}

// WithInput sets where per-frame input snapshots come from.
func WithInput(r ports.InputReader) Option {
	return func(e *Engine) {
		e.input = r
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCadence sets the interval between revealed characters (default 50ms).
func WithCadence(d time.Duration) Option {
	return func(e *Engine) {
		e.cadence = d
	}
}

// WithPageLines pages long blocks n lines at a time (0, the default, never pages).
func WithPageLines(n int) Option {
	return func(e *Engine) {
		e.pageLines = n
	}
}

// WithIDGenerator replaces the snowflake conversation IDs.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// WithNodeID sets the snowflake node (0-1023) of the default conversation IDs,
// so that several processes logging to one place never mint the same ID.
func WithNodeID(id int64) Option {
	return func(e *Engine) {
		e.nodeID = id
	}
}

// New initializes a new Parley Engine.
//
// source names where conversations live: a .yaml/.yml/.json catalog file or a
// directory of markdown documents read through Loam. It may be empty when
// WithLoader is given, or when the caller only uses Begin with inline payloads.
func New(source string, opts ...Option) (*Engine, error) {
	eng := &Engine{cadence: runtime.DefaultCadence, nodeID: 1}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil && source != "" {
		loader, err := OpenLoader(source)
		if err != nil {
			return nil, err
		}
		eng.loader = loader
	}
	if source != "" {
		eng.Name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("source", eng.Name)
	}

	if eng.newID == nil {
		node, err := snowflake.NewNode(eng.nodeID)
		if err != nil {
			return nil, fmt.Errorf("failed to create id generator: %w", err)
		}
		eng.newID = func() string { return node.Generate().String() }
	}

	eng.runtime = runtime.NewEngine(eng.presenter, eng.input,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithCadence(eng.cadence),
		runtime.WithPageLines(eng.pageLines),
		runtime.WithIDGenerator(eng.newID),
	)

	return eng, nil
}

// OpenLoader picks a ScriptLoader for source: a catalog file by extension, or a Loam
// directory otherwise.
func OpenLoader(source string) (ports.ScriptLoader, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("invalid script source: %w", err)
	}
	if info.IsDir() {
		return loamAdapter.Open(source)
	}
	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml", ".json":
		return file.Load(source)
	default:
		return nil, fmt.Errorf("unsupported script source %s: expected a directory or a .yaml/.json catalog", source)
	}
}

// Begin opens a conversation from a raw payload (positional tuple, named map or domain.Payload).
func (e *Engine) Begin(payload any) error {
	return e.runtime.Begin(payload)
}

// BeginNamed loads the named conversation from the configured loader and opens it.
func (e *Engine) BeginNamed(ctx context.Context, name string) error {
	if e.loader == nil {
		return ErrNoLoader
	}
	if state := e.runtime.State(); state != domain.StateIdle {
		return fmt.Errorf("%w: engine is %s", domain.ErrReentrant, state)
	}
	payload, err := e.loader.LoadScript(ctx, name)
	if err != nil {
		return err
	}
	return e.runtime.Begin(payload)
}

// Tick advances the engine by one frame.
func (e *Engine) Tick(elapsed time.Duration) {
	e.runtime.Tick(elapsed)
}

// ForceClose ends the running conversation immediately.
func (e *Engine) ForceClose() {
	e.runtime.ForceClose()
}

// State returns the current state.
func (e *Engine) State() domain.State {
	return e.runtime.State()
}

// CanBegin reports whether a new conversation may be started.
func (e *Engine) CanBegin() bool {
	return e.runtime.CanBegin()
}

// Revealed returns the text revealed so far for the current block.
func (e *Engine) Revealed() string {
	return e.runtime.Revealed()
}

// Selected returns the highlighted option, 0 when no menu is open.
func (e *Engine) Selected() int {
	return e.runtime.Selected()
}

// Labels returns the option labels of the running conversation.
func (e *Engine) Labels() []string {
	return e.runtime.Labels()
}

// Line returns the line of the current block being revealed.
func (e *Engine) Line() int {
	return e.runtime.Line()
}

// ConversationID returns the identifier of the running conversation.
func (e *Engine) ConversationID() string {
	return e.runtime.ConversationID()
}

// Cadence returns the interval between revealed characters.
func (e *Engine) Cadence() time.Duration {
	return e.runtime.Cadence()
}

// Scripts lists the conversations the loader can supply.
func (e *Engine) Scripts(ctx context.Context) ([]string, error) {
	if e.loader == nil {
		return nil, ErrNoLoader
	}
	return e.loader.ListScripts(ctx)
}

// Loader returns the underlying ScriptLoader, nil when none is configured.
func (e *Engine) Loader() ports.ScriptLoader {
	return e.loader
}
