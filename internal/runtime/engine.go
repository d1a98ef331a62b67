package runtime

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
)

// Engine is the dialogue state machine.
//
// It is driven by Begin (open a conversation) and Tick (once per frame). It owns no
// goroutines and is not safe for concurrent use: a single game object owns it.
type Engine struct {
	presenter ports.Presenter
	input     ports.InputReader
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	newID     func() string
	cadence   time.Duration
	pageLines int

	state          domain.State
	script         *domain.Script
	conversationID string
	branchPending  bool
	block          int
	text           []rune
	shown          int
	line           int
	revealed       strings.Builder
	clock          *RevealClock
	cursor         SelectionCursor
	confirmDown    bool
	paused         bool
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithCadence sets the interval between revealed characters.
func WithCadence(cadence time.Duration) EngineOption {
	return func(e *Engine) {
		e.cadence = cadence
	}
}

// WithIDGenerator sets the function naming each conversation in logs and events.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithPageLines makes the box hold at most n lines: when a block would start line
// n+1 the reveal pauses with the continue indicator shown, and the next confirm
// clears the box and carries on. Zero (the default) never pages.
func WithPageLines(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.pageLines = n
		}
	}
}

// NewEngine creates a new engine talking to the given collaborators.
// A nil presenter discards every side-effect; a nil input reader never presses anything.
func NewEngine(presenter ports.Presenter, input ports.InputReader, opts ...EngineOption) *Engine {
	e := &Engine{
		presenter: presenter,
		input:     input,
		logger:    logging.NewNop(),
		newID:     sequentialIDs(),
		cadence:   DefaultCadence,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.presenter == nil {
		e.presenter = nopPresenter{}
	}
	if e.input == nil {
		e.input = ports.InputFunc(func() domain.Input { return domain.Input{} })
	}
	e.clock = NewRevealClock(e.cadence)
	return e
}

// Begin opens a conversation from an externally supplied payload.
//
// It fails with domain.ErrReentrant when a conversation is already running (the running
// one is left untouched) and with domain.ErrMalformedPayload when the payload does not
// decode. In both cases nothing is installed.
func (e *Engine) Begin(payload any) error {
	if e.state != domain.StateIdle {
		e.logger.Warn("Dialogue begin rejected",
			"conversation_id", e.conversationID,
			"state", e.state.String(),
		)
		return fmt.Errorf("%w: engine is %s", domain.ErrReentrant, e.state)
	}

	script, err := domain.Decode(payload)
	if err != nil {
		e.logger.Warn("Dialogue payload rejected", "err", err)
		return err
	}

	e.script = script
	e.conversationID = e.newID()
	e.branchPending = script.Branching()
	e.loadBlock(0)
	e.presenter.SetBoxVisible(true)

	e.logger.Debug("Dialogue started",
		"conversation_id", e.conversationID,
		"blocks", len(script.Blocks),
		"branches", len(script.Labels),
	)

	// Leave Idle before any hook runs so a hook calling Begin is rejected.
	e.transition(domain.StateRevealing)

	if e.hooks.OnBegin != nil {
		e.hooks.OnBegin(&domain.ConversationEvent{
			EventBase: e.event(domain.EventBegin),
			Blocks:    len(script.Blocks),
			Branches:  len(script.Labels),
		})
	}
	return nil
}

// Tick advances the engine by one frame.
func (e *Engine) Tick(elapsed time.Duration) {
	in := e.input.ReadInput()
	confirm := e.confirmEdge(in)

	switch e.state {
	case domain.StateRevealing:
		if e.paused {
			if confirm {
				e.turnPage()
			}
			return
		}
		e.reveal(elapsed)
	case domain.StateAwaitingSelection:
		e.awaitSelection(in, confirm)
	case domain.StateAwaitingDismiss:
		if confirm {
			e.close(false)
		}
	}
}

// ForceClose ends the running conversation immediately, e.g. on scene teardown.
func (e *Engine) ForceClose() {
	if e.state == domain.StateIdle {
		return
	}
	e.logger.Debug("Dialogue force-closed", "conversation_id", e.conversationID, "state", e.state.String())
	e.close(true)
}

// State returns the current state.
func (e *Engine) State() domain.State {
	return e.state
}

// CanBegin reports whether a new conversation may start now: the engine is idle and the
// confirm press that closed the previous box has been released.
func (e *Engine) CanBegin() bool {
	return e.state == domain.StateIdle && !e.confirmDown
}

// Revealed returns the text revealed so far for the current block.
func (e *Engine) Revealed() string {
	return e.revealed.String()
}

// Block returns the index of the block being shown.
func (e *Engine) Block() int {
	return e.block
}

// Line returns the 1-based line of the current block the next character belongs to.
func (e *Engine) Line() int {
	return e.line
}

// Selected returns the highlighted option while awaiting a selection, 0 otherwise.
func (e *Engine) Selected() int {
	if e.state != domain.StateAwaitingSelection {
		return 0
	}
	return e.cursor.Selected()
}

// Labels returns the option labels of the running conversation.
func (e *Engine) Labels() []string {
	if e.script == nil {
		return nil
	}
	return append([]string(nil), e.script.Labels...)
}

// BranchPending reports whether the options of the running conversation are still to be offered.
func (e *Engine) BranchPending() bool {
	return e.branchPending
}

// ConversationID returns the identifier of the running conversation, empty when idle.
func (e *Engine) ConversationID() string {
	return e.conversationID
}

// Cadence returns the interval between revealed characters.
func (e *Engine) Cadence() time.Duration {
	return e.clock.Cadence()
}

// confirmEdge derives a rising edge from the confirm button so that a press held
// over several frames, or held while a block finishes, acts at most once.
func (e *Engine) confirmEdge(in domain.Input) bool {
	down := in.Confirming()
	edge := down && !e.confirmDown
	e.confirmDown = down
	return edge
}

func (e *Engine) reveal(elapsed time.Duration) {
	if e.shown < len(e.text) {
		if !e.clock.Advance(elapsed) {
			return
		}
		r := e.text[e.shown]
		if r == '\n' && e.pageFull() {
			e.shown++
			e.paused = true
			e.setContinueIndicator(true)
			e.logger.Debug("Dialogue page full", "conversation_id", e.conversationID, "revealed", e.shown)
			return
		}
		e.shown++
		if r == '\n' {
			e.line++
		}
		e.revealed.WriteRune(r)
		e.presenter.RevealCharacter(e.revealed.String())

		if e.hooks.OnReveal != nil {
			e.hooks.OnReveal(&domain.RevealEvent{
				EventBase: e.event(domain.EventReveal),
				Block:     e.block,
				Revealed:  e.shown,
				Char:      r,
			})
		}
	}

	if e.shown >= len(e.text) {
		e.finishBlock()
	}
}

// pageFull reports whether the newline about to be revealed would overflow the page.
// A trailing newline never opens an empty page.
func (e *Engine) pageFull() bool {
	return e.pageLines > 0 && e.line >= e.pageLines && e.shown+1 < len(e.text)
}

func (e *Engine) turnPage() {
	e.paused = false
	e.setContinueIndicator(false)
	e.line = 1
	e.revealed.Reset()
	e.clock.Reset()
	if clearer, ok := e.presenter.(ports.TextClearer); ok {
		clearer.ClearText()
	}
}

func (e *Engine) finishBlock() {
	if e.branchPending {
		e.cursor.Reset(len(e.script.Labels))
		e.presenter.SetSelectionMenuVisible(true)
		e.presenter.MoveCursorToOption(e.cursor.Selected())
		e.transition(domain.StateAwaitingSelection)
		return
	}
	e.setContinueIndicator(true)
	e.transition(domain.StateAwaitingDismiss)
}

func (e *Engine) awaitSelection(in domain.Input, confirm bool) {
	if in.Up {
		e.cursor.MoveUp()
		e.presenter.MoveCursorToOption(e.cursor.Selected())
	}
	if in.Down {
		e.cursor.MoveDown()
		e.presenter.MoveCursorToOption(e.cursor.Selected())
	}
	if !confirm {
		return
	}

	selected := e.cursor.Selected()
	if !e.cursor.Valid() || selected >= len(e.script.Blocks) {
		e.fault(fmt.Errorf("%w: option %d of %d with %d blocks",
			domain.ErrOutOfRangeSelection, selected, e.cursor.Count(), len(e.script.Blocks)))
		return
	}

	e.branchPending = false
	e.presenter.SetSelectionMenuVisible(false)

	label := e.script.Labels[selected-1]
	e.logger.Debug("Dialogue branch selected",
		"conversation_id", e.conversationID,
		"option", selected,
		"label", label,
	)
	if e.hooks.OnBranchSelected != nil {
		e.hooks.OnBranchSelected(&domain.BranchEvent{
			EventBase: e.event(domain.EventBranchSelected),
			Index:     selected,
			Label:     label,
		})
	}

	e.loadBlock(selected)
	e.transition(domain.StateRevealing)
}

func (e *Engine) loadBlock(index int) {
	e.block = index
	e.text = []rune(e.script.Blocks[index])
	e.shown = 0
	e.line = 1
	e.paused = false
	e.revealed.Reset()
	e.clock.Reset()
	if clearer, ok := e.presenter.(ports.TextClearer); ok {
		clearer.ClearText()
	}
}

func (e *Engine) fault(err error) {
	e.logger.Error("Dialogue invariant violated", "conversation_id", e.conversationID, "err", err)
	if e.hooks.OnFault != nil {
		e.hooks.OnFault(&domain.FaultEvent{
			EventBase: e.event(domain.EventFault),
			Err:       err,
		})
	}
	e.close(true)
}

func (e *Engine) close(forced bool) {
	if e.state == domain.StateAwaitingSelection {
		e.presenter.SetSelectionMenuVisible(false)
	}
	if e.state == domain.StateAwaitingDismiss || e.paused {
		e.setContinueIndicator(false)
	}
	e.presenter.SetBoxVisible(false)

	id := e.conversationID
	end := &domain.EndEvent{EventBase: e.event(domain.EventEnd), Forced: forced}

	e.script = nil
	e.branchPending = false
	e.block = 0
	e.text = nil
	e.shown = 0
	e.line = 0
	e.paused = false
	e.revealed.Reset()
	e.clock.Reset()
	e.cursor.Reset(0)
	e.conversationID = ""

	e.logger.Debug("Dialogue ended", "conversation_id", id, "forced", forced)
	// A hook reacting to Idle may already begin the next conversation.
	e.changeState(domain.StateIdle, id)

	if e.hooks.OnEnd != nil {
		e.hooks.OnEnd(end)
	}
}

func (e *Engine) setContinueIndicator(visible bool) {
	if indicator, ok := e.presenter.(ports.ContinueIndicator); ok {
		indicator.SetContinueIndicatorVisible(visible)
	}
}

func (e *Engine) transition(to domain.State) {
	e.changeState(to, e.conversationID)
}

// changeState moves to the given state and reports it under conversation id,
// which differs from the current one only while closing.
func (e *Engine) changeState(to domain.State, id string) {
	from := e.state
	if from == to {
		return
	}
	e.state = to
	e.logger.Debug("Dialogue state change",
		"conversation_id", id,
		"from", from.String(),
		"to", to.String(),
	)
	if e.hooks.OnStateChange != nil {
		base := e.event(domain.EventStateChange)
		base.ConversationID = id
		e.hooks.OnStateChange(&domain.StateEvent{
			EventBase: base,
			From:      from,
			To:        to,
		})
	}
}

func (e *Engine) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp:      time.Now(),
		Type:           t,
		ConversationID: e.conversationID,
	}
}

func sequentialIDs() func() string {
	var n atomic.Uint64
	return func() string {
		return "conversation-" + strconv.FormatUint(n.Add(1), 10)
	}
}

type nopPresenter struct{}

func (nopPresenter) RevealCharacter(string) {}
func (nopPresenter) SetBoxVisible(bool) {}
func (nopPresenter) SetSelectionMenuVisible(bool) {}
func (nopPresenter) MoveCursorToOption(int) {}
