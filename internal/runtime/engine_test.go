package runtime

import (
	"testing"
	"time"

	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCadence = 10 * time.Millisecond

// testFrame is long enough for the clock to fire on every tick.
const testFrame = testCadence + time.Millisecond

func newTestEngine(t *testing.T, opts ...EngineOption) (*Engine, *memory.Recorder, *memory.InputQueue) {
	t.Helper()
	rec := memory.NewRecorder()
	input := memory.NewInputQueue()
	opts = append([]EngineOption{WithCadence(testCadence)}, opts...)
	return NewEngine(rec, input, opts...), rec, input
}

// tickUntil ticks with the given frame until the engine reaches want, failing after max ticks.
func tickUntil(t *testing.T, e *Engine, frame time.Duration, want domain.State, max int) int {
	t.Helper()
	for i := 1; i <= max; i++ {
		e.Tick(frame)
		if e.State() == want {
			return i
		}
	}
	require.FailNowf(t, "state not reached", "engine is %s after %d ticks, want %s", e.State(), max, want)
	return 0
}

func branchPayload() []any {
	return []any{2, []any{"Yes", "No"}, []any{"Intro", "YesBranch", "NoBranch"}}
}

func TestEngine_LinearRoundTrip(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	require.NoError(t, e.Begin([]any{0, []any{}, []any{"Hello"}}))
	assert.Equal(t, domain.StateRevealing, e.State())
	assert.True(t, rec.BoxVisible())

	tickUntil(t, e, testCadence, domain.StateAwaitingDismiss, 100)

	assert.Equal(t, []string{"H", "He", "Hel", "Hell", "Hello"}, rec.Reveals())
	assert.Equal(t, "Hello", e.Revealed())
	assert.True(t, rec.ContinueVisible())
	assert.False(t, rec.MenuVisible())
	assert.Zero(t, rec.Count("menu"), "a linear script never opens the menu")
}

func TestEngine_BeginRejectsMalformedPayload(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	err := e.Begin([]any{2, []any{"Yes", "No"}, []any{"Intro", "OnlyOneBranch"}})
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
	assert.Equal(t, domain.StateIdle, e.State())
	assert.Empty(t, rec.Calls(), "nothing may be shown for a rejected payload")
	assert.True(t, e.CanBegin())

	require.NoError(t, e.Begin(branchPayload()))
	assert.Equal(t, domain.StateRevealing, e.State())
	assert.Equal(t, []string{"Yes", "No"}, e.Labels())
}

func TestEngine_NoReentrantBegin(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	require.NoError(t, e.Begin(domain.Linear("Hello")))
	e.Tick(testFrame)
	e.Tick(testFrame)
	require.Equal(t, "He", e.Revealed())
	id := e.ConversationID()

	err := e.Begin(domain.Linear("Intruder"))
	assert.ErrorIs(t, err, domain.ErrReentrant)
	assert.Equal(t, domain.StateRevealing, e.State())
	assert.Equal(t, "He", e.Revealed())
	assert.Equal(t, id, e.ConversationID())

	tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 10)
	assert.Equal(t, "Hello", e.Revealed())
	assert.Equal(t, "Hello", rec.Text())
	assert.False(t, e.CanBegin())
}

func TestEngine_CadenceIndependentOfFrameSize(t *testing.T) {
	e, rec, _ := newTestEngine(t)
	require.NoError(t, e.Begin(domain.Linear("Hello")))

	e.Tick(testCadence * 3)
	assert.Equal(t, "H", e.Revealed(), "one oversized frame reveals one character")

	e.Tick(testCadence * 3)
	assert.Equal(t, "He", e.Revealed())

	e.Tick(time.Millisecond)
	assert.Equal(t, "He", e.Revealed(), "the overflow of the previous frame is not carried")
	assert.Len(t, rec.Reveals(), 2)
}

func TestEngine_EdgeTriggeredDismissal(t *testing.T) {
	t.Run("held confirm closes once", func(t *testing.T) {
		ends := 0
		e, rec, input := newTestEngine(t, WithLifecycleHooks(domain.LifecycleHooks{
			OnEnd: func(*domain.EndEvent) { ends++ },
		}))
		require.NoError(t, e.Begin(domain.Linear("Hi")))
		tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 10)

		input.Push(memory.Hold(5)...)
		closes := 0
		for i := 0; i < 5; i++ {
			before := rec.Count("box")
			e.Tick(testFrame)
			closes += rec.Count("box") - before
		}

		assert.Equal(t, 1, closes)
		assert.Equal(t, 1, ends)
		assert.Equal(t, domain.StateIdle, e.State())
		assert.False(t, rec.BoxVisible())
		assert.False(t, e.CanBegin(), "the closing press is still held")

		input.Push(memory.Idle(1)...)
		e.Tick(testFrame)
		assert.True(t, e.CanBegin())
	})

	t.Run("level-only source repeating the press", func(t *testing.T) {
		e, _, input := newTestEngine(t)
		require.NoError(t, e.Begin(domain.Linear("Hi")))
		tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 10)

		for i := 0; i < 5; i++ {
			input.Push(memory.Press())
		}
		e.Tick(testFrame)
		assert.Equal(t, domain.StateIdle, e.State())

		require.NoError(t, e.Begin(domain.Linear("A")))
		tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 3)
		for input.Len() > 0 {
			e.Tick(testFrame)
		}
		assert.Equal(t, domain.StateAwaitingDismiss, e.State(), "a press that never released must not close the new box")
	})

	t.Run("press held while the text finishes does not count", func(t *testing.T) {
		e, _, input := newTestEngine(t)
		require.NoError(t, e.Begin(domain.Linear("Hi")))

		input.Push(memory.Hold(7)...)
		for i := 0; i < 7; i++ {
			e.Tick(testFrame)
		}
		assert.Equal(t, domain.StateAwaitingDismiss, e.State())

		input.Push(memory.Idle(1)...)
		input.Push(memory.Press())
		e.Tick(testFrame)
		assert.Equal(t, domain.StateAwaitingDismiss, e.State())
		e.Tick(testFrame)
		assert.Equal(t, domain.StateIdle, e.State())
	})
}

func TestEngine_BranchSelection(t *testing.T) {
	var selected []*domain.BranchEvent
	e, rec, input := newTestEngine(t, WithLifecycleHooks(domain.LifecycleHooks{
		OnBranchSelected: func(ev *domain.BranchEvent) { selected = append(selected, ev) },
	}))
	require.NoError(t, e.Begin(branchPayload()))

	tickUntil(t, e, testFrame, domain.StateAwaitingSelection, 20)
	assert.Equal(t, "Intro", e.Revealed())
	assert.True(t, rec.MenuVisible())
	assert.Equal(t, 1, rec.Cursor())
	assert.Equal(t, 1, e.Selected())
	assert.False(t, rec.ContinueVisible(), "the arrow is for dismissal only")

	input.Push(domain.Input{Up: true})
	e.Tick(testFrame)
	assert.Equal(t, 2, e.Selected(), "up from the first option wraps")
	assert.Equal(t, 2, rec.Cursor())

	input.Push(domain.Input{Down: true})
	e.Tick(testFrame)
	assert.Equal(t, 1, e.Selected())

	input.Push(domain.Input{Down: true})
	e.Tick(testFrame)
	assert.Equal(t, 2, rec.Cursor())

	input.Push(memory.Press())
	e.Tick(testFrame)
	assert.Equal(t, domain.StateRevealing, e.State())
	assert.Equal(t, 2, e.Block())
	assert.False(t, rec.MenuVisible())
	assert.False(t, e.BranchPending())
	assert.Empty(t, e.Revealed(), "the branch text starts from the first character")
	assert.Equal(t, 0, e.Selected())

	require.Len(t, selected, 1)
	assert.Equal(t, 2, selected[0].Index)
	assert.Equal(t, "No", selected[0].Label)

	tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 20)
	assert.Equal(t, "NoBranch", e.Revealed())
	assert.Equal(t, "NoBranch", rec.Text())
	assert.Equal(t, 2, rec.Count("clear"), "one clear for the intro, one for the branch")

	input.Push(memory.Press())
	e.Tick(testFrame)
	assert.Equal(t, domain.StateIdle, e.State())
	assert.False(t, rec.BoxVisible())
}

func TestEngine_BranchConsumedExactlyOnce(t *testing.T) {
	var states []domain.State
	e, rec, input := newTestEngine(t, WithLifecycleHooks(domain.LifecycleHooks{
		OnStateChange: func(ev *domain.StateEvent) { states = append(states, ev.To) },
	}))
	require.NoError(t, e.Begin([]any{1, []any{"Continue"}, []any{"Intro", "Outro"}}))

	tickUntil(t, e, testFrame, domain.StateAwaitingSelection, 20)
	input.Push(memory.Press())
	e.Tick(testFrame)
	tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 20)

	for i := 0; i < 10; i++ {
		e.Tick(testFrame)
	}
	assert.Equal(t, domain.StateAwaitingDismiss, e.State())
	assert.Equal(t, 1, rec.Count("menu")-countFalse(rec.Calls(), "menu"), "menu opened once")
	assert.Equal(t, []domain.State{
		domain.StateRevealing,
		domain.StateAwaitingSelection,
		domain.StateRevealing,
		domain.StateAwaitingDismiss,
	}, states)
}

func countFalse(calls []memory.Call, method string) int {
	n := 0
	for _, c := range calls {
		if c.Method == method && !c.Flag {
			n++
		}
	}
	return n
}

func TestEngine_SelectionIgnoresInputWhileRevealing(t *testing.T) {
	e, rec, input := newTestEngine(t)
	require.NoError(t, e.Begin(branchPayload()))

	input.Push(domain.Input{Down: true}, domain.Input{Down: true})
	e.Tick(testFrame)
	e.Tick(testFrame)
	assert.Zero(t, rec.Count("cursor"))

	tickUntil(t, e, testFrame, domain.StateAwaitingSelection, 20)
	assert.Equal(t, 1, e.Selected())
}

func TestEngine_ForceClose(t *testing.T) {
	var ends []*domain.EndEvent
	e, rec, _ := newTestEngine(t, WithLifecycleHooks(domain.LifecycleHooks{
		OnEnd: func(ev *domain.EndEvent) { ends = append(ends, ev) },
	}))

	e.ForceClose()
	assert.Empty(t, rec.Calls(), "closing an idle engine does nothing")

	require.NoError(t, e.Begin(branchPayload()))
	tickUntil(t, e, testFrame, domain.StateAwaitingSelection, 20)

	e.ForceClose()
	assert.Equal(t, domain.StateIdle, e.State())
	assert.False(t, rec.BoxVisible())
	assert.False(t, rec.MenuVisible())
	assert.Empty(t, e.Revealed())
	assert.Nil(t, e.Labels())
	assert.Empty(t, e.ConversationID())
	require.Len(t, ends, 1)
	assert.True(t, ends[0].Forced)

	require.NoError(t, e.Begin(domain.Linear("Again")), "a forced close leaves the engine reusable")
}

func TestEngine_OutOfRangeSelectionForcesIdle(t *testing.T) {
	var faults []error
	e, rec, input := newTestEngine(t, WithLifecycleHooks(domain.LifecycleHooks{
		OnFault: func(ev *domain.FaultEvent) { faults = append(faults, ev.Err) },
	}))
	require.NoError(t, e.Begin(branchPayload()))
	tickUntil(t, e, testFrame, domain.StateAwaitingSelection, 20)

	e.cursor.selected = 7
	input.Push(memory.Press())
	e.Tick(testFrame)

	assert.Equal(t, domain.StateIdle, e.State())
	assert.False(t, rec.BoxVisible())
	assert.False(t, rec.MenuVisible())
	require.Len(t, faults, 1)
	assert.ErrorIs(t, faults[0], domain.ErrOutOfRangeSelection)
	assert.Equal(t, "Intro", rec.Text(), "no branch text may be shown")
}

func TestEngine_RevealsRunesAndTracksLines(t *testing.T) {
	e, rec, _ := newTestEngine(t)
	require.NoError(t, e.Begin(domain.Linear("camión\nTeo")))
	assert.Equal(t, 1, e.Line())

	tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 20)

	reveals := rec.Reveals()
	assert.Len(t, reveals, 10)
	assert.Equal(t, "camió", reveals[4])
	assert.Equal(t, "camión\nTeo", e.Revealed())
	assert.Equal(t, 2, e.Line())
}

func TestEngine_EmptyBlockCompletesImmediately(t *testing.T) {
	e, rec, _ := newTestEngine(t)
	require.NoError(t, e.Begin(domain.Linear("")))

	e.Tick(0)
	assert.Equal(t, domain.StateAwaitingDismiss, e.State())
	assert.Empty(t, rec.Reveals())
}

func TestEngine_HooksCarryConversationID(t *testing.T) {
	var begins []*domain.ConversationEvent
	var ends []*domain.EndEvent
	var reveals int
	e, _, input := newTestEngine(t,
		WithIDGenerator(func() string { return "npc-truck" }),
		WithLifecycleHooks(domain.LifecycleHooks{
			OnBegin:  func(ev *domain.ConversationEvent) { begins = append(begins, ev) },
			OnReveal: func(ev *domain.RevealEvent) { reveals++ },
			OnEnd:    func(ev *domain.EndEvent) { ends = append(ends, ev) },
		}),
	)

	require.NoError(t, e.Begin(domain.Linear("Hey")))
	assert.Equal(t, "npc-truck", e.ConversationID())
	tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 10)
	input.Push(memory.Press())
	e.Tick(testFrame)

	require.Len(t, begins, 1)
	assert.Equal(t, "npc-truck", begins[0].ConversationID)
	assert.Equal(t, 1, begins[0].Blocks)
	assert.Equal(t, 3, reveals)
	require.Len(t, ends, 1)
	assert.Equal(t, "npc-truck", ends[0].ConversationID)
	assert.False(t, ends[0].Forced)
}

func TestEngine_NilCollaborators(t *testing.T) {
	e := NewEngine(nil, nil)
	assert.Equal(t, DefaultCadence, e.Cadence())

	require.NoError(t, e.Begin(domain.Linear("ok")))
	for i := 0; i < 5; i++ {
		e.Tick(time.Second)
	}
	assert.Equal(t, domain.StateAwaitingDismiss, e.State(), "without input the box waits forever")
	assert.NotEmpty(t, e.ConversationID())
}

func TestEngine_BeginFromOnBeginIsRejected(t *testing.T) {
	var e *Engine
	var nested error
	var stateAtBegin domain.State
	e, _, _ = newTestEngine(t, WithLifecycleHooks(domain.LifecycleHooks{
		OnBegin: func(*domain.ConversationEvent) {
			stateAtBegin = e.State()
			nested = e.Begin(domain.Linear("Intruder"))
		},
	}))

	require.NoError(t, e.Begin(domain.Linear("Hello")))
	assert.ErrorIs(t, nested, domain.ErrReentrant)
	assert.Equal(t, domain.StateRevealing, stateAtBegin)

	tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 10)
	assert.Equal(t, "Hello", e.Revealed())
}

func TestEngine_BeginFromIdleStateChangeKeepsNewConversation(t *testing.T) {
	ids := []string{"first", "second"}
	var e *Engine
	var idle []*domain.StateEvent
	var ends []*domain.EndEvent
	e, _, input := newTestEngine(t,
		WithIDGenerator(func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}),
		WithLifecycleHooks(domain.LifecycleHooks{
			OnStateChange: func(ev *domain.StateEvent) {
				if ev.To != domain.StateIdle {
					return
				}
				idle = append(idle, ev)
				if len(idle) == 1 {
					require.NoError(t, e.Begin(domain.Linear("Again")))
				}
			},
			OnEnd: func(ev *domain.EndEvent) { ends = append(ends, ev) },
		}),
	)

	require.NoError(t, e.Begin(domain.Linear("Hi")))
	tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 10)
	input.Push(memory.Press())
	e.Tick(testFrame)

	require.Len(t, idle, 1)
	assert.Equal(t, "first", idle[0].ConversationID, "the Idle change reports the conversation that ended")
	require.Len(t, ends, 1)
	assert.Equal(t, "first", ends[0].ConversationID)

	assert.Equal(t, domain.StateRevealing, e.State())
	assert.Equal(t, "second", e.ConversationID())
	tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 10)
	assert.Equal(t, "Again", e.Revealed())
}

func TestEngine_PagesLongBlocks(t *testing.T) {
	e, rec, input := newTestEngine(t, WithPageLines(2))
	require.NoError(t, e.Begin(domain.Linear("a\nb\nc")))

	for i := 0; i < 10; i++ {
		e.Tick(testFrame)
	}
	assert.Equal(t, domain.StateRevealing, e.State(), "a full page waits for the player")
	assert.Equal(t, "a\nb", e.Revealed())
	assert.Equal(t, 2, e.Line())
	assert.True(t, rec.ContinueVisible())

	input.Push(memory.Press())
	e.Tick(testFrame)
	assert.Empty(t, e.Revealed())
	assert.Empty(t, rec.Text())
	assert.Equal(t, 1, e.Line())
	assert.False(t, rec.ContinueVisible())

	tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 10)
	assert.Equal(t, "c", e.Revealed())
	assert.True(t, rec.ContinueVisible())

	input.Push(memory.Press())
	e.Tick(testFrame)
	assert.Equal(t, domain.StateIdle, e.State())
}

func TestEngine_PagingIgnoresTrailingNewline(t *testing.T) {
	e, rec, _ := newTestEngine(t, WithPageLines(2))
	require.NoError(t, e.Begin(domain.Linear("a\nb\n")))

	tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 10)
	assert.Equal(t, "a\nb\n", e.Revealed())
	assert.Equal(t, 1, rec.Count("clear"), "only the block load clears the box")
}

func TestEngine_ForceCloseWhilePaged(t *testing.T) {
	e, rec, _ := newTestEngine(t, WithPageLines(1))
	require.NoError(t, e.Begin(domain.Linear("a\nb")))
	for i := 0; i < 5; i++ {
		e.Tick(testFrame)
	}
	require.True(t, rec.ContinueVisible())

	e.ForceClose()
	assert.False(t, rec.ContinueVisible())
	assert.Equal(t, domain.StateIdle, e.State())

	require.NoError(t, e.Begin(domain.Linear("x")))
	tickUntil(t, e, testFrame, domain.StateAwaitingDismiss, 5)
	assert.Equal(t, "x", e.Revealed(), "a new conversation never starts paused")
}
