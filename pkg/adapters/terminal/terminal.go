package terminal

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/gdamore/tcell/v2"
)

const (
	// boxRows is the height of the dialogue box including its border.
	boxRows = 6
	// textRows is how many text lines fit inside the box.
	textRows = boxRows - 2
	// DefaultHoldWindow is how long a confirm key counts as held after its last key event.
	// Terminals report key repeats, never releases.
	DefaultHoldWindow = 120 * time.Millisecond
)

// Style groups the cell styles of the box.
type Style struct {
	Border tcell.Style
	Text   tcell.Style
	Cursor tcell.Style
	Arrow  tcell.Style
}

// DefaultStyle is the look used when no Style option is given.
var DefaultStyle = Style{
	Border: tcell.StyleDefault.Foreground(tcell.ColorSilver),
	Text:   tcell.StyleDefault.Foreground(tcell.ColorWhite),
	Cursor: tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	Arrow:  tcell.StyleDefault.Foreground(tcell.ColorYellow),
}

// Terminal draws the dialogue box on a tcell screen and reads the keyboard.
//
// It implements ports.Presenter (with the continue arrow and text clearing) and
// ports.InputReader. Keyboard events are collected by HandleEvent, either from the
// pump started with Start or directly, and handed out once per ReadInput.
type Terminal struct {
	screen tcell.Screen

	// Labels, when set, returns the options of the running conversation.
	Labels func() []string

	style      Style
	holdWindow time.Duration
	now        func() time.Time

	mu          sync.Mutex
	text        string
	box         bool
	menu        bool
	arrow       bool
	cursor      int
	pending     domain.Input
	lastConfirm time.Time

	quit          chan struct{}
	interrupts    chan struct{}
	interruptOnce sync.Once
	stopOnce      sync.Once
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithStyle sets the cell styles.
func WithStyle(s Style) Option {
	return func(t *Terminal) {
		t.style = s
	}
}

// WithHoldWindow sets how long confirm stays held after its last key event.
func WithHoldWindow(d time.Duration) Option {
	return func(t *Terminal) {
		t.holdWindow = d
	}
}

// WithClock replaces time.Now for hold detection.
func WithClock(now func() time.Time) Option {
	return func(t *Terminal) {
		if now != nil {
			t.now = now
		}
	}
}

// Open creates and initializes the screen of the controlling terminal.
func Open(opts ...Option) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return New(screen, opts...), nil
}

// New wraps an initialized screen.
func New(screen tcell.Screen, opts ...Option) *Terminal {
	t := &Terminal{
		screen:     screen,
		style:      DefaultStyle,
		holdWindow: DefaultHoldWindow,
		now:        time.Now,
		quit:       make(chan struct{}),
		interrupts: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start pumps screen events into HandleEvent until Close.
func (t *Terminal) Start() {
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case <-t.quit:
				return
			default:
			}
			t.HandleEvent(ev)
		}
	}()
}

// Close stops the pump and restores the terminal.
func (t *Terminal) Close() {
	t.stopOnce.Do(func() {
		close(t.quit)
		t.screen.Fini()
	})
}

// Interrupts is closed when the player asks to quit (Esc, q or Ctrl+C).
func (t *Terminal) Interrupts() <-chan struct{} {
	return t.interrupts
}

// HandleEvent folds one screen event into the pending input.
func (t *Terminal) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		t.handleKey(ev)
	case *tcell.EventResize:
		t.screen.Sync()
		t.mu.Lock()
		t.draw()
		t.mu.Unlock()
	}
}

func (t *Terminal) handleKey(ev *tcell.EventKey) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Key() {
	case tcell.KeyUp:
		t.pending.Up = true
	case tcell.KeyDown:
		t.pending.Down = true
	case tcell.KeyEnter:
		t.confirm()
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.interrupt()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k', 'w':
			t.pending.Up = true
		case 'j', 's':
			t.pending.Down = true
		case ' ', 'z':
			t.confirm()
		case 'q':
			t.interrupt()
		}
	}
}

func (t *Terminal) confirm() {
	t.pending.ConfirmJustPressed = true
	t.lastConfirm = t.now()
}

func (t *Terminal) interrupt() {
	t.interruptOnce.Do(func() { close(t.interrupts) })
}

// ReadInput returns the keys seen since the previous call.
func (t *Terminal) ReadInput() domain.Input {
	t.mu.Lock()
	defer t.mu.Unlock()

	in := t.pending
	t.pending = domain.Input{}
	in.ConfirmHeld = in.ConfirmJustPressed ||
		(!t.lastConfirm.IsZero() && t.now().Sub(t.lastConfirm) < t.holdWindow)
	return in
}

// RevealCharacter redraws the box with the text revealed so far.
func (t *Terminal) RevealCharacter(textSoFar string) {
	t.update(func() { t.text = textSoFar })
}

// SetBoxVisible shows or hides the whole box.
func (t *Terminal) SetBoxVisible(visible bool) {
	t.update(func() {
		t.box = visible
		if !visible {
			t.text = ""
			t.menu = false
			t.arrow = false
		}
	})
}

// SetSelectionMenuVisible shows or hides the option menu.
func (t *Terminal) SetSelectionMenuVisible(visible bool) {
	t.update(func() { t.menu = visible })
}

// MoveCursorToOption highlights the option at the 1-based index.
func (t *Terminal) MoveCursorToOption(index int) {
	t.update(func() { t.cursor = index })
}

// SetContinueIndicatorVisible shows the arrow inviting a confirm press.
func (t *Terminal) SetContinueIndicatorVisible(visible bool) {
	t.update(func() { t.arrow = visible })
}

// ClearText empties the box before a new block.
func (t *Terminal) ClearText() {
	t.update(func() { t.text = "" })
}

func (t *Terminal) update(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn()
	t.draw()
}

// draw repaints everything; callers hold mu.
func (t *Terminal) draw() {
	t.screen.Clear()
	if t.box {
		w, h := t.screen.Size()
		top := h - boxRows
		t.drawFrame(0, top, w, boxRows)
		for i, line := range wrap(t.text, w-4, textRows) {
			t.drawString(2, top+1+i, line, t.style.Text)
		}
		if t.arrow {
			t.screen.SetContent(w-3, h-2, '▼', nil, t.style.Arrow)
		}
		if t.menu {
			t.drawMenu(w, top)
		}
	}
	t.screen.Show()
}

func (t *Terminal) drawMenu(w, boxTop int) {
	var labels []string
	if t.Labels != nil {
		labels = t.Labels()
	}
	width := 0
	for _, l := range labels {
		width = max(width, len([]rune(l)))
	}
	width += 6
	height := len(labels) + 2
	left := max(w-width, 0)
	top := max(boxTop-height, 0)

	t.drawFrame(left, top, width, height)
	for i, l := range labels {
		t.drawString(left+3, optionRow(top, i+1), l, t.style.Text)
	}
	if t.cursor >= 1 && t.cursor <= len(labels) {
		t.screen.SetContent(left+1, optionRow(top, t.cursor), '▶', nil, t.style.Cursor)
	}
}

// optionRow maps a 1-based option index to its screen row inside a menu frame at top.
func optionRow(top, index int) int {
	return top + index
}

func (t *Terminal) drawFrame(x, y, w, h int) {
	s := t.style.Border
	for i := x + 1; i < x+w-1; i++ {
		t.screen.SetContent(i, y, '─', nil, s)
		t.screen.SetContent(i, y+h-1, '─', nil, s)
	}
	for j := y + 1; j < y+h-1; j++ {
		t.screen.SetContent(x, j, '│', nil, s)
		t.screen.SetContent(x+w-1, j, '│', nil, s)
		for i := x + 1; i < x+w-1; i++ {
			t.screen.SetContent(i, j, ' ', nil, s)
		}
	}
	t.screen.SetContent(x, y, '┌', nil, s)
	t.screen.SetContent(x+w-1, y, '┐', nil, s)
	t.screen.SetContent(x, y+h-1, '└', nil, s)
	t.screen.SetContent(x+w-1, y+h-1, '┘', nil, s)
}

func (t *Terminal) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

// wrap splits text on newlines and at width runes, keeping the last rows lines so
// the newest text stays visible.
func wrap(text string, width, rows int) []string {
	if width < 1 {
		return nil
	}
	var lines []string
	for _, hard := range strings.Split(text, "\n") {
		runes := []rune(hard)
		for len(runes) > width {
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		lines = append(lines, string(runes))
	}
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	return lines
}
