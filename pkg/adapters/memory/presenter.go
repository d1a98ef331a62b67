package memory

import (
	"fmt"
	"sync"
)

// Call is one side-effect received by a Recorder.
type Call struct {
	Method string
	Text   string
	Flag   bool
	Index  int
}

// String renders the call the way test failures read best.
func (c Call) String() string {
	switch c.Method {
	case "reveal":
		return fmt.Sprintf("reveal(%q)", c.Text)
	case "cursor":
		return fmt.Sprintf("cursor(%d)", c.Index)
	case "clear":
		return "clear()"
	default:
		return fmt.Sprintf("%s(%t)", c.Method, c.Flag)
	}
}

// Recorder implements ports.Presenter (plus the optional ContinueIndicator and TextClearer)
// by remembering every call and the resulting presentation state.
// Safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	calls           []Call
	text            string
	boxVisible      bool
	menuVisible     bool
	continueVisible bool
	cursor          int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(c Call) {
	r.calls = append(r.calls, c)
}

// RevealCharacter records the text revealed so far.
func (r *Recorder) RevealCharacter(textSoFar string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text = textSoFar
	r.record(Call{Method: "reveal", Text: textSoFar})
}

// SetBoxVisible records box visibility.
func (r *Recorder) SetBoxVisible(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boxVisible = visible
	r.record(Call{Method: "box", Flag: visible})
}

// SetSelectionMenuVisible records menu visibility.
func (r *Recorder) SetSelectionMenuVisible(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menuVisible = visible
	r.record(Call{Method: "menu", Flag: visible})
}

// MoveCursorToOption records the cursor position.
func (r *Recorder) MoveCursorToOption(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = index
	r.record(Call{Method: "cursor", Index: index})
}

// SetContinueIndicatorVisible records the continue arrow visibility.
func (r *Recorder) SetContinueIndicatorVisible(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.continueVisible = visible
	r.record(Call{Method: "continue", Flag: visible})
}

// ClearText records a text reset.
func (r *Recorder) ClearText() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text = ""
	r.record(Call{Method: "clear"})
}

// Calls returns a copy of every recorded call.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Reveals returns the texts passed to RevealCharacter, in order.
func (r *Recorder) Reveals() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.calls {
		if c.Method == "reveal" {
			out = append(out, c.Text)
		}
	}
	return out
}

// Count returns how many times method was called.
func (r *Recorder) Count(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Text returns the text currently displayed.
func (r *Recorder) Text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text
}

// BoxVisible reports whether the box is shown.
func (r *Recorder) BoxVisible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.boxVisible
}

// MenuVisible reports whether the option menu is shown.
func (r *Recorder) MenuVisible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.menuVisible
}

// ContinueVisible reports whether the continue arrow is shown.
func (r *Recorder) ContinueVisible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.continueVisible
}

// Cursor returns the last option the cursor was moved to.
func (r *Recorder) Cursor() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
