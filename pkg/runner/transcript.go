package runner

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Transcript implements ports.Presenter by writing what the box shows to w.
//
// Text is written once per block, when it is complete (the menu or the continue arrow
// appears) or when it is replaced or closed mid-reveal. Set Labels to print option names.
type Transcript struct {
	mu sync.Mutex
	w  io.Writer

	// Labels, when set, returns the options of the running conversation.
	Labels func() []string

	text    string
	flushed bool
}

// NewTranscript creates a transcript writing to w.
func NewTranscript(w io.Writer) *Transcript {
	return &Transcript{w: w, flushed: true}
}

// RevealCharacter remembers the text revealed so far.
func (t *Transcript) RevealCharacter(textSoFar string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text = textSoFar
	t.flushed = false
}

// SetBoxVisible writes the box boundaries.
func (t *Transcript) SetBoxVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if visible {
		fmt.Fprintln(t.w, "┌ dialogue")
		return
	}
	t.flush("…")
	fmt.Fprintln(t.w, "└ closed")
}

// SetSelectionMenuVisible writes the option list.
func (t *Transcript) SetSelectionMenuVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !visible {
		return
	}
	t.flush("")
	var labels []string
	if t.Labels != nil {
		labels = t.Labels()
	}
	for i, label := range labels {
		fmt.Fprintf(t.w, "│   %d. %s\n", i+1, label)
	}
}

// MoveCursorToOption writes the highlighted option.
func (t *Transcript) MoveCursorToOption(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	label := ""
	if t.Labels != nil {
		if labels := t.Labels(); index >= 1 && index <= len(labels) {
			label = " " + labels[index-1]
		}
	}
	fmt.Fprintf(t.w, "│ ▸ %d%s\n", index, label)
}

// SetContinueIndicatorVisible flushes the completed block.
func (t *Transcript) SetContinueIndicatorVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if visible {
		t.flush(" ▼")
	}
}

// ClearText starts a new block.
func (t *Transcript) ClearText() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flush("…")
	t.text = ""
	t.flushed = true
}

func (t *Transcript) flush(suffix string) {
	if t.flushed {
		return
	}
	lines := strings.Split(t.text, "\n")
	for i, line := range lines {
		if i == len(lines)-1 {
			line += suffix
		}
		fmt.Fprintf(t.w, "│ %s\n", line)
	}
	t.flushed = true
}
