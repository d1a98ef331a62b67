package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// It uses the auto style (light/dark background detection).
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Outline describes a conversation as markdown: the opening line, then one section
// per option with the reply it leads to.
func Outline(name string, script *domain.Script) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", name)
	sb.WriteString(quote(script.Blocks[0]))

	if !script.Branching() {
		sb.WriteString("\n*No options: one confirm press closes the box.*\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "\n## Options (%d)\n", len(script.Labels))
	for i, label := range script.Labels {
		fmt.Fprintf(&sb, "\n### %d. %s\n\n", i+1, label)
		sb.WriteString(quote(script.Blocks[i+1]))
	}
	return sb.String()
}

func quote(text string) string {
	if text == "" {
		return "> *(empty)*\n"
	}
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		sb.WriteString("> " + line + "  \n")
	}
	return sb.String()
}
