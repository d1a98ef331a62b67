package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
)

// maxLabel is the longest block excerpt drawn inside a node.
const maxLabel = 40

// Overlay contains play-through data to visualize on the graph.
type Overlay struct {
	// VisitedBlocks are the indexes of blocks already shown.
	VisitedBlocks []int
	// CurrentBlock is the block on screen; negative for none.
	CurrentBlock int
}

// GenerateMermaid produces a Mermaid flowchart of a conversation.
// It applies semantic styling:
// - Opening line: ((Circle))
// - Branch reply: [Rectangle]
// - End of conversation: ([Stadium])
// Each option becomes a labelled edge from the opening line to its reply.
func GenerateMermaid(name string, script *domain.Script, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	prefix := sanitizeMermaidID(name)
	if prefix == "" {
		prefix = "dialogue"
	}
	blockID := func(i int) string { return fmt.Sprintf("%s_%d", prefix, i) }
	endID := prefix + "_end"

	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", blockID(0), excerpt(script.Blocks[0])))
	for i, label := range script.Labels {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", blockID(idx), excerpt(script.Blocks[idx])))
		sb.WriteString(fmt.Sprintf("    %s -- \"%d. %s\" --> %s\n", blockID(0), idx, escape(label), blockID(idx)))
	}
	sb.WriteString(fmt.Sprintf("    %s([\"end\"])\n", endID))

	if script.Branching() {
		for i := range script.Labels {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", blockID(i+1), endID))
		}
	} else {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", blockID(0), endID))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, i := range overlay.VisitedBlocks {
			if i < 0 || i >= len(script.Blocks) || seen[i] {
				continue
			}
			seen[i] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", blockID(i)))
		}
		if c := overlay.CurrentBlock; c >= 0 && c < len(script.Blocks) {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", blockID(c)))
		}
	}

	return sb.String()
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) > maxLabel {
		text = string(runes[:maxLabel-1]) + "…"
	}
	return escape(text)
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", "<br/>")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(id)
}
