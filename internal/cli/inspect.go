package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/internal/presentation/graph"
	"github.com/aretw0/parley/internal/presentation/tui"
	"github.com/aretw0/parley/internal/validator"
	"github.com/aretw0/parley/pkg/domain"
)

// ValidationError is returned by Validate when some conversations do not decode.
type ValidationError struct {
	Failed int
	Total  int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d of %d conversations are invalid", e.Failed, e.Total)
}

// Validate decodes every conversation in source and writes one verdict line each.
func Validate(ctx context.Context, source string, w io.Writer) error {
	if source == "" {
		return fmt.Errorf("no script source: pass --source or set it in the config")
	}
	loader, err := parley.OpenLoader(source)
	if err != nil {
		return err
	}
	report, err := validator.ValidateSource(ctx, loader)
	if err != nil {
		return err
	}

	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", tui.Status(false, "✗"), res.Name, res.Err)
			continue
		}
		fmt.Fprintf(w, "%s %s (%s)\n", tui.Status(true, "✓"), res.Name, describe(res.Script))
	}

	if failed := report.Failed(); failed > 0 {
		return &ValidationError{Failed: failed, Total: len(report.Results)}
	}
	return nil
}

func describe(s *domain.Script) string {
	if !s.Branching() {
		return "linear"
	}
	return fmt.Sprintf("%d options", len(s.Labels))
}

// Show writes a rendered outline of one conversation.
func Show(ctx context.Context, source, name string, w io.Writer, render func(string) (string, error)) error {
	script, name, err := loadScript(ctx, source, name)
	if err != nil {
		return err
	}
	out, err := render(tui.Outline(name, script))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Graph writes a Mermaid flowchart of one conversation.
func Graph(ctx context.Context, source, name string, w io.Writer) error {
	script, name, err := loadScript(ctx, source, name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(name, script, nil))
	return err
}
