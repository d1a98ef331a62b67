package validator

import (
	"context"
	"fmt"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
)

// Result is the verdict for one conversation.
type Result struct {
	Name   string
	Script *domain.Script
	Err    error
}

// Report lists the verdicts of a source, in the loader's order.
type Report struct {
	Results []Result
}

// Failed counts the conversations that did not load or decode.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// ValidateSource loads and decodes every conversation the loader lists.
// Per-conversation problems go into the report; the error is only set when the
// listing itself fails or ctx is done.
func ValidateSource(ctx context.Context, loader ports.ScriptLoader) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	names, err := loader.ListScripts(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list conversations: %w", err)
	}

	report := Report{Results: make([]Result, 0, len(names))}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := Result{Name: name}
		payload, err := loader.LoadScript(ctx, name)
		if err == nil {
			res.Script, err = domain.Decode(payload)
		}
		res.Err = err
		report.Results = append(report.Results, res)
	}
	return report, nil
}
