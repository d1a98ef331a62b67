/*
Package parley is a tick-driven dialogue engine for games: a box that reveals text one
character at a time, optionally offers a menu of options, and closes on a confirm press.

The engine is a small state machine (idle, revealing, awaiting selection, awaiting
dismiss) with no goroutines. The host game owns it, calls Tick once per frame with the
elapsed time, and injects two collaborators: a Presenter that draws the box and an
InputReader that reports the per-frame button snapshot.

# Payloads

A conversation is triggered with a payload of the form (choices, options, text):

	[]any{2, []any{"Yes", "No"}, []any{"Need a ride?", "Hop in.", "Suit yourself."}}

text[0] is the opening line; text[i] is revealed after option i is confirmed. A
payload whose parts disagree is rejected with domain.ErrMalformedPayload before
anything is shown. Named maps and domain.Payload values are accepted as well, and
named conversations can be read from a YAML/JSON catalog or a directory of markdown
documents.

# Usage

	eng, err := parley.New("./dialogues.yaml",
		parley.WithPresenter(myBox),
		parley.WithInput(myPad),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := eng.BeginNamed(ctx, "truck"); err != nil {
		log.Print(err)
	}

	for frame := range frames {
		eng.Tick(frame.Elapsed)
	}

Confirm is edge-triggered: a press held across the end of a line, or held over
several frames, acts at most once.
*/
package parley
