/*
Package dsl provides a Go DSL for programmatically constructing Parley conversations.

It lets developers define dialogues with a fluent builder instead of YAML, JSON or
markdown files, which is handy for generated content, unit tests and IDE completion.

Example usage:

	b := dsl.New()

	b.Add("truck").
		Say("Need a ride?").
		Option("Yes", "Hop in.").
		Option("No", "Suit yourself.")

	b.Add("sign").
		Say("Dock 3.").
		Say("No swimming.")

	// The result is a ports.ScriptLoader.
	loader, err := b.Build()
	// ... pass it to parley.New("", parley.WithLoader(loader))
*/
package dsl
