package ports

// Presenter receives the visual side-effects requested by the engine.
// Calls are fire-and-forget: the engine never waits for an acknowledgment.
type Presenter interface {
	// RevealCharacter is called once per newly revealed character with the full text revealed so far
	// for the current block.
	RevealCharacter(textSoFar string)

	// SetBoxVisible shows or hides the dialogue box.
	SetBoxVisible(visible bool)

	// SetSelectionMenuVisible shows or hides the option menu.
	SetSelectionMenuVisible(visible bool)

	// MoveCursorToOption places the option cursor on the 1-based option index.
	MoveCursorToOption(index int)
}

// ContinueIndicator is an optional Presenter capability: the blinking arrow telling the
// player that one more press closes the box.
type ContinueIndicator interface {
	SetContinueIndicatorVisible(visible bool)
}

// TextClearer is an optional Presenter capability used when a new text block starts,
// so the previous block does not linger until the first character of the next one.
type TextClearer interface {
	ClearText()
}
