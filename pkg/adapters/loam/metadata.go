package loam

// ScriptMetadata is the frontmatter of a conversation document.
// The document body is the opening line; each option carries its own reply.
type ScriptMetadata struct {
	ID string `json:"id" mapstructure:"id"`

	// Choices optionally pins the number of options, so that a document whose
	// option list was truncated fails to decode instead of silently shrinking.
	Choices any `json:"choices,omitempty" mapstructure:"choices"`

	Options []ScriptOption `json:"options" mapstructure:"options"`

	// Text replaces the body when the blocks are written out in full
	// (opening line first, then one reply per option).
	Text []string `json:"text,omitempty" mapstructure:"text"`

	// General Metadata
	Metadata map[string]string `json:"metadata" mapstructure:"metadata"`
}

// ScriptOption is one entry of the branch menu.
type ScriptOption struct {
	// Text is the label shown in the menu.
	Text string `json:"text" mapstructure:"text"`
	// Reply is the block revealed when the option is confirmed.
	Reply string `json:"reply" mapstructure:"reply"`
}
