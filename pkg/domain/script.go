package domain

import "fmt"

// Script is the validated form of a conversation.
//
// Blocks[0] is the opening line. With N labels, Blocks[1..N] hold the follow-up
// text of each option, in label order.
type Script struct {
	Blocks []string `json:"blocks" yaml:"blocks"`
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// NewScript validates the shape of a conversation and returns an owned copy of it.
func NewScript(labels, blocks []string) (*Script, error) {
	if err := validateShape(len(labels), labels, blocks); err != nil {
		return nil, err
	}
	return &Script{
		Blocks: append([]string(nil), blocks...),
		Labels: append([]string(nil), labels...),
	}, nil
}

// Branching reports whether the script offers options after the opening line.
func (s *Script) Branching() bool {
	return len(s.Labels) > 0
}

// Block returns the text block at index i.
func (s *Script) Block(i int) (string, bool) {
	if i < 0 || i >= len(s.Blocks) {
		return "", false
	}
	return s.Blocks[i], true
}

// Payload converts the script back to its wire form.
func (s *Script) Payload() Payload {
	return Payload{
		Choices: len(s.Labels),
		Options: append([]string(nil), s.Labels...),
		Text:    append([]string(nil), s.Blocks...),
	}
}

// Payload is the named, typed form of a dialogue trigger.
// The field tags match the keys used by data files.
type Payload struct {
	Choices int      `json:"choices" yaml:"choices" mapstructure:"choices"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`
	Text    []string `json:"text" yaml:"text" mapstructure:"text"`
}

// Tuple returns the positional (choices, options, text) form of the payload.
func (p Payload) Tuple() []any {
	return []any{p.Choices, p.Options, p.Text}
}

// Linear builds the payload of a conversation without options.
func Linear(text string) Payload {
	return Payload{Text: []string{text}}
}

func validateShape(choices int, labels, blocks []string) error {
	if choices < 0 {
		return fmt.Errorf("%w: negative choice count %d", ErrMalformedPayload, choices)
	}
	if len(labels) != choices {
		return fmt.Errorf("%w: %d choices but %d option labels", ErrMalformedPayload, choices, len(labels))
	}
	if len(blocks) != choices+1 {
		return fmt.Errorf("%w: %d choices need %d text blocks, got %d", ErrMalformedPayload, choices, choices+1, len(blocks))
	}
	return nil
}
