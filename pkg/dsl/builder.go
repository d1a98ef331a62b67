package dsl

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
)

// ErrEmptyConversation is returned for a conversation with neither lines nor options.
var ErrEmptyConversation = errors.New("conversation has no lines")

// Builder manages the construction of a set of conversations.
type Builder struct {
	order         []string
	conversations map[string]*ConversationBuilder
}

// New creates a new builder.
func New() *Builder {
	return &Builder{
		conversations: make(map[string]*ConversationBuilder),
	}
}

// Add starts a conversation.
// If the conversation already exists, it returns the existing builder.
func (b *Builder) Add(name string) *ConversationBuilder {
	if cb, ok := b.conversations[name]; ok {
		return cb
	}
	cb := &ConversationBuilder{name: name}
	b.conversations[name] = cb
	b.order = append(b.order, name)
	return cb
}

// Scripts validates every conversation and returns them by name.
// All problems are reported together.
func (b *Builder) Scripts() (map[string]*domain.Script, error) {
	scripts := make(map[string]*domain.Script, len(b.conversations))
	var errs []error
	for _, name := range b.order {
		s, err := b.conversations[name].Script()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		scripts[name] = s
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return scripts, nil
}

// Build compiles the conversations into a memory.Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	scripts, err := b.Scripts()
	if err != nil {
		return nil, err
	}
	loader, err := memory.NewFromScripts(scripts)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

// ConversationBuilder provides a fluent API for one conversation.
type ConversationBuilder struct {
	name    string
	lines   []string
	labels  []string
	replies []string
}

// Say appends a line to the opening block.
func (c *ConversationBuilder) Say(line string) *ConversationBuilder {
	c.lines = append(c.lines, line)
	return c
}

// Option adds a choice and the block shown after it is picked.
func (c *ConversationBuilder) Option(label, reply string) *ConversationBuilder {
	c.labels = append(c.labels, label)
	c.replies = append(c.replies, reply)
	return c
}

// Script validates the conversation. Lines given to Say are joined with newlines.
func (c *ConversationBuilder) Script() (*domain.Script, error) {
	if len(c.lines) == 0 && len(c.labels) == 0 {
		return nil, ErrEmptyConversation
	}
	blocks := append([]string{strings.Join(c.lines, "\n")}, c.replies...)
	return domain.NewScript(slices.Clone(c.labels), blocks)
}

// Payload returns the conversation in the named payload shape, ready for Engine.Begin.
func (c *ConversationBuilder) Payload() (domain.Payload, error) {
	s, err := c.Script()
	if err != nil {
		return domain.Payload{}, err
	}
	return s.Payload(), nil
}
