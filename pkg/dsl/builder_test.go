package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Conversations(t *testing.T) {
	b := New()

	b.Add("truck").
		Say("Need a ride?").
		Option("Yes", "Hop in.").
		Option("No", "Suit yourself.")

	b.Add("sign").
		Say("Dock 3.").
		Say("No swimming.")

	loader, err := b.Build()
	require.NoError(t, err)

	names, err := loader.ListScripts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sign", "truck"}, names)

	payload, err := loader.LoadScript(context.Background(), "truck")
	require.NoError(t, err)
	script, err := domain.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"Yes", "No"}, script.Labels)
	assert.Equal(t, []string{"Need a ride?", "Hop in.", "Suit yourself."}, script.Blocks)

	payload, err = loader.LoadScript(context.Background(), "sign")
	require.NoError(t, err)
	script, err = domain.Decode(payload)
	require.NoError(t, err)
	assert.False(t, script.Branching())
	assert.Equal(t, "Dock 3.\nNo swimming.", script.Blocks[0])
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New()
	b.Add("truck").Say("Need a ride?")
	b.Add("truck").Option("Yes", "Hop in.")

	scripts, err := b.Scripts()
	require.NoError(t, err)
	assert.Equal(t, []string{"Yes"}, scripts["truck"].Labels)
}

func TestBuilder_Empty(t *testing.T) {
	b := New()
	b.Add("ghost")
	b.Add("sign").Say("Dock 3.")

	_, err := b.Build()
	assert.ErrorIs(t, err, ErrEmptyConversation)
	assert.ErrorContains(t, err, "ghost")
}

func TestConversationBuilder_Payload(t *testing.T) {
	p, err := New().Add("truck").Say("Go?").Option("Yes", "Ok").Payload()
	require.NoError(t, err)
	assert.Equal(t, domain.Payload{Choices: 1, Options: []string{"Yes"}, Text: []string{"Go?", "Ok"}}, p)
}
