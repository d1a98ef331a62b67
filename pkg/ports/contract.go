package ports

import (
	"context"
	"testing"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunScriptLoaderContract runs a suite of tests to verify that a ScriptLoader implementation
// adheres to the defined interface contract.
//
// The loader must be seeded with the conversations in expected (name -> decoded script).
func RunScriptLoaderContract(t *testing.T, loader ScriptLoader, expected map[string]*domain.Script) {
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		ids, err := loader.ListScripts(ctx)
		require.NoError(t, err)
		for id := range expected {
			assert.Contains(t, ids, id)
		}
	})

	t.Run("Load and Decode", func(t *testing.T) {
		for id, want := range expected {
			raw, err := loader.LoadScript(ctx, id)
			require.NoError(t, err, "LoadScript(%s) should not return error", id)

			got, err := domain.Decode(raw)
			require.NoError(t, err, "payload of %s should decode", id)
			assert.Equal(t, want.Blocks, got.Blocks, "blocks of %s", id)
			assert.Equal(t, want.Labels, got.Labels, "label order of %s", id)
		}
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := loader.LoadScript(ctx, "does-not-exist")
		assert.ErrorIs(t, err, domain.ErrScriptNotFound)
	})
}
