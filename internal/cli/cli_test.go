package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/parley/internal/config"
	"github.com/aretw0/parley/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalog = `dialogues:
  - name: truck
    options: ["Yes", "No"]
    text: ["Need a ride?", "Hop in.", "Suit yourself."]
  - name: sign
    text: ["Dock 3."]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func headlessConfig(source string) config.Config {
	cfg := config.Default()
	cfg.Source = source
	cfg.Cadence = time.Millisecond
	cfg.Frame = 2 * time.Millisecond
	return cfg
}

func TestPlay_Headless(t *testing.T) {
	source := writeFile(t, "dialogues.yaml", catalog)
	keys := writeFile(t, "keys.txt", "down\nconfirm\nconfirm\n")

	var stdout, stderr bytes.Buffer
	err := Play(context.Background(), headlessConfig(source), PlayOptions{
		Name:     "truck",
		Headless: true,
		Keys:     keys,
		Stdout:   &stdout,
		Stderr:   &stderr,
	})
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "│ Need a ride?\n")
	assert.Contains(t, out, "│ ▸ 2 No\n")
	assert.Contains(t, out, "│ Suit yourself. ▼\n")
	assert.Contains(t, out, ">>> Finished 'truck' after")
	assert.NotContains(t, out, "Hop in.")
	assert.Empty(t, stderr.String())
}

func TestPlay_KeysFromStdin(t *testing.T) {
	source := writeFile(t, "dialogues.yaml", catalog)

	var stdout bytes.Buffer
	err := Play(context.Background(), headlessConfig(source), PlayOptions{
		Name:     "sign",
		Headless: true,
		Keys:     "-",
		Stdin:    strings.NewReader("confirm\n"),
		Stdout:   &stdout,
		Stderr:   &bytes.Buffer{},
	})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "│ Dock 3. ▼\n└ closed\n")
}

func TestPlay_AutoConfirmWithoutKeys(t *testing.T) {
	source := writeFile(t, "dialogues.yaml", catalog)

	var stdout bytes.Buffer
	err := Play(context.Background(), headlessConfig(source), PlayOptions{
		Name:     "truck",
		Headless: true,
		Stdout:   &stdout,
		Stderr:   &bytes.Buffer{},
	})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Hop in.")
}

func TestPlay_Errors(t *testing.T) {
	source := writeFile(t, "dialogues.yaml", catalog)
	quiet := PlayOptions{Headless: true, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	t.Run("no source", func(t *testing.T) {
		err := Play(context.Background(), config.Default(), quiet)
		assert.ErrorContains(t, err, "no script source")
	})

	t.Run("ambiguous name", func(t *testing.T) {
		err := Play(context.Background(), headlessConfig(source), quiet)
		assert.ErrorContains(t, err, "name one of [sign truck]")
	})

	t.Run("script runs out", func(t *testing.T) {
		cfg := headlessConfig(source)
		cfg.MaxFrames = 200
		opts := quiet
		opts.Name = "truck"
		opts.Keys = writeFile(t, "keys.txt", "down\n")
		err := Play(context.Background(), cfg, opts)
		assert.ErrorIs(t, err, runner.ErrFrameBudget)
	})

	t.Run("bad key script", func(t *testing.T) {
		opts := quiet
		opts.Name = "truck"
		opts.Keys = writeFile(t, "keys.txt", "jump\n")
		err := Play(context.Background(), headlessConfig(source), opts)
		assert.ErrorContains(t, err, "line 1")
	})
}

func TestPlay_Cancelled(t *testing.T) {
	source := writeFile(t, "dialogues.yaml", catalog)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Play(ctx, headlessConfig(source), PlayOptions{
		Name:     "truck",
		Headless: true,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidate(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, Validate(context.Background(), writeFile(t, "d.yaml", catalog), &out))
		assert.Contains(t, out.String(), "sign (linear)")
		assert.Contains(t, out.String(), "truck (2 options)")
	})

	t.Run("reports every failure", func(t *testing.T) {
		source := writeFile(t, "d.yaml", catalog+`  - name: broken
    choices: 2
    options: ["A", "B"]
    text: ["only one"]
`)
		var out bytes.Buffer
		err := Validate(context.Background(), source, &out)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, 1, verr.Failed)
		assert.Equal(t, 3, verr.Total)
		assert.Contains(t, out.String(), "broken: malformed dialogue payload")
		assert.Contains(t, out.String(), "truck (2 options)")
	})
}

func TestShow(t *testing.T) {
	identity := func(s string) (string, error) { return s, nil }

	var out bytes.Buffer
	require.NoError(t, Show(context.Background(), writeFile(t, "d.yaml", catalog), "truck", &out, identity))
	assert.Contains(t, out.String(), "# truck")
	assert.Contains(t, out.String(), "### 1. Yes")
}

func TestGraph(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Graph(context.Background(), writeFile(t, "d.yaml", catalog), "sign", &out))
	assert.Contains(t, out.String(), "sign_0 --> sign_end")

	err := Graph(context.Background(), writeFile(t, "d.yaml", catalog), "ghost", &bytes.Buffer{})
	assert.ErrorContains(t, err, "ghost")
}
