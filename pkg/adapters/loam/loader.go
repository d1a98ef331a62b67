package loam

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/parley/pkg/domain"
)

// Loader adapts a Loam repository of markdown (or JSON/YAML) documents to ports.ScriptLoader.
// Every document is one conversation named after its frontmatter id, or its file
// name without extension when it has none.
type Loader struct {
	Repo *loam.TypedRepository[ScriptMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ScriptMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository at path and wraps it.
// Strict mode makes numbers arrive as json.Number, which the payload decoder accepts.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ScriptMetadata](repo)), nil
}

// LoadScript returns the named conversation as a payload map with the keys
// "choices", "options" and "text".
func (l *Loader) LoadScript(ctx context.Context, id string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	key, ok := index[trimExtension(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrScriptNotFound, id)
	}

	doc, err := l.Repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrScriptNotFound, id)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	return buildPayload(doc.Data, doc.Content), nil
}

// ListScripts returns the conversation names, sorted.
// Two documents resolving to the same name are reported as an error.
func (l *Loader) ListScripts(ctx context.Context) ([]string, error) {
	index, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// index maps every conversation name to the repository key of its document.
// A frontmatter id renames the conversation; the key stays the file path.
func (l *Loader) index(ctx context.Context) (map[string]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	index := make(map[string]string, len(docs))
	for _, doc := range docs {
		key := trimExtension(doc.ID)
		id := key
		if doc.Data.ID != "" {
			id = trimExtension(doc.Data.ID)
		}

		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: script '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID
		index[id] = key
	}
	return index, nil
}

func buildPayload(meta ScriptMetadata, content string) map[string]any {
	labels := make([]string, 0, len(meta.Options))
	for _, opt := range meta.Options {
		labels = append(labels, opt.Text)
	}

	text := meta.Text
	if len(text) == 0 {
		text = make([]string, 0, len(meta.Options)+1)
		text = append(text, strings.TrimSpace(content))
		for _, opt := range meta.Options {
			text = append(text, opt.Reply)
		}
	}

	var choices any = len(labels)
	if meta.Choices != nil {
		choices = meta.Choices
	}

	return map[string]any{
		"choices": choices,
		"options": labels,
		"text":    text,
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
