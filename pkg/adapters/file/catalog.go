package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Entry is one conversation of a catalog file.
type Entry struct {
	Name    string   `yaml:"name" json:"name"`
	Choices any      `yaml:"choices,omitempty" json:"choices,omitempty"`
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
	Text    []string `yaml:"text" json:"text"`
}

// CatalogFile represents the structure of dialogues.yaml (or .json).
type CatalogFile struct {
	Dialogues []Entry `yaml:"dialogues" json:"dialogues"`
}

// Catalog implements ports.ScriptLoader over a single YAML or JSON file.
// The file is read once; Catalog is immutable afterwards and safe for concurrent use.
type Catalog struct {
	path    string
	entries map[string]Entry
}

// Load reads a catalog file. The format follows the extension: .json is JSON,
// anything else is YAML.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialogue catalog: %w", err)
	}
	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	c.path = path
	return c, nil
}

// Parse decodes catalog bytes. ext selects the format the same way Load does.
func Parse(data []byte, ext string) (*Catalog, error) {
	var cfg CatalogFile
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse dialogue catalog (json): %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse dialogue catalog (yaml): %w", err)
		}
	}

	entries := make(map[string]Entry, len(cfg.Dialogues))
	for i, entry := range cfg.Dialogues {
		if entry.Name == "" {
			return nil, fmt.Errorf("dialogue #%d has no name", i+1)
		}
		if _, dup := entries[entry.Name]; dup {
			return nil, fmt.Errorf("dialogue '%s' is defined twice", entry.Name)
		}
		entries[entry.Name] = entry
	}
	return &Catalog{entries: entries}, nil
}

// Path returns the file the catalog was loaded from, empty for parsed catalogs.
func (c *Catalog) Path() string {
	return c.path
}

// LoadScript returns the named conversation as a payload map.
// A missing choices count defaults to the number of options.
func (c *Catalog) LoadScript(ctx context.Context, id string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entry, ok := c.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrScriptNotFound, id)
	}

	var choices any = len(entry.Options)
	if entry.Choices != nil {
		choices = entry.Choices
	}
	return map[string]any{
		"choices": choices,
		"options": slices.Clone(entry.Options),
		"text":    slices.Clone(entry.Text),
	}, nil
}

// ListScripts returns the conversation names, sorted.
func (c *Catalog) ListScripts(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
