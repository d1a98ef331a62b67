package ports

import "context"

// ScriptLoader defines how conversation payloads are retrieved by name.
// This allows the data source (YAML file, markdown directory, memory) to be decoupled.
type ScriptLoader interface {
	// LoadScript returns the raw payload of the named conversation, ready for domain.Decode.
	// Returns domain.ErrScriptNotFound if the name is unknown.
	LoadScript(ctx context.Context, id string) (any, error)

	// ListScripts returns the names of every conversation the loader can supply.
	ListScripts(ctx context.Context) ([]string, error)
}
