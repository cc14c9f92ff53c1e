// Package content loads and validates immutable story definitions.
// Definitions live in YAML: the built-in storyline ships embedded in the
// binary, and external story files can be loaded from disk.
package content

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"corsair/internal/debug"
	"corsair/internal/game"
)

//go:embed story/story.yaml
var builtinFS embed.FS

// LoadBuiltin loads the embedded storyline.
func LoadBuiltin(log *debug.Logger) (*game.Story, error) {
	raw, err := builtinFS.ReadFile("story/story.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded story: %w", err)
	}
	return LoadBytes(raw, log)
}

// LoadFile loads a story definition from disk.
func LoadFile(path string, log *debug.Logger) (*game.Story, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story file: %w", err)
	}
	return LoadBytes(raw, log)
}

// LoadBytes unmarshals, indexes, and validates a story definition. A story
// that fails validation is never handed to an engine: every transition
// target must resolve at load time, not at the moment a player hits it.
func LoadBytes(raw []byte, log *debug.Logger) (*game.Story, error) {
	var story game.Story
	if err := yaml.Unmarshal(raw, &story); err != nil {
		return nil, fmt.Errorf("failed to parse story data: %w", err)
	}
	story.Index()
	if err := Validate(&story, log); err != nil {
		return nil, err
	}
	return &story, nil
}
