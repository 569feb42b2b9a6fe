package config

import (
	"errors"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// Config holds MCP-server configuration. The create/validate core itself
// is driven by CLI flags only; config affects tool registration and the
// default schema profile offered to MCP clients.
type Config struct {
	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown names are ignored.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// SchemaPath points at a schema profile used when an MCP request does
	// not name one. Empty means the bundled default schema.
	SchemaPath string `json:"schema_path,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// Load reads baseDir/config.json, falling back to defaults when the file
// does not exist. Callers pass the base directory so tests can point at a
// temp dir instead of ~/.tracemap.
func Load(baseDir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
