// Package config loads and saves the two on-disk document types that
// describe a daemon installation: the ConfigIndex (a TOML catalog of
// profiles) and the Profile (a JSON per-profile document).
package config

import (
	"fmt"
	"os"

	gojson "github.com/goccy/go-json"
	toml "github.com/pelletier/go-toml/v2"
)

// Index is the top-level ConfigIndex document: the named-profile
// catalog, the default profile selection, and a named catalog of global
// script paths. GlobalScripts is decoded and saved with the index but
// is not compiled when a profile loads; only a Profile's own Scripts are.
type Index struct {
	Profiles       map[string]string `toml:"profiles"`
	DefaultProfile DefaultProfile    `toml:"default_profile"`
	GlobalScripts  map[string]string `toml:"global_scripts"`
}

// DefaultProfile names which profile entry the daemon loads at startup
// absent any other instruction.
type DefaultProfile struct {
	Default string `toml:"default"`
}

// Profile is one profile document: its scripts and its static
// scan-code remap table.
type Profile struct {
	Name     string            `json:"name"`
	Keyboard string            `json:"keyboard"`
	Scripts  []string          `json:"scripts"`
	Keys     map[string]string `json:"keys"`
}

// LoadIndex parses a ConfigIndex document. Malformed data fails the
// load; it is the caller's responsibility to keep the previous index
// live.
func LoadIndex(data []byte) (*Index, error) {
	var idx Index
	if err := toml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("config: decode index: %w", err)
	}
	return &idx, nil
}

// LoadIndexFile reads and parses a ConfigIndex document from disk.
func LoadIndexFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read index %q: %w", path, err)
	}
	return LoadIndex(data)
}

// SaveIndexFile serializes and writes a ConfigIndex document to disk.
func SaveIndexFile(path string, idx *Index) error {
	data, err := toml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("config: encode index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write index %q: %w", path, err)
	}
	return nil
}

// LoadProfile parses a Profile document.
func LoadProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := gojson.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: decode profile: %w", err)
	}
	return &p, nil
}

// LoadProfileFile reads and parses a Profile document from disk.
func LoadProfileFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read profile %q: %w", path, err)
	}
	return LoadProfile(data)
}

// SaveProfileFile serializes and writes a Profile document to disk.
func SaveProfileFile(path string, p *Profile) error {
	data, err := gojson.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write profile %q: %w", path, err)
	}
	return nil
}
