package persona

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath resolves the custom persona store in priority order:
// 1. VERCUS_PERSONAS environment variable
// 2. $XDG_CONFIG_HOME/vercus/personas.yaml
// 3. ~/.config/vercus/personas.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("VERCUS_PERSONAS"); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "vercus", "personas.yaml"), nil
}

// personaFile is the on-disk shape of the custom persona store.
type personaFile struct {
	Personas []Persona `yaml:"personas"`
}

// LoadFile reads custom personas from the YAML file at path. A missing
// file is not an error; it simply yields no personas.
func LoadFile(path string) ([]Persona, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read persona file: %w", err)
	}

	var f personaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse persona file: %w", err)
	}

	for _, p := range f.Personas {
		if p.ID == "" {
			return nil, fmt.Errorf("persona file %s: entry with empty id", path)
		}
	}
	return f.Personas, nil
}

// SaveFile writes the given personas to the YAML file at path, replacing
// any previous contents.
func SaveFile(path string, personas []Persona) error {
	data, err := yaml.Marshal(personaFile{Personas: personas})
	if err != nil {
		return fmt.Errorf("encode persona file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create persona dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write persona file: %w", err)
	}
	return nil
}

// LoadRegistry returns the builtin catalog overlaid with the custom
// personas stored at path.
func LoadRegistry(path string) (*Registry, error) {
	custom, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	reg := Builtin()
	for _, p := range custom {
		reg = reg.Upsert(p)
	}
	return reg, nil
}
