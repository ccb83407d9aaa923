package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dlclark/regexp2"
	"gopkg.in/yaml.v3"
)

// Manifest is the solar.yaml project configuration.
//
//	name: hello
//	version: 0.1.0
//	dependencies:
//	  std: ../std
type Manifest struct {
	// Name is the project name; it is the first segment of every module path
	// of the project.
	Name string `yaml:"name"`

	// Version is informational.
	Version string `yaml:"version,omitempty"`

	// Dependencies maps a library name (the first segment of a `use lib`
	// import) to the library's project directory, relative to this manifest.
	Dependencies map[string]string `yaml:"dependencies,omitempty"`
}

var projectNameRe = regexp2.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`, regexp2.None)

func validName(s string) bool {
	ok, err := projectNameRe.MatchString(s)
	return err == nil && ok
}

// LoadManifest reads and validates the manifest in dir.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes and validates manifest bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for required fields.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest: name is required")
	}
	if !validName(m.Name) {
		return fmt.Errorf("manifest: invalid project name %q", m.Name)
	}
	for lib, dir := range m.Dependencies {
		if !validName(lib) {
			return fmt.Errorf("manifest: invalid dependency name %q", lib)
		}
		if dir == "" {
			return fmt.Errorf("manifest: dependency %q has no path", lib)
		}
	}
	return nil
}
