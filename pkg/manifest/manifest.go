// Package manifest loads the pbxkit.toml apply manifest: a declarative list
// of package dependencies, system frameworks, and source roots to ensure in
// a project document. The pipeline applies a manifest in one parse → mutate
// → write session.
package manifest

import (
	"fmt"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest describes everything one apply run should ensure in the project.
type Manifest struct {
	// Project is the path to the project.pbxproj to edit, relative to the
	// manifest file's directory unless absolute.
	Project string `toml:"project"`

	// Frameworks lists system frameworks by name ("UIKit"); the .framework
	// suffix is optional.
	Frameworks []string `toml:"frameworks"`

	// Packages lists remote package dependencies.
	Packages []Package `toml:"package"`

	// Sources lists source roots to scan for files to add.
	Sources []SourceSet `toml:"sources"`
}

// Package is one remote package dependency entry.
type Package struct {
	// URL is the package repository URL, the identity key for the entry.
	URL string `toml:"url"`

	// Version is the minimum version for an up-to-next-major requirement,
	// matching how the document records requirements.
	Version string `toml:"version"`

	// Products lists the product names to link. Defaults to the repository
	// name when empty.
	Products []string `toml:"products"`
}

// SourceSet is one root directory to scan for source files.
type SourceSet struct {
	// Root is the directory to walk, relative to the manifest's directory
	// unless absolute. Discovered paths are added relative to Root.
	Root string `toml:"root"`

	// Include holds doublestar glob patterns; defaults to ["**/*.swift"].
	Include []string `toml:"include"`
}

// DefaultInclude is the glob set used when a source set lists none.
var DefaultInclude = []string{"**/*.swift"}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	m.applyDefaults()
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Project == "" {
		return fmt.Errorf("project path is required")
	}
	for i, p := range m.Packages {
		if p.URL == "" {
			return fmt.Errorf("package %d: url is required", i+1)
		}
		if p.Version == "" {
			return fmt.Errorf("package %s: version is required", p.URL)
		}
	}
	for i, s := range m.Sources {
		if s.Root == "" {
			return fmt.Errorf("sources %d: root is required", i+1)
		}
	}
	return nil
}

func (m *Manifest) applyDefaults() {
	for i := range m.Packages {
		if len(m.Packages[i].Products) == 0 {
			m.Packages[i].Products = []string{RepoName(m.Packages[i].URL)}
		}
	}
	for i := range m.Sources {
		if len(m.Sources[i].Include) == 0 {
			m.Sources[i].Include = DefaultInclude
		}
	}
}

// RepoName extracts the repository name from a URL: the final path segment
// without any .git suffix.
func RepoName(url string) string {
	return strings.TrimSuffix(path.Base(strings.TrimSuffix(url, "/")), ".git")
}
