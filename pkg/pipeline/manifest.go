package pipeline

import (
	"path/filepath"

	"github.com/matzehuels/pbxkit/pkg/manifest"
	"github.com/matzehuels/pbxkit/pkg/ops"
	"github.com/matzehuels/pbxkit/pkg/source/local"
)

// StepsFromManifest expands a loaded manifest into the ordered step list an
// apply run executes: frameworks first, then packages, then discovered
// sources. baseDir anchors the manifest's relative source roots, normally
// the directory holding the manifest file.
//
// Source discovery happens here, before any mutation, so a discovery error
// aborts the run without touching the document.
func StepsFromManifest(m *manifest.Manifest, baseDir string) ([]Step, error) {
	var steps []Step

	for _, name := range m.Frameworks {
		steps = append(steps, AddFramework(name))
	}

	for _, p := range m.Packages {
		steps = append(steps, AddPackage(p.URL, ops.UpToNextMajor(p.Version), p.Products))
	}

	for _, set := range m.Sources {
		root := set.Root
		if !filepath.IsAbs(root) {
			root = filepath.Join(baseDir, root)
		}
		paths, err := local.Discover(root, set.Include)
		if err != nil {
			return nil, err
		}
		for _, rel := range paths {
			steps = append(steps, AddSource(rel))
		}
	}

	return steps, nil
}
