// Package project converts between the textual project.pbxproj form and the
// pbx document model.
//
// The package owns both directions of the boundary: [Unmarshal]/[ReadFile]
// parse the brace-delimited record syntax into a *pbx.Document, and
// [Marshal]/[WriteFile] serialize a document back deterministically. A
// parse → write round trip with no mutations reproduces the input byte for
// byte, modulo one documented normalization: whitespace is canonicalized to
// tab indentation and redundant quoting is dropped.
//
// WriteFile stages output in a temporary file beside the destination and
// renames it into place, so an interrupted write never leaves a half-written
// document visible.
package project

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

// Read parses a document from r.
func Read(r io.Reader) (*pbx.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// Write serializes doc to w.
func Write(doc *pbx.Document, w io.Writer) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ReadFile parses the document at path.
func ReadFile(path string) (*pbx.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteFile serializes doc and replaces the file at path atomically: the
// output is staged in a temporary file in the same directory and renamed
// over the destination. On any failure the original file is left untouched.
func WriteFile(doc *pbx.Document, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
