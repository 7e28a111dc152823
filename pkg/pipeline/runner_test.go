package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pbxkit/pkg/manifest"
	"github.com/matzehuels/pbxkit/pkg/ops"
	"github.com/matzehuels/pbxkit/pkg/project"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// writeProject scaffolds a fresh project file in a temp dir and returns its
// path plus the serialized bytes as written.
func writeProject(t *testing.T) (string, []byte) {
	t.Helper()
	doc, err := ops.NewProject("App")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "project.pbxproj")
	if err := project.WriteFile(doc, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return path, data
}

func TestExecute(t *testing.T) {
	path, before := writeProject(t)

	r := NewRunner(quietLogger())
	result, err := r.Execute(context.Background(), Options{
		Path:  path,
		Steps: []Step{AddFramework("UIKit")},
	})
	if err != nil {
		t.Fatalf("Execute(): %v", err)
	}
	if result.Changes.Empty() {
		t.Error("Changes empty after adding a framework")
	}
	if result.Stats.ObjectCount == 0 {
		t.Error("Stats.ObjectCount not recorded")
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(before, after) {
		t.Error("file unchanged after a mutating run")
	}
	if !bytes.Contains(after, []byte("UIKit.framework")) {
		t.Error("written file does not mention the added framework")
	}
}

func TestExecuteFailingStepLeavesFile(t *testing.T) {
	path, before := writeProject(t)

	boom := errors.New("boom")
	r := NewRunner(quietLogger())
	_, err := r.Execute(context.Background(), Options{
		Path: path,
		Steps: []Step{
			AddFramework("UIKit"),
			{Name: "explode", Apply: func(*ops.Editor) (ops.Result, error) {
				return ops.Result{}, boom
			}},
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Execute() = %v, want the step's error", err)
	}
	if !strings.Contains(err.Error(), "explode") {
		t.Errorf("error %q does not name the failed step", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("failed run modified the file")
	}
}

func TestExecuteDryRun(t *testing.T) {
	path, before := writeProject(t)

	var out bytes.Buffer
	r := NewRunner(quietLogger())
	_, err := r.Execute(context.Background(), Options{
		Path:   path,
		Steps:  []Step{AddFramework("UIKit")},
		DryRun: true,
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("Execute(dry run): %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("UIKit.framework")) {
		t.Error("dry-run output does not contain the mutation")
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("dry run modified the file")
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil)
	if _, err := r.Execute(context.Background(), Options{}); err == nil {
		t.Error("Execute without a path succeeded")
	}
	if _, err := r.Execute(context.Background(), Options{Path: "p", DryRun: true}); err == nil {
		t.Error("dry run without a writer succeeded")
	}
}

func TestExecuteCanceledContext(t *testing.T) {
	path, _ := writeProject(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(quietLogger())
	_, err := r.Execute(ctx, Options{Path: path, Steps: []Step{AddFramework("UIKit")}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute(canceled) = %v, want context.Canceled", err)
	}
}

func TestStepsFromManifest(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "Sources", "App")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "Main.swift"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	m := &manifest.Manifest{
		Project:    "project.pbxproj",
		Frameworks: []string{"UIKit"},
		Packages: []manifest.Package{
			{URL: "https://github.com/Alamofire/Alamofire", Version: "5.8.0", Products: []string{"Alamofire"}},
		},
		Sources: []manifest.SourceSet{
			{Root: "Sources", Include: []string{"**/*.swift"}},
		},
	}

	steps, err := StepsFromManifest(m, dir)
	if err != nil {
		t.Fatalf("StepsFromManifest(): %v", err)
	}
	var names []string
	for _, s := range steps {
		names = append(names, s.Name)
	}
	want := []string{
		"add framework UIKit",
		"add package https://github.com/Alamofire/Alamofire",
		"add source App/Main.swift",
	}
	if len(names) != len(want) {
		t.Fatalf("steps = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("step %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestStepsFromManifestDiscoveryError(t *testing.T) {
	m := &manifest.Manifest{
		Project: "project.pbxproj",
		Sources: []manifest.SourceSet{
			{Root: "absent", Include: []string{"**/*.swift"}},
		},
	}
	if _, err := StepsFromManifest(m, t.TempDir()); err == nil {
		t.Error("StepsFromManifest with a missing root succeeded")
	}
}
