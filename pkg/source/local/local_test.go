package local

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// writeTree creates files (with parent directories) under a fresh temp root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestDiscover(t *testing.T) {
	root := writeTree(t, map[string]string{
		"App/Model.swift":      "",
		"App/Views/Main.swift": "",
		"App/Assets.xcassets":  "",
		"README.md":            "",
	})

	got, err := Discover(root, []string{"**/*.swift"})
	if err != nil {
		t.Fatalf("Discover(): %v", err)
	}
	want := []string{"App/Model.swift", "App/Views/Main.swift"}
	if !slices.Equal(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverMultiplePatterns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Shaders/Blur.metal": "",
		"App/Main.swift":     "",
		"App/notes.txt":      "",
	})

	got, err := Discover(root, []string{"**/*.swift", "**/*.metal"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"App/Main.swift", "Shaders/Blur.metal"}
	if !slices.Equal(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverHonorsGitignore(t *testing.T) {
	root := writeTree(t, map[string]string{
		".gitignore":              "Generated/\n*.generated.swift\n",
		"App/Main.swift":          "",
		"App/API.generated.swift": "",
		"Generated/Models.swift":  "",
	})

	got, err := Discover(root, []string{"**/*.swift"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"App/Main.swift"}
	if !slices.Equal(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverSkipsToolDirs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"App/Main.swift":              "",
		".build/checkouts/Dep.swift":  "",
		"Pods/Pod/Source.swift":       "",
		"DerivedData/Index/Tmp.swift": "",
		".hidden/Secret.swift":        "",
	})

	got, err := Discover(root, []string{"**/*.swift"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"App/Main.swift"}
	if !slices.Equal(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverSkipsHiddenFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"App/Main.swift":    "",
		"App/.hidden.swift": "",
	})

	got, err := Discover(root, []string{"**/*.swift"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"App/Main.swift"}
	if !slices.Equal(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverInvalidPattern(t *testing.T) {
	if _, err := Discover(t.TempDir(), []string{"[unclosed"}); err == nil {
		t.Error("Discover(invalid pattern) succeeded, want error")
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "absent"), []string{"**/*.swift"}); err == nil {
		t.Error("Discover(missing root) succeeded, want error")
	}
}

func TestDiscoverEmptyMatch(t *testing.T) {
	root := writeTree(t, map[string]string{"README.md": ""})

	got, err := Discover(root, []string{"**/*.swift"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Discover() = %v, want no matches", got)
	}
}
