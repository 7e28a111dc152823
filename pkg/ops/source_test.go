package ops

import (
	"errors"
	"testing"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

func TestAddSourceFile(t *testing.T) {
	e := scaffold(t)

	res, err := e.AddSourceFile("Sources/App/Model.swift")
	if err != nil {
		t.Fatalf("AddSourceFile(): %v", err)
	}
	// Two intermediate groups, the file reference, and its build file.
	if len(res.Created) != 4 {
		t.Errorf("Created = %v, want 4 new nodes", res.Created)
	}

	doc := e.Document()
	ref := doc.FindFirst(pbx.KindFileReference, func(n *pbx.Node) bool {
		return n.String("path") == "Model.swift"
	})
	if ref == nil {
		t.Fatal("file reference not created")
	}
	if got := ref.String("lastKnownFileType"); got != "sourcecode.swift" {
		t.Errorf("lastKnownFileType = %q, want sourcecode.swift", got)
	}

	// The file must sit in the App group, which sits in the Sources group,
	// which hangs off the main group.
	app := doc.FindFirst(pbx.KindGroup, func(n *pbx.Node) bool {
		return n.String("path") == "App"
	})
	if app == nil {
		t.Fatal("App group not created")
	}
	if children := app.Fields.GetList("children"); !children.ContainsRef(ref.ID) {
		t.Error("file reference not in the App group")
	}
	sources := doc.FindFirst(pbx.KindGroup, func(n *pbx.Node) bool {
		return n.String("path") == "Sources"
	})
	if sources == nil {
		t.Fatal("Sources group not created")
	}
	if children := sources.Fields.GetList("children"); !children.ContainsRef(app.ID) {
		t.Error("App group not in the Sources group")
	}
	main := doc.Node(doc.Root().Ref("mainGroup"))
	if children := main.Fields.GetList("children"); !children.ContainsRef(sources.ID) {
		t.Error("Sources group not in the main group")
	}

	bf := doc.FindFirst(pbx.KindBuildFile, func(n *pbx.Node) bool {
		return n.Ref("fileRef") == ref.ID
	})
	if bf == nil {
		t.Fatal("build file not created")
	}
	phase := doc.FindFirst(pbx.KindSourcesPhase, nil)
	if files := phase.Fields.GetList("files"); !files.ContainsRef(bf.ID) {
		t.Error("build file not in the Sources phase")
	}

	if err := doc.Validate(); err != nil {
		t.Errorf("Validate() after add: %v", err)
	}
}

func TestAddSourceFileIdempotent(t *testing.T) {
	e := scaffold(t)

	if _, err := e.AddSourceFile("Sources/App/Model.swift"); err != nil {
		t.Fatal(err)
	}
	res, err := e.AddSourceFile("Sources/App/Model.swift")
	if err != nil {
		t.Fatalf("repeat AddSourceFile(): %v", err)
	}
	if !res.Empty() {
		t.Errorf("repeat call reported changes: %+v", res)
	}
}

func TestAddSourceFileSharesGroups(t *testing.T) {
	e := scaffold(t)

	if _, err := e.AddSourceFile("Sources/App/Model.swift"); err != nil {
		t.Fatal(err)
	}
	res, err := e.AddSourceFile("Sources/App/View.swift")
	if err != nil {
		t.Fatal(err)
	}
	// Only the new file reference and its build file; groups are reused.
	if len(res.Created) != 2 {
		t.Errorf("Created = %v, want 2 new nodes", res.Created)
	}

	count := 0
	for range e.Document().Find(pbx.KindGroup, func(n *pbx.Node) bool {
		return n.String("path") == "App"
	}) {
		count++
	}
	if count != 1 {
		t.Errorf("App groups = %d, want 1", count)
	}
}

func TestAddSourceFileTopLevel(t *testing.T) {
	e := scaffold(t)

	if _, err := e.AddSourceFile("main.swift"); err != nil {
		t.Fatalf("AddSourceFile(top-level): %v", err)
	}
	doc := e.Document()
	ref := doc.FindFirst(pbx.KindFileReference, func(n *pbx.Node) bool {
		return n.String("path") == "main.swift"
	})
	if ref == nil {
		t.Fatal("file reference not created")
	}
	main := doc.Node(doc.Root().Ref("mainGroup"))
	if children := main.Fields.GetList("children"); !children.ContainsRef(ref.ID) {
		t.Error("top-level file not in the main group")
	}
}

func TestAddSourceFileEmptyPath(t *testing.T) {
	e := scaffold(t)

	for _, p := range []string{"", ".", "/"} {
		if _, err := e.AddSourceFile(p); !errors.Is(err, pbx.ErrNotFound) {
			t.Errorf("AddSourceFile(%q) = %v, want ErrNotFound", p, err)
		}
	}
}
