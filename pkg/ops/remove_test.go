package ops

import (
	"slices"
	"testing"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

func TestRemoveReferenceCascade(t *testing.T) {
	e := scaffold(t)
	if _, err := e.AddSystemFramework("UIKit"); err != nil {
		t.Fatal(err)
	}

	doc := e.Document()
	ref := doc.FindFirst(pbx.KindFileReference, func(n *pbx.Node) bool {
		return n.String("name") == "UIKit.framework"
	})
	bf := doc.FindFirst(pbx.KindBuildFile, func(n *pbx.Node) bool {
		return n.Ref("fileRef") == ref.ID
	})

	res, err := e.RemoveReference(pbx.KindFileReference, func(n *pbx.Node) bool {
		return n.String("name") == "UIKit.framework"
	})
	if err != nil {
		t.Fatalf("RemoveReference(): %v", err)
	}

	// The cascade takes the orphaned build file along with the reference.
	want := []string{ref.ID, bf.ID}
	slices.Sort(want)
	if !slices.Equal(res.Removed, want) {
		t.Errorf("Removed = %v, want %v", res.Removed, want)
	}
	if doc.Node(ref.ID) != nil || doc.Node(bf.ID) != nil {
		t.Error("removed nodes still present")
	}
	phase := doc.FindFirst(pbx.KindFrameworksPhase, nil)
	if files := phase.Fields.GetList("files"); files.ContainsRef(bf.ID) {
		t.Error("phase still lists the removed build file")
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("Validate() after remove: %v", err)
	}
}

func TestRemoveReferenceNoMatch(t *testing.T) {
	e := scaffold(t)
	before := e.Document().Len()

	res, err := e.RemoveReference(pbx.KindFileReference, func(n *pbx.Node) bool {
		return n.String("path") == "Missing.framework"
	})
	if err != nil {
		t.Fatalf("RemoveReference(no match): %v", err)
	}
	if !res.Empty() {
		t.Errorf("no-match call reported changes: %+v", res)
	}
	if e.Document().Len() != before {
		t.Error("no-match call changed the document")
	}
}

func TestRemoveReferenceMultipleMatches(t *testing.T) {
	e := scaffold(t)
	for _, name := range []string{"UIKit", "CoreData"} {
		if _, err := e.AddSystemFramework(name); err != nil {
			t.Fatal(err)
		}
	}

	res, err := e.RemoveReference(pbx.KindFileReference, func(n *pbx.Node) bool {
		return n.String("lastKnownFileType") == "wrapper.framework"
	})
	if err != nil {
		t.Fatal(err)
	}
	// Two references and their two build files.
	if len(res.Removed) != 4 {
		t.Errorf("Removed = %v, want 4 identifiers", res.Removed)
	}
	if e.Document().FindFirst(pbx.KindBuildFile, nil) != nil {
		t.Error("orphaned build files survived the cascade")
	}
}
