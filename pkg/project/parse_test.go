package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "minimal.pbxproj"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func TestUnmarshalFixture(t *testing.T) {
	doc, err := Unmarshal(loadFixture(t))
	if err != nil {
		t.Fatalf("Unmarshal(): %v", err)
	}

	if doc.ArchiveVersion != "1" || doc.ObjectVersion != "56" {
		t.Errorf("prelude = %s/%s, want 1/56", doc.ArchiveVersion, doc.ObjectVersion)
	}
	if doc.Len() != 5 {
		t.Errorf("Len() = %d, want 5", doc.Len())
	}

	root := doc.Root()
	if root == nil || root.Kind != pbx.KindProject {
		t.Fatalf("Root() = %v, want a PBXProject", root)
	}
	if got := root.String("compatibilityVersion"); got != "Xcode 14.0" {
		t.Errorf("compatibilityVersion = %q, want decoded quoted value", got)
	}

	// Declared reference fields come back typed.
	targets := root.Fields.GetList("targets")
	if targets == nil || len(targets.RefIDs()) != 1 {
		t.Fatalf("targets = %v, want one reference", targets)
	}
	target := doc.Node(targets.RefIDs()[0])
	if target == nil || target.Kind != pbx.KindNativeTarget {
		t.Fatalf("target node = %v", target)
	}
	if target.Name != "App" {
		t.Errorf("target display name = %q, want App", target.Name)
	}

	bf := doc.FindFirst(pbx.KindBuildFile, nil)
	if bf == nil {
		t.Fatal("no build file parsed")
	}
	if got := bf.Ref("fileRef"); got != "F1F1F1F1F1F1F1F1F1F1F1F1" {
		t.Errorf("fileRef = %q, want typed reference", got)
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	valid := string(loadFixture(t))

	tests := []struct {
		name string
		src  string
	}{
		{"UnknownKind", `// !$*UTF8*$!
{
	archiveVersion = 1;
	classes = {
	};
	objectVersion = 56;
	objects = {
		A1A1A1A1A1A1A1A1A1A1A1A1 = {
			isa = PBXMadeUpKind;
		};
	};
	rootObject = A1A1A1A1A1A1A1A1A1A1A1A1;
}
`},
		{"MissingIsa", `// !$*UTF8*$!
{
	archiveVersion = 1;
	classes = {
	};
	objectVersion = 56;
	objects = {
		A1A1A1A1A1A1A1A1A1A1A1A1 = {
			name = orphan;
		};
	};
	rootObject = A1A1A1A1A1A1A1A1A1A1A1A1;
}
`},
		{"EdgeListWithNonReference", `// !$*UTF8*$!
{
	archiveVersion = 1;
	classes = {
	};
	objectVersion = 56;
	objects = {
		E1E1E1E1E1E1E1E1E1E1E1E1 = {
			isa = PBXProject;
			targets = (notanid);
		};
	};
	rootObject = E1E1E1E1E1E1E1E1E1E1E1E1;
}
`},
		{"RootNotAProject", `// !$*UTF8*$!
{
	archiveVersion = 1;
	classes = {
	};
	objectVersion = 56;
	objects = {
		A1A1A1A1A1A1A1A1A1A1A1A1 = {
			isa = PBXGroup;
			children = (
			);
		};
	};
	rootObject = A1A1A1A1A1A1A1A1A1A1A1A1;
}
`},
		{"DanglingReference", `// !$*UTF8*$!
{
	archiveVersion = 1;
	classes = {
	};
	objectVersion = 56;
	objects = {
		E1E1E1E1E1E1E1E1E1E1E1E1 = {
			isa = PBXProject;
			targets = (
				D1D1D1D1D1D1D1D1D1D1D1D1,
			);
		};
	};
	rootObject = E1E1E1E1E1E1E1E1E1E1E1E1;
}
`},
		{"KindSectionMismatch", `// !$*UTF8*$!
{
	archiveVersion = 1;
	classes = {
	};
	objectVersion = 56;
	objects = {

/* Begin PBXGroup section */
		E1E1E1E1E1E1E1E1E1E1E1E1 = {
			isa = PBXProject;
		};
/* End PBXGroup section */
	};
	rootObject = E1E1E1E1E1E1E1E1E1E1E1E1;
}
`},
		{"UnbalancedBraces", "// !$*UTF8*$!\n{\n\tarchiveVersion = 1;\n"},
		{"TrailingContent", valid + "extra"},
		{"UnknownDocumentField", `// !$*UTF8*$!
{
	unexpected = 1;
}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.src))
			if !errors.Is(err, pbx.ErrMalformed) {
				t.Errorf("Unmarshal() = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestUnmarshalRedefinedIdentifier(t *testing.T) {
	src := `// !$*UTF8*$!
{
	archiveVersion = 1;
	classes = {
	};
	objectVersion = 56;
	objects = {
		E1E1E1E1E1E1E1E1E1E1E1E1 = {
			isa = PBXProject;
		};
		E1E1E1E1E1E1E1E1E1E1E1E1 = {
			isa = PBXProject;
		};
	};
	rootObject = E1E1E1E1E1E1E1E1E1E1E1E1;
}
`
	_, err := Unmarshal([]byte(src))
	if !errors.Is(err, pbx.ErrMalformed) {
		t.Errorf("Unmarshal() = %v, want ErrMalformed", err)
	}
}

func TestIdentShaped(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"F1F1F1F1F1F1F1F1F1F1F1F1", true},
		{"ABCDEF01", true},
		{"ABCDEF0123456789ABCDEF0123456789", true},
		{"abcdef0123456789abcdef01", false},
		{"ABCDEF0", false},
		{"UIKITFRAMEWORK", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := identShaped(tt.in); got != tt.want {
			t.Errorf("identShaped(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
