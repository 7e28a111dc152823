package ops

import (
	"fmt"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

// Requirement is a package version requirement as recorded in the document.
// Nothing is fetched or resolved; this is metadata only.
type Requirement struct {
	// Kind is the requirement rule, e.g. "upToNextMajorVersion".
	Kind string
	// MinimumVersion is the lower version bound.
	MinimumVersion string
}

// UpToNextMajor is the requirement rule every script in the wild records.
func UpToNextMajor(version string) Requirement {
	return Requirement{Kind: "upToNextMajorVersion", MinimumVersion: version}
}

func (r Requirement) String() string {
	return fmt.Sprintf("%s %s", r.Kind, r.MinimumVersion)
}

// object renders the requirement as the nested record the wire format uses.
func (r Requirement) object() *pbx.Object {
	o := pbx.NewObject()
	o.Set("kind", pbx.String{Text: r.Kind})
	o.Set("minimumVersion", pbx.String{Text: r.MinimumVersion})
	return o
}

// matches reports whether the nested requirement record equals r.
func (r Requirement) matches(o *pbx.Object) bool {
	return o != nil && o.GetString("kind") == r.Kind && o.GetString("minimumVersion") == r.MinimumVersion
}

func requirementOf(o *pbx.Object) Requirement {
	if o == nil {
		return Requirement{}
	}
	return Requirement{Kind: o.GetString("kind"), MinimumVersion: o.GetString("minimumVersion")}
}

// AddPackageDependency ensures one package reference exists for repoURL
// (looked up by URL, never by identifier), one product dependency per name
// in products referencing it, and each product registered both in the
// target's product-dependency list and as a build file in the Frameworks
// phase.
//
// When a package reference for repoURL already exists with a different
// version requirement, the call fails with pbx.ErrConflictingRequirement
// naming both requirements, and the document is unchanged. Re-running with
// identical arguments is a no-op.
func (e *Editor) AddPackageDependency(repoURL string, req Requirement, products []string) (Result, error) {
	var res Result

	target, err := e.target()
	if err != nil {
		return Result{}, err
	}

	// Conflict detection happens before any mutation so a failed call
	// leaves the document exactly as it was.
	pkgRef := e.doc.FindFirst(pbx.KindPackageReference, func(n *pbx.Node) bool {
		return n.String("repositoryURL") == repoURL
	})
	if pkgRef != nil {
		if existing := pkgRef.Fields.GetObject("requirement"); !req.matches(existing) {
			return Result{}, fmt.Errorf("%w: %s requires %q, already recorded %q",
				pbx.ErrConflictingRequirement, repoURL, req, requirementOf(existing))
		}
	} else {
		pkgRef = pbx.NewNode(e.alloc.Next(), pbx.KindPackageReference).
			SetString("repositoryURL", repoURL).
			Set("requirement", req.object())
		if _, err := e.insert(&res, pkgRef); err != nil {
			return Result{}, err
		}
	}
	if err := e.link(&res, e.doc.RootID, "packageReferences", pkgRef.ID); err != nil {
		return Result{}, err
	}

	phase, err := e.ensurePhase(&res, target, pbx.KindFrameworksPhase)
	if err != nil {
		return Result{}, err
	}

	for _, product := range products {
		dep := e.doc.FindFirst(pbx.KindProductDependency, func(n *pbx.Node) bool {
			return n.Ref("package") == pkgRef.ID && n.String("productName") == product
		})
		if dep == nil {
			dep = pbx.NewNode(e.alloc.Next(), pbx.KindProductDependency).
				SetRef("package", pkgRef.ID).
				SetString("productName", product)
			if _, err := e.insert(&res, dep); err != nil {
				return Result{}, err
			}
		}
		if err := e.link(&res, target.ID, "packageProductDependencies", dep.ID); err != nil {
			return Result{}, err
		}
		bf, err := e.buildFileFor(&res, "productRef", dep.ID)
		if err != nil {
			return Result{}, err
		}
		if err := e.link(&res, phase.ID, "files", bf.ID); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}
