package ops

import (
	"strings"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

// sdkFrameworkDir is where system framework bundles live relative to the
// developer directory.
const sdkFrameworkDir = "Platforms/iPhoneOS.platform/Developer/SDKs/iPhoneOS18.6.sdk/System/Library/Frameworks"

// AddSystemFramework ensures the document links the named system framework:
// exactly one framework file reference for it, one build file wrapping that
// reference, and that build file in the target's Frameworks phase, in that
// order and with no duplicates. Calling it twice with the same name leaves
// the document unchanged after the first call.
func (e *Editor) AddSystemFramework(name string) (Result, error) {
	var res Result

	target, err := e.target()
	if err != nil {
		return Result{}, err
	}

	bundle := name
	if !strings.HasSuffix(bundle, ".framework") {
		bundle += ".framework"
	}

	ref := e.doc.FindFirst(pbx.KindFileReference, func(n *pbx.Node) bool {
		return n.String("lastKnownFileType") == "wrapper.framework" && n.String("name") == bundle
	})
	if ref == nil {
		ref = pbx.NewNode(e.alloc.Next(), pbx.KindFileReference).
			SetString("lastKnownFileType", "wrapper.framework").
			SetString("name", bundle).
			SetString("path", sdkFrameworkDir+"/"+bundle).
			SetString("sourceTree", "DEVELOPER_DIR")
		if _, err := e.insert(&res, ref); err != nil {
			return Result{}, err
		}
	}

	bf, err := e.buildFileFor(&res, "fileRef", ref.ID)
	if err != nil {
		return Result{}, err
	}

	phase, err := e.ensurePhase(&res, target, pbx.KindFrameworksPhase)
	if err != nil {
		return Result{}, err
	}
	if err := e.link(&res, phase.ID, "files", bf.ID); err != nil {
		return Result{}, err
	}
	return res, nil
}
