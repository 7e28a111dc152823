package pbx

import "slices"

// Kind identifies a record type in the project document (the "isa" field).
type Kind string

// The closed set of record kinds the model recognizes.
const (
	KindBuildFile          Kind = "PBXBuildFile"
	KindFileReference      Kind = "PBXFileReference"
	KindFrameworksPhase    Kind = "PBXFrameworksBuildPhase"
	KindGroup              Kind = "PBXGroup"
	KindNativeTarget       Kind = "PBXNativeTarget"
	KindProject            Kind = "PBXProject"
	KindResourcesPhase     Kind = "PBXResourcesBuildPhase"
	KindSourcesPhase       Kind = "PBXSourcesBuildPhase"
	KindBuildConfiguration Kind = "XCBuildConfiguration"
	KindConfigurationList  Kind = "XCConfigurationList"
	KindPackageReference   Kind = "XCRemoteSwiftPackageReference"
	KindProductDependency  Kind = "XCSwiftPackageProductDependency"
)

// SectionOrder is the canonical order of per-kind sections in a serialized
// document. Xcode emits sections alphabetically by isa; new sections created
// by mutations are slotted into this order.
var SectionOrder = []Kind{
	KindBuildFile,
	KindFileReference,
	KindFrameworksPhase,
	KindGroup,
	KindNativeTarget,
	KindProject,
	KindResourcesPhase,
	KindSourcesPhase,
	KindBuildConfiguration,
	KindConfigurationList,
	KindPackageReference,
	KindProductDependency,
}

// Known reports whether k is in the recognized kind vocabulary.
func (k Kind) Known() bool {
	_, ok := refFields[k]
	return ok
}

// FieldShape describes how a recognized reference field is typed.
type FieldShape int

const (
	RefScalar FieldShape = iota // single identifier value
	RefList                     // ordered list of identifiers
)

// refFields enumerates, per kind, the fields whose values are references.
// All other fields are opaque and preserved verbatim by the parser/writer.
// The map doubles as the kind vocabulary: a kind is recognized iff it has an
// entry here, even an empty one.
var refFields = map[Kind]map[string]FieldShape{
	KindBuildFile: {
		"fileRef":    RefScalar,
		"productRef": RefScalar,
	},
	KindFileReference: {},
	KindFrameworksPhase: {
		"files": RefList,
	},
	KindGroup: {
		"children": RefList,
	},
	KindNativeTarget: {
		"buildConfigurationList":     RefScalar,
		"buildPhases":                RefList,
		"buildRules":                 RefList,
		"dependencies":               RefList,
		"packageProductDependencies": RefList,
		"productReference":           RefScalar,
	},
	KindProject: {
		"buildConfigurationList": RefScalar,
		"mainGroup":              RefScalar,
		"packageReferences":      RefList,
		"productRefGroup":        RefScalar,
		"targets":                RefList,
	},
	KindResourcesPhase: {
		"files": RefList,
	},
	KindSourcesPhase: {
		"files": RefList,
	},
	KindBuildConfiguration: {},
	KindConfigurationList: {
		"buildConfigurations": RefList,
	},
	KindPackageReference: {},
	KindProductDependency: {
		"package": RefScalar,
	},
}

// RefFieldShape returns how field is typed for nodes of kind k.
// ok is false when the field is opaque (not a reference field).
func RefFieldShape(k Kind, field string) (shape FieldShape, ok bool) {
	shape, ok = refFields[k][field]
	return shape, ok
}

// RefFields returns the reference field names of kind k in sorted order.
func RefFields(k Kind) []string {
	fields := make([]string, 0, len(refFields[k]))
	for f := range refFields[k] {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// IsRefList reports whether field holds an ordered reference list on kind k.
func IsRefList(k Kind, field string) bool {
	s, ok := refFields[k][field]
	return ok && s == RefList
}
