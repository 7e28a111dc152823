package ops

import (
	"github.com/matzehuels/pbxkit/pkg/pbx"
)

// NewProject builds the minimal fully-linked document for an application
// project: project object, main and Products groups, one native target with
// Sources, Frameworks, and Resources phases, the app product reference, and
// Debug/Release configurations for both the project and the target.
//
// Every cross-reference the graph needs is present, so the result passes
// Validate and every catalogue operation applies cleanly to it.
func NewProject(name string) (*pbx.Document, error) {
	doc := pbx.NewDocument()
	alloc := pbx.NewAllocator(nil)
	e := &Editor{doc: doc, alloc: alloc}
	var res Result

	sources := pbx.NewNode(alloc.Next(), pbx.KindSourcesPhase).
		SetString("buildActionMask", "2147483647").
		Set("files", &pbx.List{}).
		SetString("runOnlyForDeploymentPostprocessing", "0")
	frameworks := pbx.NewNode(alloc.Next(), pbx.KindFrameworksPhase).
		SetString("buildActionMask", "2147483647").
		Set("files", &pbx.List{}).
		SetString("runOnlyForDeploymentPostprocessing", "0")
	resources := pbx.NewNode(alloc.Next(), pbx.KindResourcesPhase).
		SetString("buildActionMask", "2147483647").
		Set("files", &pbx.List{}).
		SetString("runOnlyForDeploymentPostprocessing", "0")

	product := pbx.NewNode(alloc.Next(), pbx.KindFileReference).
		SetString("explicitFileType", "wrapper.application").
		SetString("includeInIndex", "0").
		SetString("path", name+".app").
		SetString("sourceTree", "BUILT_PRODUCTS_DIR")

	appGroup := pbx.NewNode(alloc.Next(), pbx.KindGroup).
		Set("children", &pbx.List{}).
		SetString("path", name).
		SetString("sourceTree", "<group>")
	productsGroup := pbx.NewNode(alloc.Next(), pbx.KindGroup).
		Set("children", &pbx.List{Items: []pbx.Value{pbx.Ref{ID: product.ID}}}).
		SetString("name", "Products").
		SetString("sourceTree", "<group>")
	mainGroup := pbx.NewNode(alloc.Next(), pbx.KindGroup).
		Set("children", &pbx.List{Items: []pbx.Value{
			pbx.Ref{ID: appGroup.ID},
			pbx.Ref{ID: productsGroup.ID},
		}}).
		SetString("sourceTree", "<group>")

	targetDebug := buildConfiguration(alloc, "Debug", targetSettings(name))
	targetRelease := buildConfiguration(alloc, "Release", targetSettings(name))
	projectDebug := buildConfiguration(alloc, "Debug", projectSettings(true))
	projectRelease := buildConfiguration(alloc, "Release", projectSettings(false))

	targetConfigs := configurationList(alloc, targetDebug.ID, targetRelease.ID)
	projectConfigs := configurationList(alloc, projectDebug.ID, projectRelease.ID)

	target := pbx.NewNode(alloc.Next(), pbx.KindNativeTarget).
		SetRef("buildConfigurationList", targetConfigs.ID).
		Set("buildPhases", &pbx.List{Items: []pbx.Value{
			pbx.Ref{ID: sources.ID},
			pbx.Ref{ID: frameworks.ID},
			pbx.Ref{ID: resources.ID},
		}}).
		Set("buildRules", &pbx.List{}).
		Set("dependencies", &pbx.List{}).
		SetString("name", name).
		SetString("productName", name).
		SetRef("productReference", product.ID).
		SetString("productType", "com.apple.product-type.application")

	targetAttributes := pbx.NewObject()
	created := pbx.NewObject()
	created.Set("CreatedOnToolsVersion", pbx.String{Text: "15.0"})
	targetAttributes.Set(target.ID, created)
	attributes := pbx.NewObject()
	attributes.Set("BuildIndependentTargetsInParallel", pbx.String{Text: "1"})
	attributes.Set("LastSwiftUpdateCheck", pbx.String{Text: "1500"})
	attributes.Set("LastUpgradeCheck", pbx.String{Text: "1500"})
	attributes.Set("TargetAttributes", targetAttributes)

	proj := pbx.NewNode(alloc.Next(), pbx.KindProject).
		Set("attributes", attributes).
		SetRef("buildConfigurationList", projectConfigs.ID).
		SetString("compatibilityVersion", "Xcode 14.0").
		SetString("developmentRegion", "en").
		SetString("hasScannedForEncodings", "0").
		Set("knownRegions", &pbx.List{Items: []pbx.Value{
			pbx.String{Text: "en"},
			pbx.String{Text: "Base"},
		}}).
		SetRef("mainGroup", mainGroup.ID).
		SetRef("productRefGroup", productsGroup.ID).
		SetString("projectDirPath", "").
		SetString("projectRoot", "").
		Set("targets", &pbx.List{Items: []pbx.Value{pbx.Ref{ID: target.ID}}})
	proj.Name = "Project object"

	nodes := []*pbx.Node{
		product,
		frameworks,
		mainGroup, productsGroup, appGroup,
		target,
		proj,
		resources,
		sources,
		targetDebug, targetRelease, projectDebug, projectRelease,
		targetConfigs, projectConfigs,
	}
	for _, n := range nodes {
		if _, err := e.insert(&res, n); err != nil {
			return nil, err
		}
	}
	doc.RootID = proj.ID
	return doc, nil
}

func buildConfiguration(alloc *pbx.Allocator, name string, settings *pbx.Object) *pbx.Node {
	return pbx.NewNode(alloc.Next(), pbx.KindBuildConfiguration).
		Set("buildSettings", settings).
		SetString("name", name)
}

func configurationList(alloc *pbx.Allocator, debugID, releaseID string) *pbx.Node {
	return pbx.NewNode(alloc.Next(), pbx.KindConfigurationList).
		Set("buildConfigurations", &pbx.List{Items: []pbx.Value{
			pbx.Ref{ID: debugID},
			pbx.Ref{ID: releaseID},
		}}).
		SetString("defaultConfigurationIsVisible", "0").
		SetString("defaultConfigurationName", "Release")
}

// projectSettings is the stock project-level build-setting table for an app
// project, Debug or Release flavor.
func projectSettings(debug bool) *pbx.Object {
	o := pbx.NewObject()
	set := func(k, v string) { o.Set(k, pbx.String{Text: v}) }

	set("ALWAYS_SEARCH_USER_PATHS", "NO")
	set("ASSETCATALOG_COMPILER_GENERATE_SWIFT_ASSET_SYMBOL_EXTENSIONS", "YES")
	set("CLANG_ANALYZER_NONNULL", "YES")
	set("CLANG_ANALYZER_NUMBER_OBJECT_CONVERSION", "YES_AGGRESSIVE")
	set("CLANG_CXX_LANGUAGE_STANDARD", "gnu++20")
	set("CLANG_ENABLE_MODULES", "YES")
	set("CLANG_ENABLE_OBJC_ARC", "YES")
	set("CLANG_ENABLE_OBJC_WEAK", "YES")
	set("CLANG_WARN_BLOCK_CAPTURE_AUTORELEASING", "YES")
	set("CLANG_WARN_BOOL_CONVERSION", "YES")
	set("CLANG_WARN_COMMA", "YES")
	set("CLANG_WARN_CONSTANT_CONVERSION", "YES")
	set("CLANG_WARN_DEPRECATED_OBJC_IMPLEMENTATIONS", "YES")
	set("CLANG_WARN_DIRECT_OBJC_ISA_USAGE", "YES_ERROR")
	set("CLANG_WARN_DOCUMENTATION_COMMENTS", "YES")
	set("CLANG_WARN_EMPTY_BODY", "YES")
	set("CLANG_WARN_ENUM_CONVERSION", "YES")
	set("CLANG_WARN_INFINITE_RECURSION", "YES")
	set("CLANG_WARN_INT_CONVERSION", "YES")
	set("CLANG_WARN_NON_LITERAL_NULL_CONVERSION", "YES")
	set("CLANG_WARN_OBJC_IMPLICIT_RETAIN_SELF", "YES")
	set("CLANG_WARN_OBJC_LITERAL_CONVERSION", "YES")
	set("CLANG_WARN_OBJC_ROOT_CLASS", "YES_ERROR")
	set("CLANG_WARN_QUOTED_INCLUDE_IN_FRAMEWORK_HEADER", "YES")
	set("CLANG_WARN_RANGE_LOOP_ANALYSIS", "YES")
	set("CLANG_WARN_STRICT_PROTOTYPES", "YES")
	set("CLANG_WARN_SUSPICIOUS_MOVE", "YES")
	set("CLANG_WARN_UNGUARDED_AVAILABILITY", "YES_AGGRESSIVE")
	set("CLANG_WARN_UNREACHABLE_CODE", "YES")
	set("CLANG_WARN__DUPLICATE_METHOD_MATCH", "YES")
	set("COPY_PHASE_STRIP", "NO")
	if debug {
		set("DEBUG_INFORMATION_FORMAT", "dwarf")
	} else {
		set("DEBUG_INFORMATION_FORMAT", "dwarf-with-dsym")
		set("ENABLE_NS_ASSERTIONS", "NO")
	}
	set("ENABLE_STRICT_OBJC_MSGSEND", "YES")
	if debug {
		set("ENABLE_TESTABILITY", "YES")
	}
	set("ENABLE_USER_SCRIPT_SANDBOXING", "YES")
	set("GCC_C_LANGUAGE_STANDARD", "gnu17")
	if debug {
		set("GCC_DYNAMIC_NO_PIC", "NO")
	}
	set("GCC_NO_COMMON_BLOCKS", "YES")
	if debug {
		set("GCC_OPTIMIZATION_LEVEL", "0")
		o.Set("GCC_PREPROCESSOR_DEFINITIONS", &pbx.List{Items: []pbx.Value{
			pbx.String{Text: "DEBUG=1"},
			pbx.String{Text: "$(inherited)"},
		}})
	}
	set("GCC_WARN_64_TO_32_BIT_CONVERSION", "YES")
	set("GCC_WARN_ABOUT_RETURN_TYPE", "YES_ERROR")
	set("GCC_WARN_UNDECLARED_SELECTOR", "YES")
	set("GCC_WARN_UNINITIALIZED_AUTOS", "YES_AGGRESSIVE")
	set("GCC_WARN_UNUSED_FUNCTION", "YES")
	set("GCC_WARN_UNUSED_VARIABLE", "YES")
	set("IPHONEOS_DEPLOYMENT_TARGET", "18.6")
	set("LOCALIZATION_PREFERS_STRING_CATALOGS", "YES")
	set("MTL_ENABLE_DEBUG_INFO", "INCLUDE_SOURCE")
	set("MTL_FAST_MATH", "YES")
	if debug {
		set("ONLY_ACTIVE_ARCH", "YES")
	}
	set("SDKROOT", "iphoneos")
	if debug {
		set("SWIFT_ACTIVE_COMPILATION_CONDITIONS", "DEBUG $(inherited)")
		set("SWIFT_OPTIMIZATION_LEVEL", "-Onone")
	} else {
		set("SWIFT_COMPILATION_MODE", "wholemodule")
		set("VALIDATE_PRODUCT", "YES")
	}
	return o
}

// targetSettings is the stock target-level build-setting table; Debug and
// Release share it.
func targetSettings(name string) *pbx.Object {
	o := pbx.NewObject()
	set := func(k, v string) { o.Set(k, pbx.String{Text: v}) }

	set("ASSETCATALOG_COMPILER_APPICON_NAME", "AppIcon")
	set("ASSETCATALOG_COMPILER_GLOBAL_ACCENT_COLOR_NAME", "AccentColor")
	set("CODE_SIGN_STYLE", "Automatic")
	set("CURRENT_PROJECT_VERSION", "1")
	set("ENABLE_PREVIEWS", "YES")
	set("GENERATE_INFOPLIST_FILE", "YES")
	set("INFOPLIST_KEY_UIApplicationSceneManifest_Generation", "YES")
	set("INFOPLIST_KEY_UIApplicationSupportsIndirectInputEvents", "YES")
	set("INFOPLIST_KEY_UILaunchScreen_Generation", "YES")
	set("INFOPLIST_KEY_UISupportedInterfaceOrientations_iPad",
		"UIInterfaceOrientationPortrait UIInterfaceOrientationPortraitUpsideDown UIInterfaceOrientationLandscapeLeft UIInterfaceOrientationLandscapeRight")
	set("INFOPLIST_KEY_UISupportedInterfaceOrientations_iPhone",
		"UIInterfaceOrientationPortrait UIInterfaceOrientationLandscapeLeft UIInterfaceOrientationLandscapeRight")
	o.Set("LD_RUNPATH_SEARCH_PATHS", &pbx.List{Items: []pbx.Value{
		pbx.String{Text: "$(inherited)"},
		pbx.String{Text: "@executable_path/Frameworks"},
	}})
	set("MARKETING_VERSION", "1.0")
	set("PRODUCT_BUNDLE_IDENTIFIER", "com.example."+name)
	set("PRODUCT_NAME", "$(TARGET_NAME)")
	set("SWIFT_EMIT_LOC_STRINGS", "YES")
	set("SWIFT_VERSION", "5.0")
	set("TARGETED_DEVICE_FAMILY", "1,2")
	return o
}
