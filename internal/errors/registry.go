package errors

import "sort"

// Registered error codes.
const (
	CodeConfigNotFound  = "E100"
	CodeConfigParse     = "E101"
	CodeConfigInvalid   = "E102"
	CodeScanFailed      = "E120"
	CodeRootMissing     = "E121"
	CodeGenerateFailed  = "E130"
	CodeWriteFailed     = "E140"
	CodePublishFailed   = "E141"
	CodeRoutesEmpty     = "E150"
	CodeRoutesMalformed = "E151"
	CodeRoutesInvalid   = "E152"
	CodeWatchFailed     = "E160"
	CodeUnknownStarter  = "E170"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E119)
	// ============================================

	CodeConfigNotFound: {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Detail:     "No routegen.json, routegen.yaml or routegen.toml was found in this directory or any parent.",
		Suggestion: "Run 'routegen init' to create one",
	},
	CodeConfigParse: {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// ============================================
	// Scan Errors (E120-E129)
	// ============================================

	CodeScanFailed: {
		Category: CategoryScan,
		Message:  "Route directory scan failed",
		Detail:   "A directory under the route root could not be read. The previous output is left in place.",
	},
	CodeRootMissing: {
		Category:   CategoryScan,
		Message:    "Route root not found",
		Detail:     "The configured route root does not exist or is not a directory.",
		Suggestion: "Create the directory or set \"root\" in routegen.json",
	},

	// ============================================
	// Generation Errors (E130-E139)
	// ============================================

	CodeGenerateFailed: {
		Category: CategoryGenerate,
		Message:  "Route module generation failed",
		Detail:   "The generated module did not parse. This usually means a route file name produced an invalid reference.",
	},

	// ============================================
	// Output Errors (E140-E149)
	// ============================================

	CodeWriteFailed: {
		Category: CategoryOutput,
		Message:  "Could not write output",
		Detail:   "The generated file could not be written. The previous output is left in place.",
	},
	CodePublishFailed: {
		Category:   CategoryOutput,
		Message:    "Could not publish to S3",
		Suggestion: "Check AWS credentials and the publish.bucket setting",
	},

	// ============================================
	// Route List Errors (E150-E159)
	// ============================================

	CodeRoutesEmpty: {
		Category:   CategoryRoutes,
		Message:    "Route list is empty",
		Detail:     "The generated route list has no routes. A router cannot be built from an empty list.",
		Suggestion: "Add at least one route file (e.g. index.tsx) under the route root",
	},
	CodeRoutesMalformed: {
		Category: CategoryRoutes,
		Message:  "Route list is malformed",
		Detail:   "The route list must be a JSON array of route objects with index, path, element and children fields.",
	},
	CodeRoutesInvalid: {
		Category: CategoryRoutes,
		Message:  "Route validation failed",
	},

	// ============================================
	// Watch Errors (E160-E169)
	// ============================================

	CodeWatchFailed: {
		Category: CategoryWatch,
		Message:  "File watcher error",
		Detail:   "The file watcher reported an error. Watching continues.",
	},

	// ============================================
	// CLI Errors (E170-E179)
	// ============================================

	CodeUnknownStarter: {
		Category:   CategoryCLI,
		Message:    "Unknown starter template",
		Suggestion: "Run 'routegen init --help' to list the starters",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
