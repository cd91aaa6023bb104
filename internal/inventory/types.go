// Package inventory builds a structured symbol inventory for each source
// file: declared classes, functions and variables, call sites, and imports
// with resolved origins. Inventories are persisted to a transient on-disk
// cache for the duration of one pipeline run.
package inventory

// Symbol kinds recorded in a FileInventory.
const (
	KindClass    = "class"
	KindFunction = "function"
	KindVariable = "variable"
)

// Call kinds. Bare-identifier calls and member-access calls are both
// recorded as function calls, discriminated by Type.
const (
	KindFunctionCall = "function_call"
	KindMethodCall   = "method_call"
)

// Symbol is a named declaration with a 1-based, inclusive line span.
type Symbol struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Call is a call site. Name is the callee identifier for plain calls and the
// accessed property name for method calls.
type Call struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Import is one import or require statement.
//
// ImportedName is the bound identifier, or the "require" sentinel for
// namespace-style and side-effect imports that bind no single name. Origin is
// the resolved absolute path, the external/builtin sentinel, or empty when
// the specifier is relative but no file exists (see ResolveOrigin).
type Import struct {
	Type         string `json:"type"`
	ImportedName string `json:"imported_name"`
	FromModule   string `json:"from_module"`
	Origin       string `json:"origin"`
	Line         int    `json:"line"`
	PathExists   bool   `json:"path_exists"`
	UsageLines   []int  `json:"usage_lines"`
}

// FileInventory is the per-file extraction result, keyed by absolute path.
type FileInventory struct {
	FilePath      string   `json:"filename"`
	Classes       []Symbol `json:"classes"`
	Functions     []Symbol `json:"functions"`
	Variables     []Symbol `json:"variables"`
	FunctionCalls []Call   `json:"function_calls"`
	Imports       []Import `json:"imports"`
}
