// Package document loads declarative HTTP test documents: YAML files
// describing named test cases as ordered stages of request, assertions,
// and variable registration. Loading resolves includes and expands
// short-form requests so the runner only ever sees canonical stages.
package document

// TestCase is one fully expanded test document. Immutable after loading;
// Variables seed the variable context of each run.
type TestCase struct {
	Name      string
	Variables map[string]any
	Stages    []Stage
	File      string
}

// Stage is one request/assert/register unit. After loading, no stage
// carries an unresolved include.
type Stage struct {
	Name      string
	Request   RequestSpec
	Asserts   []string
	Registers []Register
}

// Register binds a context variable name to an expression evaluated
// against the stage's response scope.
type Register struct {
	Name string
	Expr string
}

// RequestSpec is the canonical long-form request: url, method, and
// passthrough transport options (params, headers, cookies, data, json,
// timeout). Option values stay opaque until templating at execution time.
type RequestSpec struct {
	URL     string
	Method  string
	Options map[string]any
}

// validMethods lists the accepted HTTP methods for a request spec.
var validMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"OPTIONS": true,
	"DELETE":  true,
	"INFO":    true,
	"HEAD":    true,
	"PATCH":   true,
}
