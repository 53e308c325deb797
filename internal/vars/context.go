// Package vars implements the variable context threaded through one test
// case run, and the parsing of CLI-supplied extra variables.
package vars

// Context is the mutable key-value store for one run. Keys are only added
// or overwritten, never removed. Precedence, lowest to highest: test-case
// variables, extra variables, registered values.
type Context struct {
	values map[string]any
}

// NewContext builds a context from test-case variables overlaid with extra
// variables. Registered values accumulate on top via Register. Extra
// variables deliberately win over case variables: CLI overrides are how a
// fixture is pointed at a different environment.
func NewContext(caseVars, extraVars map[string]any) *Context {
	values := make(map[string]any, len(caseVars)+len(extraVars))
	for k, v := range caseVars {
		values[k] = v
	}
	for k, v := range extraVars {
		values[k] = v
	}
	return &Context{values: values}
}

// Register stores a value produced by a completed stage. Registrations
// overwrite anything with the same key: they reflect live response data
// that must not be masked by static fixtures.
func (c *Context) Register(name string, value any) {
	c.values[name] = value
}

// Lookup returns the value bound to name.
func (c *Context) Lookup(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Snapshot returns a copy of the current bindings, safe to hand to
// templating and expression evaluation without aliasing the live context.
func (c *Context) Snapshot() map[string]any {
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}
