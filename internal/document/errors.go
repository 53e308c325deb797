package document

import "fmt"

// DocumentError reports a structurally malformed test document.
type DocumentError struct {
	File   string
	Reason string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Reason)
}

// IncludeError reports an include path that cannot be resolved or loaded.
type IncludeError struct {
	File string
	Err  error
}

func (e *IncludeError) Error() string {
	return fmt.Sprintf("include %s: %v", e.File, e.Err)
}

func (e *IncludeError) Unwrap() error { return e.Err }

// CycleError reports an include chain that revisits a document.
type CycleError struct {
	File string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("include cycle through %s", e.File)
}
