package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	schemafs "github.com/restage/restage/schema"
)

var (
	caseSchema  *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

// compileSchema compiles the embedded document schema once.
func compileSchema() error {
	compileOnce.Do(func() {
		data, err := schemafs.FS.ReadFile("document.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read document schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal document schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("document.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		caseSchema, compileErr = compiler.Compile("document.schema.json")
	})
	return compileErr
}

// ValidateFile checks every YAML document in a file against the test-case
// schema without executing anything.
func ValidateFile(path string) error {
	if err := compileSchema(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read test document: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for i := 1; ; i++ {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &DocumentError{File: path, Reason: fmt.Sprintf("invalid YAML: %v", err)}
		}

		// Round-trip through JSON so the validator sees JSON-native types.
		raw, err := json.Marshal(v)
		if err != nil {
			return &DocumentError{File: path, Reason: fmt.Sprintf("document %d: %v", i, err)}
		}
		inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return &DocumentError{File: path, Reason: fmt.Sprintf("document %d: %v", i, err)}
		}

		if err := caseSchema.Validate(inst); err != nil {
			return &DocumentError{File: path, Reason: fmt.Sprintf("document %d: %v", i, err)}
		}
	}
	return nil
}
