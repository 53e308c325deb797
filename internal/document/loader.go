package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// rawCase mirrors the top level of one YAML test document. Stages stay as
// nodes so includes can be spliced and register order preserved.
type rawCase struct {
	Name      string         `yaml:"name"`
	Variables map[string]any `yaml:"variables"`
	Stages    []yaml.Node    `yaml:"stages"`
}

type rawStage struct {
	Include  string    `yaml:"include"`
	Name     string    `yaml:"name"`
	Request  yaml.Node `yaml:"request"`
	Assert   []string  `yaml:"assert"`
	Register yaml.Node `yaml:"register"`
}

// LoadFile reads a YAML stream and returns one TestCase per document,
// with all includes resolved and all requests in canonical long form.
func LoadFile(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read test document: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var cases []TestCase
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DocumentError{File: path, Reason: fmt.Sprintf("invalid YAML: %v", err)}
		}

		tc, err := loadCase(&node, path)
		if err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}

	if len(cases) == 0 {
		return nil, &DocumentError{File: path, Reason: "no test documents found"}
	}
	return cases, nil
}

// loadCase turns one YAML document into a TestCase.
func loadCase(node *yaml.Node, path string) (TestCase, error) {
	var raw rawCase
	if err := node.Decode(&raw); err != nil {
		return TestCase{}, &DocumentError{File: path, Reason: err.Error()}
	}
	if raw.Name == "" {
		return TestCase{}, &DocumentError{File: path, Reason: "missing required field: name"}
	}
	if len(raw.Stages) == 0 {
		return TestCase{}, &DocumentError{File: path, Reason: "missing required field: stages"}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return TestCase{}, fmt.Errorf("resolve document path: %w", err)
	}

	seen := map[string]bool{abs: true}
	stages, err := expandStages(raw.Stages, filepath.Dir(path), path, seen)
	if err != nil {
		return TestCase{}, err
	}

	// Unnamed stages get positional labels after include expansion so the
	// label reflects final execution order.
	for i := range stages {
		if stages[i].Name == "" {
			stages[i].Name = fmt.Sprintf("stage %d", i+1)
		}
	}

	vars := raw.Variables
	if vars == nil {
		vars = map[string]any{}
	}

	return TestCase{Name: raw.Name, Variables: vars, Stages: stages, File: path}, nil
}

// expandStages normalizes raw stage entries in document order, splicing
// included stage lists in place of their include directive. seen holds the
// absolute path of every document on the current include chain.
func expandStages(nodes []yaml.Node, dir, file string, seen map[string]bool) ([]Stage, error) {
	var out []Stage
	for i := range nodes {
		var raw rawStage
		if err := nodes[i].Decode(&raw); err != nil {
			return nil, &DocumentError{File: file, Reason: fmt.Sprintf("stage %d: %v", i+1, err)}
		}

		if raw.Include != "" {
			included, err := loadInclude(raw.Include, dir, seen)
			if err != nil {
				return nil, err
			}
			out = append(out, included...)
			continue
		}

		stages, err := normalizeStage(raw, file)
		if err != nil {
			return nil, err
		}
		out = append(out, stages...)
	}
	return out, nil
}

// loadInclude reads a bare stage sequence from ref, resolved relative to
// the including document's directory, and expands it recursively.
func loadInclude(ref, dir string, seen map[string]bool) ([]Stage, error) {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, ref)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &IncludeError{File: ref, Err: err}
	}
	if seen[abs] {
		return nil, &CycleError{File: ref}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IncludeError{File: ref, Err: err}
	}

	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, &IncludeError{File: ref, Err: fmt.Errorf("expected a sequence of stages: %w", err)}
	}

	// Only chains may not revisit a document; diamond includes are fine.
	seen[abs] = true
	stages, err := expandStages(nodes, filepath.Dir(path), path, seen)
	delete(seen, abs)
	if err != nil {
		return nil, err
	}
	return stages, nil
}
