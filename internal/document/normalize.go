package document

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// normalizeStage converts a raw stage into canonical form: short-form
// requests become {url, method: GET}, and a list-valued request expands
// into sibling stages sharing the asserts and registers. Variable
// substitution is deliberately absent here; values registered by earlier
// stages are unknown until execution.
func normalizeStage(raw rawStage, file string) ([]Stage, error) {
	registers, err := decodeRegisters(raw.Register, file)
	if err != nil {
		return nil, err
	}

	specs, err := normalizeRequest(&raw.Request, file)
	if err != nil {
		return nil, err
	}

	if len(specs) == 1 {
		return []Stage{{
			Name:      raw.Name,
			Request:   specs[0],
			Asserts:   raw.Assert,
			Registers: registers,
		}}, nil
	}

	stages := make([]Stage, 0, len(specs))
	for i, spec := range specs {
		name := raw.Name
		if name != "" {
			name = fmt.Sprintf("%s #%d", raw.Name, i+1)
		}
		stages = append(stages, Stage{
			Name:      name,
			Request:   spec,
			Asserts:   raw.Assert,
			Registers: registers,
		})
	}
	return stages, nil
}

func normalizeRequest(node *yaml.Node, file string) ([]RequestSpec, error) {
	switch node.Kind {
	case 0:
		return nil, &DocumentError{File: file, Reason: "stage missing required field: request"}

	case yaml.ScalarNode:
		spec, err := shortForm(node, file)
		if err != nil {
			return nil, err
		}
		return []RequestSpec{spec}, nil

	case yaml.MappingNode:
		spec, err := decodeSpec(node, file)
		if err != nil {
			return nil, err
		}
		return []RequestSpec{spec}, nil

	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			return nil, &DocumentError{File: file, Reason: "request list must not be empty"}
		}
		specs := make([]RequestSpec, 0, len(node.Content))
		for _, child := range node.Content {
			var spec RequestSpec
			var err error
			switch child.Kind {
			case yaml.ScalarNode:
				spec, err = shortForm(child, file)
			case yaml.MappingNode:
				spec, err = decodeSpec(child, file)
			default:
				err = &DocumentError{File: file, Reason: "request list entries must be strings or mappings"}
			}
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
		return specs, nil

	default:
		return nil, &DocumentError{File: file, Reason: "request must be a string, mapping, or sequence"}
	}
}

// shortForm expands a bare URL string into the canonical long form.
func shortForm(node *yaml.Node, file string) (RequestSpec, error) {
	var url string
	if err := node.Decode(&url); err != nil {
		return RequestSpec{}, &DocumentError{File: file, Reason: fmt.Sprintf("request: %v", err)}
	}
	if url == "" {
		return RequestSpec{}, &DocumentError{File: file, Reason: "request url must not be empty"}
	}
	return RequestSpec{URL: url, Method: "GET", Options: map[string]any{}}, nil
}

func decodeSpec(node *yaml.Node, file string) (RequestSpec, error) {
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return RequestSpec{}, &DocumentError{File: file, Reason: fmt.Sprintf("request: %v", err)}
	}

	url, ok := m["url"].(string)
	if !ok || url == "" {
		return RequestSpec{}, &DocumentError{File: file, Reason: "request missing required field: url"}
	}

	spec := RequestSpec{URL: url, Method: "GET", Options: map[string]any{}}
	if mv, ok := m["method"]; ok {
		s, ok := mv.(string)
		if !ok {
			return RequestSpec{}, &DocumentError{File: file, Reason: "request method must be a string"}
		}
		spec.Method = strings.ToUpper(s)
	}
	if !validMethods[spec.Method] {
		return RequestSpec{}, &DocumentError{File: file, Reason: fmt.Sprintf("unsupported method %q", spec.Method)}
	}

	// Everything else is a transport option, passed through verbatim
	// until templating at execution time.
	for k, v := range m {
		if k == "url" || k == "method" {
			continue
		}
		spec.Options[k] = v
	}
	return spec, nil
}

// decodeRegisters preserves the document order of the register mapping.
func decodeRegisters(node yaml.Node, file string) ([]Register, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, &DocumentError{File: file, Reason: "register must be a mapping of name to expression"}
	}

	regs := make([]Register, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name, expr string
		if err := node.Content[i].Decode(&name); err != nil {
			return nil, &DocumentError{File: file, Reason: fmt.Sprintf("register: %v", err)}
		}
		if err := node.Content[i+1].Decode(&expr); err != nil {
			return nil, &DocumentError{File: file, Reason: fmt.Sprintf("register %s: expression must be a string", name)}
		}
		regs = append(regs, Register{Name: name, Expr: expr})
	}
	return regs, nil
}
