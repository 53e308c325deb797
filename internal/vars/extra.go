package vars

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// keyValue matches inline extra variables of the form key=value.
var keyValue = regexp.MustCompile(`^([a-z_]+)=(.+)$`)

// ParseExtra aggregates repeatable --var arguments into a flat override
// map. An argument is either an inline key=value pair or @path to a YAML
// file holding a mapping. Later arguments overwrite earlier ones key by
// key; a file batch merges rather than replacing the whole map.
func ParseExtra(args []string) (map[string]any, error) {
	out := map[string]any{}
	for _, arg := range args {
		if strings.HasPrefix(arg, "@") {
			if err := mergeFile(arg[1:], out); err != nil {
				return nil, err
			}
			continue
		}

		m := keyValue.FindStringSubmatch(arg)
		if m == nil {
			return nil, fmt.Errorf("invalid variable %q, expected key=value or @path", arg)
		}
		out[m[1]] = m[2]
	}
	return out, nil
}

func mergeFile(path string, into map[string]any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load variables file: %w", err)
	}

	var vars map[string]any
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return fmt.Errorf("parse variables file %s: %w", path, err)
	}
	if vars == nil {
		return fmt.Errorf("variables file %s must hold a mapping", path)
	}

	for k, v := range vars {
		into[k] = v
	}
	return nil
}
