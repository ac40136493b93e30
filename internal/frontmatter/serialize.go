package frontmatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// Canonical serializes fields without the excluded keys into a stable YAML form:
// map keys sorted, two-space indent, LF newlines, no trailing newline.
// An empty mapping serializes to "".
func Canonical(fields map[string]any, exclude ...string) (string, error) {
	kept := make(map[string]any, len(fields))
	for k, v := range fields {
		kept[k] = v
	}
	for _, k := range exclude {
		delete(kept, k)
	}
	if len(kept) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(kept); err != nil {
		_ = enc.Close()
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
