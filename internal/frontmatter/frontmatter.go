// Package frontmatter splits Markdown documents into their YAML header and body.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a frontmatter block but never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
// If the document does not start with a delimiter, had is false and body is the full input.
// Both LF and CRLF line endings are accepted.
func Split(content []byte) (front, body []byte, had bool, err error) {
	nl := newline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line without a trailing newline.
		if bytes.HasSuffix(rest, []byte(nl+"---")) {
			return rest[:len(rest)-len("---")], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
}

// Fields are the frontmatter keys the site model reads. Raw holds the full mapping.
type Fields struct {
	ID           string `yaml:"id"`
	Slug         string `yaml:"slug"`
	Title        string `yaml:"title"`
	SidebarLabel string `yaml:"sidebar_label"`
	Draft        bool   `yaml:"draft"`

	Raw map[string]any `yaml:"-"`
}

// Parse decodes raw frontmatter (without delimiters).
func Parse(front []byte) (Fields, error) {
	var f Fields
	if len(bytes.TrimSpace(front)) == 0 {
		f.Raw = map[string]any{}
		return f, nil
	}
	if err := yaml.Unmarshal(front, &f); err != nil {
		return Fields{}, fmt.Errorf("frontmatter: %w", err)
	}
	if err := yaml.Unmarshal(front, &f.Raw); err != nil {
		return Fields{}, fmt.Errorf("frontmatter: %w", err)
	}
	if f.Raw == nil {
		f.Raw = map[string]any{}
	}
	return f, nil
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
