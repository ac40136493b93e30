// Package diag holds the non-fatal findings reported by the build pipeline.
package diag

import (
	"encoding/json"
	"fmt"
)

// Severity indicates the importance level of a diagnostic.
type Severity int

const (
	// SeverityInfo is informational only.
	SeverityInfo Severity = iota
	// SeverityWarning flags a likely authoring mistake that does not fail the build.
	SeverityWarning
	// SeverityError is reserved for findings that fail the build when collected
	// outside the strict path (e.g. broken announcement links under a throw policy).
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders the severity by name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Well-known diagnostic codes.
const (
	CodeEmptyCategory      = "empty-category"
	CodeBrokenLink         = "broken-link"
	CodeHTMLParse          = "html-parse"
	CodeUntitledDocument   = "untitled-document"
	CodeUnreferencedDoc    = "unreferenced-document"
	CodeFrontmatterInvalid = "frontmatter-invalid"
	CodeDuplicateRoute     = "duplicate-route"
	CodeDraftSkipped       = "draft-skipped"
	CodeGitMetaUnavailable = "git-meta-unavailable"
)

// Diagnostic is a single finding with a breadcrumb path to its declaration.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s (%s)", d.Severity, d.Path, d.Message, d.Code)
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Warn appends a warning.
func (l *List) Warn(code, path, format string, args ...any) {
	*l = append(*l, Diagnostic{Severity: SeverityWarning, Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
}

// Info appends an informational finding.
func (l *List) Info(code, path, format string, args ...any) {
	*l = append(*l, Diagnostic{Severity: SeverityInfo, Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
}

// Error appends an error-level finding.
func (l *List) Error(code, path, format string, args ...any) {
	*l = append(*l, Diagnostic{Severity: SeverityError, Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
}

// HasErrors returns true if any error-level diagnostics exist.
func (l List) HasErrors() bool {
	return l.Count(SeverityError) > 0
}

// Count returns the number of diagnostics at the given severity.
func (l List) Count(s Severity) int {
	n := 0
	for _, d := range l {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// Filter returns the diagnostics at or above min.
func (l List) Filter(min Severity) List {
	var out List
	for _, d := range l {
		if d.Severity >= min {
			out = append(out, d)
		}
	}
	return out
}
