// Package errors declares the build error taxonomy for the site model.
//
// Every constructor returns a foundation ClassifiedError wrapping one of the
// sentinels below, so callers can match with errors.Is and read the offending
// identifier through the accessors instead of parsing messages.
package errors

import (
	stderrors "errors"
	"fmt"

	ferrors "github.com/studyknots/knotsdocs/internal/foundation/errors"
)

var (
	// ErrDanglingReference indicates a navigation entry or link points at a missing document or route.
	ErrDanglingReference = stderrors.New("dangling reference")

	// ErrDuplicateReference indicates the same document identifier appears twice in one tree.
	ErrDuplicateReference = stderrors.New("duplicate reference")

	// ErrMalformedSection indicates a landing page section failed its shape check.
	ErrMalformedSection = stderrors.New("malformed section")

	// ErrInvalidTarget indicates a link sets both or neither of an internal path and an external URL.
	ErrInvalidTarget = stderrors.New("invalid link target")
)

const (
	ctxID     = "id"
	ctxKind   = "kind"
	ctxDetail = "detail"
	ctxPath   = "path"
)

// DanglingReference reports that id does not resolve. path is the breadcrumb of the declaration.
func DanglingReference(id, path string) error {
	return ferrors.NavigationError(fmt.Sprintf("%s references unknown %q", path, id)).
		WithCause(ErrDanglingReference).
		WithContext(ctxID, id).
		WithContext(ctxPath, path).
		Build()
}

// DuplicateReference reports that id is declared more than once in one tree.
func DuplicateReference(id, path string) error {
	return ferrors.NavigationError(fmt.Sprintf("%s repeats %q", path, id)).
		WithCause(ErrDuplicateReference).
		WithContext(ctxID, id).
		WithContext(ctxPath, path).
		Build()
}

// DuplicateDocument reports two content files claiming the same identifier.
func DuplicateDocument(id, first, second string) error {
	return ferrors.ContentError(fmt.Sprintf("%s and %s both declare document %q", first, second, id)).
		WithCause(ErrDuplicateReference).
		WithContext(ctxID, id).
		WithContext(ctxPath, second).
		Build()
}

// MalformedSection reports a landing page section that fails its schema.
func MalformedSection(kind, detail string) error {
	return ferrors.PageError(fmt.Sprintf("%s section: %s", kind, detail)).
		WithCause(ErrMalformedSection).
		WithContext(ctxKind, kind).
		WithContext(ctxDetail, detail).
		Build()
}

// InvalidTarget reports a link whose target is not exactly one of internal or external.
func InvalidTarget(path, detail string) error {
	return ferrors.NavigationError(fmt.Sprintf("%s: %s", path, detail)).
		WithCause(ErrInvalidTarget).
		WithContext(ctxPath, path).
		WithContext(ctxDetail, detail).
		Build()
}

// ReferenceID returns the identifier carried by a dangling or duplicate reference error.
func ReferenceID(err error) (string, bool) {
	return contextString(err, ctxID)
}

// SectionKind returns the section kind carried by a malformed section error.
func SectionKind(err error) (string, bool) {
	return contextString(err, ctxKind)
}

// Detail returns the detail carried by a malformed section or invalid target error.
func Detail(err error) (string, bool) {
	return contextString(err, ctxDetail)
}

// DeclPath returns the declaration breadcrumb carried by the error.
func DeclPath(err error) (string, bool) {
	return contextString(err, ctxPath)
}

func contextString(err error, key string) (string, bool) {
	classified, ok := ferrors.AsClassified(err)
	if !ok {
		return "", false
	}
	return classified.Context().GetString(key)
}
