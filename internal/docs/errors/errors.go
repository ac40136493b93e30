// Package errors provides sentinel errors for content discovery.
package errors

import "errors"

var (
	// ErrDocsDirNotFound indicates the configured docs directory does not exist.
	ErrDocsDirNotFound = errors.New("docs directory not found")

	// ErrDocsDirWalkFailed indicates filesystem traversal of the docs directory failed.
	ErrDocsDirWalkFailed = errors.New("docs directory walk failed")

	// ErrFileReadFailed indicates reading a discovered document failed.
	ErrFileReadFailed = errors.New("document read failed")

	// ErrFrontmatterInvalid indicates a document's frontmatter is not valid YAML.
	ErrFrontmatterInvalid = errors.New("invalid frontmatter")
)
