// Package errors provides the classified error primitives used across knotsdocs.
//
// A ClassifiedError carries a category (config, navigation, page, ...), a
// severity and structured context. Domain packages declare classified
// sentinels and wrap them, so callers can match with errors.Is and read
// context (for example the dangling document ID) without string parsing.
//
//	err := errors.NavigationError("unknown document").
//		WithCause(ErrDanglingReference).
//		WithContext("id", id).
//		Build()
//
// The CLI adapter maps categories to process exit codes.
package errors
