package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "site.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "site.yaml" {
			t.Errorf("expected context file=site.yaml, got %v", file)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		base := ConfigError("test error").Build()
		wrapped := fmt.Errorf("load: %w", base)

		if !IsClassified(wrapped) {
			t.Error("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if GetSeverity(wrapped) != SeverityFatal {
			t.Error("expected fatal severity")
		}
		if base.CanRetry() {
			t.Error("expected config error to not be retryable")
		}
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		plain := errors.New("plain")
		if GetCategory(plain) != CategoryInternal {
			t.Errorf("expected internal category, got %s", GetCategory(plain))
		}
		if GetSeverity(plain) != SeverityError {
			t.Errorf("expected error severity, got %s", GetSeverity(plain))
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Wrapped cause is reachable", func(t *testing.T) {
		sentinel := errors.New("dangling reference")
		err := NavigationError("unknown document").
			WithCause(sentinel).
			WithContext("id", "guides/missing").
			Build()

		if !errors.Is(err, sentinel) {
			t.Error("expected error to wrap sentinel")
		}
		id, _ := err.Context().GetString("id")
		if id != "guides/missing" {
			t.Errorf("expected id context, got %q", id)
		}
		want := "[navigation:fatal] unknown document: dangling reference"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryUserAction},
			{"NavigationError", NavigationError("test"), CategoryNavigation, SeverityFatal, RetryUserAction},
			{"PageError", PageError("test"), CategoryPage, SeverityFatal, RetryUserAction},
			{"ContentError", ContentError("test"), CategoryContent, SeverityFatal, RetryUserAction},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, RetryBackoff},
			{"EventStoreError", EventStoreError("test"), CategoryEventStore, SeverityError, RetryNever},
			{"NotifyError", NotifyError("test"), CategoryNotify, SeverityWarning, RetryBackoff},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Category() != tt.category {
					t.Errorf("expected category %s, got %s", tt.category, err.Category())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
				if err.RetryStrategy() != tt.retry {
					t.Errorf("expected retry strategy %s, got %s", tt.retry, err.RetryStrategy())
				}
			})
		}
	})

	t.Run("WithContext copies", func(t *testing.T) {
		orig := PageError("bad section").Build()
		extended := orig.WithContext("kind", "FeatureGrid")
		if _, ok := orig.Context().Get("kind"); ok {
			t.Error("expected original context to be untouched")
		}
		if kind, _ := extended.Context().GetString("kind"); kind != "FeatureGrid" {
			t.Errorf("expected kind=FeatureGrid, got %q", kind)
		}
	})
}

func TestErrorContext(t *testing.T) {
	t.Run("Context operations", func(t *testing.T) {
		ctx := make(ErrorContext)
		ctx = ctx.Set("key1", "value1")
		ctx = ctx.Set("key2", 42)

		value1, exists1 := ctx.GetString("key1")
		if !exists1 || value1 != "value1" {
			t.Errorf("expected key1=value1, got %v", value1)
		}
		value2, exists2 := ctx.Get("key2")
		if !exists2 || value2 != 42 {
			t.Errorf("expected key2=42, got %v", value2)
		}
		if _, exists3 := ctx.Get("nonexistent"); exists3 {
			t.Error("expected nonexistent key to not exist")
		}
	})

	t.Run("Context merge", func(t *testing.T) {
		ctx1 := ErrorContext{"key1": "value1", "shared": "original"}
		ctx2 := ErrorContext{"key2": "value2", "shared": "overridden"}

		merged := ctx1.Merge(ctx2)

		shared, _ := merged.GetString("shared")
		if shared != "overridden" {
			t.Errorf("expected shared=overridden, got %s", shared)
		}
		if v, _ := merged.GetString("key1"); v != "value1" {
			t.Errorf("expected key1=value1, got %s", v)
		}
	})
}
