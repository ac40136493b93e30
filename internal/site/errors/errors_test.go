package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/studyknots/knotsdocs/internal/foundation/errors"
)

func TestDanglingReference(t *testing.T) {
	err := fmt.Errorf("navigation: %w", DanglingReference("guides/does-not-exist", "sidebar:main/Guides[0]"))

	require.True(t, stderrors.Is(err, ErrDanglingReference))
	assert.False(t, stderrors.Is(err, ErrDuplicateReference))

	id, ok := ReferenceID(err)
	require.True(t, ok)
	assert.Equal(t, "guides/does-not-exist", id)

	path, _ := DeclPath(err)
	assert.Equal(t, "sidebar:main/Guides[0]", path)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNavigation))
}

func TestDuplicateDocumentIsContentCategory(t *testing.T) {
	err := DuplicateDocument("intro", "a.md", "b.md")

	assert.True(t, stderrors.Is(err, ErrDuplicateReference))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryContent))
	id, _ := ReferenceID(err)
	assert.Equal(t, "intro", id)
}

func TestMalformedSection(t *testing.T) {
	err := MalformedSection("FeatureGrid", "empty")

	assert.True(t, stderrors.Is(err, ErrMalformedSection))
	kind, _ := SectionKind(err)
	detail, _ := Detail(err)
	assert.Equal(t, "FeatureGrid", kind)
	assert.Equal(t, "empty", detail)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryPage))
}

func TestAccessorsOnPlainError(t *testing.T) {
	_, ok := ReferenceID(stderrors.New("plain"))
	assert.False(t, ok)
}
