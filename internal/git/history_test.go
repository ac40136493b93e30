package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helpers "github.com/studyknots/knotsdocs/internal/testutil/testutils"
)

func TestLastCommit(t *testing.T) {
	_, wt, root := helpers.SetupTestGitRepo(t)
	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	helpers.CommitFile(t, wt, root, "docs/intro.md", "# Intro\n", "alice", first)
	hash := helpers.CommitFile(t, wt, root, "docs/intro.md", "# Intro\n\nMore.\n", "bob", second)
	helpers.CommitFile(t, wt, root, "docs/other.md", "# Other\n", "carol", second.Add(time.Hour))

	h, err := OpenHistory(filepath.Join(root, "docs"))
	require.NoError(t, err)

	c, ok, err := h.LastCommit(filepath.Join(root, "docs", "intro.md"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, hash, c.Hash)
	assert.Equal(t, "bob", c.Author)
	assert.True(t, second.Equal(c.When))

	head, err := h.Head()
	require.NoError(t, err)
	assert.Len(t, head, 40)
}

func TestLastCommit_Untracked(t *testing.T) {
	_, wt, root := helpers.SetupTestGitRepo(t)
	helpers.CommitFile(t, wt, root, "docs/intro.md", "# Intro\n", "alice", time.Now())
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "new.md"), []byte("# New\n"), 0o600))

	h, err := OpenHistory(root)
	require.NoError(t, err)

	_, ok, err := h.LastCommit(filepath.Join(root, "docs", "new.md"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLastCommit_EmptyRepository(t *testing.T) {
	_, _, root := helpers.SetupTestGitRepo(t)
	h, err := OpenHistory(root)
	require.NoError(t, err)

	_, ok, err := h.LastCommit(filepath.Join(root, "missing.md"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenHistory_NotRepository(t *testing.T) {
	_, err := OpenHistory(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
}
