// Package git reads commit history for documentation files.
package git

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when no repository encloses the requested path.
var ErrNotRepository = errors.New("not inside a git repository")

// Commit describes the last change to a file.
type Commit struct {
	Hash   string    `json:"hash"`
	Author string    `json:"author"`
	When   time.Time `json:"when"`
}

// History answers last-commit queries against the repository enclosing a directory.
type History struct {
	repo *git.Repository
	root string
}

// OpenHistory opens the repository containing dir, searching parent directories.
func OpenHistory(dir string) (*History, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	return &History{repo: repo, root: resolve(wt.Filesystem.Root())}, nil
}

// Head returns the commit hash HEAD points to.
func (h *History) Head() (string, error) {
	ref, err := h.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// LastCommit returns the most recent commit touching path. ok is false when the file
// has never been committed or the repository has no commits yet.
func (h *History) LastCommit(path string) (c Commit, ok bool, err error) {
	rel, err := h.relative(path)
	if err != nil {
		return Commit{}, false, err
	}

	iter, err := h.repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Commit{}, false, nil
		}
		return Commit{}, false, fmt.Errorf("log %s: %w", rel, err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if errors.Is(err, io.EOF) {
		return Commit{}, false, nil
	}
	if err != nil {
		return Commit{}, false, fmt.Errorf("log %s: %w", rel, err)
	}
	return Commit{
		Hash:   commit.Hash.String(),
		Author: commit.Author.Name,
		When:   commit.Author.When.UTC(),
	}, true, nil
}

func (h *History) relative(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(h.root, resolve(abs))
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside repository %s", path, h.root)
	}
	return rel, nil
}

func resolve(p string) string {
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	return p
}
