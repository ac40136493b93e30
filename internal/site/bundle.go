package site

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/studyknots/knotsdocs/internal/docs"
	"github.com/studyknots/knotsdocs/internal/foundation/errors"
	"github.com/studyknots/knotsdocs/internal/git"
	"github.com/studyknots/knotsdocs/internal/homepage"
	"github.com/studyknots/knotsdocs/internal/navigation"
)

// Bundle file names, in write order.
const (
	SiteFile     = "site.json"
	NavFile      = "nav.json"
	HomeFile     = "home.json"
	ManifestFile = "manifest.json"
)

// Bundle is everything the rendering engine needs for one site. It carries no
// build ID or timestamp, so equal inputs give equal bundles.
type Bundle struct {
	Site       SiteMetadata
	Navigation *navigation.NavModel
	Home       *homepage.Page
	Manifest   Manifest
}

// Manifest maps every content document to its route.
type Manifest struct {
	ContentHash string          `json:"content_hash"`
	Documents   []ManifestEntry `json:"documents"`
}

type ManifestEntry struct {
	ID          string      `json:"id"`
	Route       string      `json:"route"`
	Title       string      `json:"title"`
	Label       string      `json:"sidebar_label,omitempty"`
	Source      string      `json:"source_path"`
	Fingerprint string      `json:"fingerprint"`
	EditURL     string      `json:"edit_url,omitempty"`
	LastUpdated *git.Commit `json:"last_updated,omitempty"`
}

// NewManifest lists the documents of idx sorted by ID.
func NewManifest(idx *docs.Index) Manifest {
	list := idx.Documents()
	slices.SortFunc(list, func(a, b docs.Document) int { return strings.Compare(a.ID, b.ID) })

	m := Manifest{ContentHash: idx.Hash(), Documents: make([]ManifestEntry, 0, len(list))}
	for _, d := range list {
		m.Documents = append(m.Documents, ManifestEntry{
			ID:          d.ID,
			Route:       d.Route,
			Title:       d.Title,
			Label:       d.SidebarLabel,
			Source:      d.SourcePath,
			Fingerprint: d.Fingerprint,
			EditURL:     d.EditURL,
			LastUpdated: d.LastUpdated,
		})
	}
	return m
}

type bundleFile struct {
	name string
	data []byte
}

// encode renders the bundle files as indented JSON with a trailing newline.
func (b *Bundle) encode() ([]bundleFile, error) {
	parts := []struct {
		name  string
		value any
	}{
		{SiteFile, b.Site},
		{NavFile, b.Navigation},
		{HomeFile, b.Home},
		{ManifestFile, b.Manifest},
	}
	out := make([]bundleFile, 0, len(parts))
	for _, p := range parts {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p.value); err != nil {
			return nil, errors.WrapError(err, errors.CategoryInternal, "encode bundle").
				WithContext("file", p.name).Build()
		}
		out = append(out, bundleFile{name: p.name, data: buf.Bytes()})
	}
	return out, nil
}

// Hash is a digest of the encoded bundle files.
func (b *Bundle) Hash() (string, error) {
	files, err := b.encode()
	if err != nil {
		return "", err
	}
	h := sha256.New()
	for _, f := range files {
		fmt.Fprintf(h, "%s %d\n", f.name, len(f.data))
		h.Write(f.data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteBundle writes the bundle files into dir. Each file is written to a
// temporary name and renamed into place. With clean set, dir is removed first
// unless it is the filesystem root or contains the working or home directory.
func WriteBundle(b *Bundle, dir string, clean bool) error {
	return WriteBundleGuarded(b, dir, clean, CleanGuard{})
}

// CleanGuard names directories a clean must never remove. Cleaning refuses
// when the output directory overlaps a source directory in either direction,
// or contains a keep directory.
type CleanGuard struct {
	Sources []string
	Keep    []string
}

// WriteBundleGuarded is WriteBundle with extra directories protected from clean.
func WriteBundleGuarded(b *Bundle, dir string, clean bool, guard CleanGuard) error {
	files, err := b.encode()
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "resolve output directory").
			WithContext("dir", dir).Build()
	}
	if clean {
		if err := guardClean(abs, guard); err != nil {
			return err
		}
		if err := os.RemoveAll(abs); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "clean output directory").
				WithContext("dir", abs).Build()
		}
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			WithContext("dir", abs).Build()
	}

	for _, f := range files {
		target := filepath.Join(abs, f.name)
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, f.data, 0o644); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "write bundle file").
				WithContext("file", target).Build()
		}
		if err := os.Rename(tmp, target); err != nil {
			_ = os.Remove(tmp)
			return errors.WrapError(err, errors.CategoryFileSystem, "replace bundle file").
				WithContext("file", target).Build()
		}
	}
	return nil
}

func guardClean(abs string, guard CleanGuard) error {
	refuse := func(why string) error {
		return errors.FileSystemError("refusing to clean output directory").
			WithContext("dir", abs).
			WithContext("reason", why).
			WithContext("hint", "point output.directory at a dedicated build directory").
			UserAction().
			Build()
	}
	if abs == filepath.VolumeName(abs)+string(filepath.Separator) {
		return refuse("filesystem root")
	}
	if wd, err := os.Getwd(); err == nil && within(wd, abs) {
		return refuse("contains the working directory")
	}
	if home, err := os.UserHomeDir(); err == nil && within(home, abs) {
		return refuse("contains the home directory")
	}
	for _, p := range guard.Sources {
		if pa, ok := absDir(p); ok && (within(pa, abs) || within(abs, pa)) {
			return refuse("overlaps the docs directory " + pa)
		}
	}
	for _, p := range guard.Keep {
		if pa, ok := absDir(p); ok && within(pa, abs) {
			return refuse("contains " + pa)
		}
	}
	return nil
}

func absDir(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	abs, err := filepath.Abs(p)
	return abs, err == nil
}

// within reports whether p is dir or lies below it.
func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(p))
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
