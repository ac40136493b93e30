package docs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/studyknots/knotsdocs/internal/diag"
	derrors "github.com/studyknots/knotsdocs/internal/docs/errors"
	ferrors "github.com/studyknots/knotsdocs/internal/foundation/errors"
	"github.com/studyknots/knotsdocs/internal/frontmatter"
	"github.com/studyknots/knotsdocs/internal/git"
	"github.com/studyknots/knotsdocs/internal/logfields"
	"github.com/studyknots/knotsdocs/internal/markdown"
)

// Frontmatter keys excluded from the content fingerprint.
var fingerprintExcludedKeys = []string{mdfp.FingerprintField, "lastmod", "last_update"}

// Options configures discovery.
type Options struct {
	// Dir is the docs directory on disk.
	Dir string
	// EditURL is the base of "edit this page" links; empty disables them.
	EditURL string
	// EditPathPrefix is the repository path of Dir, joined between EditURL and the source path.
	EditPathPrefix string
	Route          RouteOptions
	// GitMeta attaches the last commit touching each file.
	GitMeta bool
	// IncludeDrafts keeps documents with `draft: true`.
	IncludeDrafts bool
}

// Discovery walks a docs directory and builds the content Index.
type Discovery struct {
	opts   Options
	logger *slog.Logger
	caser  cases.Caser
}

// NewDiscovery creates a discovery for opts. A nil logger discards output.
func NewDiscovery(opts Options, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Discovery{opts: opts, logger: logger, caser: cases.Title(language.English)}
}

// Discover walks the docs directory in lexical order. Hidden and underscore-prefixed
// files and directories are skipped.
func (d *Discovery) Discover(ctx context.Context) (*Index, diag.List, error) {
	var diags diag.List

	info, err := os.Stat(d.opts.Dir)
	if err != nil || !info.IsDir() {
		cause := err
		if cause == nil {
			cause = fmt.Errorf("%s is not a directory", d.opts.Dir)
		}
		return nil, nil, ferrors.FileSystemError(fmt.Sprintf("%v: %s", derrors.ErrDocsDirNotFound, d.opts.Dir)).
			WithCause(errors.Join(derrors.ErrDocsDirNotFound, cause)).
			WithContext("path", d.opts.Dir).
			Build()
	}

	var history *git.History
	if d.opts.GitMeta {
		history, err = git.OpenHistory(d.opts.Dir)
		if err != nil {
			diags.Warn(diag.CodeGitMetaUnavailable, d.opts.Dir, "last-updated metadata disabled: %v", err)
			history = nil
		}
	}

	var docs []Document
	walkErr := filepath.WalkDir(d.opts.Dir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p != d.opts.Dir && skipped(entry.Name()) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !isMarkdownFile(entry.Name()) {
			return nil
		}

		doc, keep, err := d.load(p, history, &diags)
		if err != nil {
			return err
		}
		if keep {
			docs = append(docs, doc)
			d.logger.Debug("Discovered document", logfields.DocID(doc.ID), logfields.Route(doc.Route))
		}
		return nil
	})
	if walkErr != nil {
		if ferrors.IsClassified(walkErr) || errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, diags, walkErr
		}
		return nil, diags, ferrors.WrapError(errors.Join(derrors.ErrDocsDirWalkFailed, walkErr), ferrors.CategoryFileSystem, "failed to walk docs directory").
			WithContext("path", d.opts.Dir).
			Build()
	}

	idx, err := NewIndex(docs)
	if err != nil {
		return nil, diags, err
	}
	reportDuplicateRoutes(docs, &diags)

	d.logger.Info("Documents discovered", logfields.Count(idx.Len()), logfields.Path(d.opts.Dir))
	return idx, diags, nil
}

func (d *Discovery) load(p string, history *git.History, diags *diag.List) (Document, bool, error) {
	rel, err := filepath.Rel(d.opts.Dir, p)
	if err != nil {
		return Document{}, false, err
	}
	source := filepath.ToSlash(rel)

	// #nosec G304 - paths come from walking the configured docs directory
	content, err := os.ReadFile(p)
	if err != nil {
		return Document{}, false, ferrors.WrapError(errors.Join(derrors.ErrFileReadFailed, err), ferrors.CategoryFileSystem, "failed to read document").
			WithContext("path", source).
			Build()
	}

	front, body, _, err := frontmatter.Split(content)
	if errors.Is(err, frontmatter.ErrMissingClosingDelimiter) {
		diags.Warn(diag.CodeFrontmatterInvalid, source, "frontmatter is never closed, treating the file as body")
		front, body = nil, content
	}
	fields, err := frontmatter.Parse(front)
	if err != nil {
		return Document{}, false, ferrors.ContentError(fmt.Sprintf("%s: %v", source, err)).
			WithCause(errors.Join(derrors.ErrFrontmatterInvalid, err)).
			WithContext("path", source).
			Build()
	}
	if fields.Draft && !d.opts.IncludeDrafts {
		diags.Info(diag.CodeDraftSkipped, source, "draft document skipped")
		return Document{}, false, nil
	}

	noExt := strings.TrimSuffix(source, path.Ext(source))
	id := docID(noExt, fields.ID)
	analysis := markdown.Analyze(body)

	title := fields.Title
	if title == "" {
		title = analysis.Title
	}
	if title == "" {
		title = d.titleFromName(id)
		diags.Info(diag.CodeUntitledDocument, source, "no title or heading, using %q", title)
	}

	canonical, err := frontmatter.Canonical(fields.Raw, fingerprintExcludedKeys...)
	if err != nil {
		return Document{}, false, ferrors.ContentError(fmt.Sprintf("%s: %v", source, err)).WithCause(err).Build()
	}

	doc := Document{
		ID:           id,
		SourcePath:   source,
		Route:        ResolveRoute(id, fields.Slug, d.opts.Route),
		Title:        title,
		SidebarLabel: fields.SidebarLabel,
		Fingerprint:  mdfp.CalculateFingerprintFromParts(canonical, string(body)),
		EditURL:      d.editURL(source),
	}
	for _, l := range analysis.Links {
		if l.Kind != markdown.LinkKindImage {
			doc.Links = append(doc.Links, l.Destination)
		}
	}

	if history != nil {
		commit, ok, err := history.LastCommit(p)
		if err != nil {
			diags.Warn(diag.CodeGitMetaUnavailable, source, "%v", err)
		} else if ok {
			doc.LastUpdated = &commit
		}
	}
	return doc, true, nil
}

func (d *Discovery) editURL(source string) string {
	if d.opts.EditURL == "" {
		return ""
	}
	return strings.TrimSuffix(d.opts.EditURL, "/") + "/" + path.Join(d.opts.EditPathPrefix, source)
}

func (d *Discovery) titleFromName(id string) string {
	name := path.Base(id)
	if name == "index" && path.Dir(id) != "." {
		name = path.Base(path.Dir(id))
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return d.caser.String(name)
}

func reportDuplicateRoutes(docs []Document, diags *diag.List) {
	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		r := NormalizeRoute(doc.Route)
		if other, ok := seen[r]; ok {
			diags.Warn(diag.CodeDuplicateRoute, doc.SourcePath, "route %s is also served by %s", r, other)
			continue
		}
		seen[r] = doc.SourcePath
	}
}

func skipped(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func isMarkdownFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".mdx"
}
