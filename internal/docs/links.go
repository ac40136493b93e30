package docs

import (
	"net/url"
	"path"
	"strings"

	"github.com/studyknots/knotsdocs/internal/diag"
)

// BrokenLink is a body link that does not resolve.
type BrokenLink struct {
	Source      string // docs-relative path of the linking document
	Destination string
}

// BrokenLinks returns body links between documents that do not resolve, in
// discovery order. Links to .md/.mdx files are resolved against source paths and
// other site-relative links against the route set. External links and pure
// fragments are not checked.
func BrokenLinks(x *Index) []BrokenLink {
	var out []BrokenLink
	for _, doc := range x.docs {
		for _, dest := range doc.Links {
			if ok, checked := x.resolveLink(doc, dest); checked && !ok {
				out = append(out, BrokenLink{Source: doc.SourcePath, Destination: dest})
			}
		}
	}
	return out
}

// CheckLinks reports every broken body link as a warning.
func CheckLinks(x *Index) diag.List {
	var out diag.List
	for _, l := range BrokenLinks(x) {
		out.Warn(diag.CodeBrokenLink, l.Source, "link %q does not resolve to a document", l.Destination)
	}
	return out
}

func (x *Index) resolveLink(from Document, dest string) (ok, checked bool) {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "//") {
		return false, false
	}
	if u, err := url.Parse(dest); err != nil || u.Scheme != "" {
		return false, false
	}
	target := dest
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}

	if ext := strings.ToLower(path.Ext(target)); ext == ".md" || ext == ".mdx" {
		var source string
		if strings.HasPrefix(target, "/") {
			source = strings.TrimPrefix(path.Clean(target), "/")
		} else {
			source = path.Clean(path.Join(path.Dir(from.SourcePath), target))
		}
		_, ok := x.bySource[source]
		return ok, true
	}
	if path.Ext(target) != "" {
		// Static assets are served by the renderer.
		return false, false
	}
	if !strings.HasPrefix(target, "/") {
		target = path.Join(path.Dir(strings.TrimSuffix(from.Route, "/")), target)
	}
	return x.HasRoute(target), true
}
