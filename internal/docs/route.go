package docs

import (
	"path"
	"regexp"
	"strings"
)

// HomeRoute is the landing page route.
const HomeRoute = "/"

var numberPrefix = regexp.MustCompile(`^\d+\s*[-_.]\s*`)

// stripNumberPrefix removes ordering prefixes such as "01-" from each path segment.
func stripNumberPrefix(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		if trimmed := numberPrefix.ReplaceAllString(s, ""); trimmed != "" {
			segs[i] = trimmed
		}
	}
	return strings.Join(segs, "/")
}

// docID derives the identifier from a slash-separated source path without extension
// and an optional frontmatter id, which replaces the last segment.
func docID(sourceNoExt, frontmatterID string) string {
	id := stripNumberPrefix(sourceNoExt)
	if frontmatterID == "" {
		return id
	}
	if dir := path.Dir(id); dir != "." {
		return dir + "/" + frontmatterID
	}
	return frontmatterID
}

// RouteOptions controls how document routes are formed.
type RouteOptions struct {
	// BasePath prefixes every document route; "/" serves docs at the site root.
	BasePath string
	// TrailingSlash adds (true) or removes (false) a trailing slash; nil leaves routes untouched.
	TrailingSlash *bool
}

// ResolveRoute forms the route for a document ID with an optional frontmatter slug.
// An absolute slug replaces the whole path; a relative slug replaces the last segment.
func ResolveRoute(id, slug string, opts RouteOptions) string {
	var rel string
	switch {
	case strings.HasPrefix(slug, "/"):
		rel = slug
	case slug != "":
		rel = path.Join(path.Dir(id), slug)
	default:
		rel = id
		if rel == "index" {
			rel = ""
		} else if strings.HasSuffix(rel, "/index") {
			rel = strings.TrimSuffix(rel, "/index")
		}
	}

	route := path.Clean("/" + path.Join(strings.Trim(opts.BasePath, "/"), rel))
	return applyTrailingSlash(route, opts.TrailingSlash)
}

func applyTrailingSlash(route string, trailing *bool) string {
	if trailing == nil || route == HomeRoute {
		return route
	}
	if *trailing {
		return strings.TrimSuffix(route, "/") + "/"
	}
	return strings.TrimSuffix(route, "/")
}

// NormalizeRoute reduces a route to its matching form: leading slash, no trailing
// slash except for the root, no query or fragment.
func NormalizeRoute(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
		if route == "" {
			route = HomeRoute
		}
	}
	return route
}
