package navigation

import (
	"net/url"
	"strings"

	serrors "github.com/studyknots/knotsdocs/internal/site/errors"
)

// RouteSet answers whether a route is served by the site.
type RouteSet interface {
	HasRoute(route string) bool
}

// ResolveTarget validates a link declared at path with an internal route to and an
// external URL href. Exactly one must be set. External URLs must be absolute
// http(s), and internal routes must exist in routes.
func ResolveTarget(routes RouteSet, path, to, href string) (Target, error) {
	to, href = strings.TrimSpace(to), strings.TrimSpace(href)
	switch {
	case to != "" && href != "":
		return Target{}, serrors.InvalidTarget(path, "sets both an internal route and an external URL")
	case to == "" && href == "":
		return Target{}, serrors.InvalidTarget(path, "sets neither an internal route nor an external URL")
	case href != "":
		if err := CheckExternalURL(path, href); err != nil {
			return Target{}, err
		}
		return Target{External: href}, nil
	default:
		if !routes.HasRoute(to) {
			return Target{}, serrors.DanglingReference(to, path)
		}
		return Target{Internal: to}, nil
	}
}

// CheckExternalURL reports an InvalidTarget unless raw is an absolute http(s) URL.
func CheckExternalURL(path, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return serrors.InvalidTarget(path, "external URL does not parse: "+err.Error())
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return serrors.InvalidTarget(path, "external URL must be absolute http(s): "+raw)
	}
	return nil
}
