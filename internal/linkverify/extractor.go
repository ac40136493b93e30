// Package linkverify parses the free HTML fragments a site configuration may carry
// (announcement bar, navbar html items) and checks the links inside them.
package linkverify

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/studyknots/knotsdocs/internal/foundation/errors"
)

// Link represents a link extracted from an HTML fragment.
type Link struct {
	URL        string // The URL or path
	Text       string // Link text, or alt text for images
	Tag        string // a or img
	Attribute  string // href or src
	IsInternal bool   // True if the link targets this site
}

// RouteSet is the part of the content set needed to resolve internal links.
type RouteSet interface {
	HasRoute(route string) bool
}

// parseFragment parses fragment as the content of a <body> element.
func parseFragment(fragment string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML fragment").Build()
	}
	return nodes, nil
}

// ExtractLinks extracts anchor and image links from an HTML fragment. siteURL
// decides which absolute links count as internal; it may be empty.
func ExtractLinks(fragment, siteURL string) ([]*Link, error) {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return nil, err
	}

	var base *url.URL
	if siteURL != "" {
		base, err = url.Parse(siteURL)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryValidation, "invalid site URL").WithContext("site_url", siteURL).Build()
		}
	}

	var links []*Link
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			extractElementLinks(n, &links, base)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	for _, n := range nodes {
		extract(n)
	}
	return links, nil
}

func extractElementLinks(n *html.Node, links *[]*Link, base *url.URL) {
	switch n.DataAtom {
	case atom.A:
		if href := getAttr(n, "href"); href != "" {
			*links = append(*links, &Link{
				URL:        href,
				Text:       extractText(n),
				Tag:        "a",
				Attribute:  "href",
				IsInternal: isInternalLink(href, base),
			})
		}
	case atom.Img:
		if src := getAttr(n, "src"); src != "" {
			*links = append(*links, &Link{
				URL:        src,
				Text:       getAttr(n, "alt"),
				Tag:        "img",
				Attribute:  "src",
				IsInternal: isInternalLink(src, base),
			})
		}
	}
}

// IsDivider reports whether fragment is a single <hr> element, ignoring whitespace
// and comments around it.
func IsDivider(fragment string) bool {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return false
	}
	var elements int
	var hr bool
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			elements++
			hr = n.DataAtom == atom.Hr && n.FirstChild == nil
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				return false
			}
		}
	}
	return elements == 1 && hr
}

// BrokenLinks returns the internal links of fragment that do not resolve in routes.
// basePath is the site base URL; it is stripped from links before lookup.
func BrokenLinks(fragment, siteURL, basePath string, routes RouteSet) ([]*Link, error) {
	links, err := ExtractLinks(fragment, siteURL)
	if err != nil {
		return nil, err
	}
	var broken []*Link
	for _, link := range links {
		if !link.IsInternal || !ShouldVerifyLink(link) {
			continue
		}
		route, ok := routeFor(link.URL, basePath)
		if !ok {
			continue
		}
		if !routes.HasRoute(route) {
			broken = append(broken, link)
		}
	}
	return broken, nil
}

// routeFor maps an internal link to a site route. Relative links cannot be resolved
// without a page and are skipped.
func routeFor(link, basePath string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	p := u.Path
	if basePath != "" && basePath != "/" {
		prefix := strings.TrimSuffix(basePath, "/")
		if p != prefix && !strings.HasPrefix(p, prefix+"/") {
			return "", false
		}
		p = strings.TrimPrefix(p, prefix)
		if p == "" {
			p = "/"
		}
	}
	if isStaticAsset(p) {
		return "", false
	}
	return p, true
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}

	return strings.TrimSpace(text.String())
}

// isInternalLink determines if a URL is internal to the site.
func isInternalLink(linkURL string, baseURL *url.URL) bool {
	if strings.HasPrefix(linkURL, "#") {
		return true
	}

	u, err := url.Parse(linkURL)
	if err != nil {
		return false
	}
	if u.Scheme == "mailto" || u.Scheme == "tel" || u.Scheme == "javascript" {
		return false
	}

	// Relative URLs are internal
	if u.Scheme == "" && u.Host == "" {
		return true
	}

	return baseURL != nil && strings.EqualFold(u.Host, baseURL.Host)
}

// ShouldVerifyLink determines if a link can be checked against the route set.
func ShouldVerifyLink(link *Link) bool {
	if link.URL == "" || strings.HasPrefix(link.URL, "#") {
		return false
	}
	if strings.HasPrefix(link.URL, "data:") {
		return false
	}
	return true
}

// isStaticAsset reports paths with a file extension; those are served by the renderer
// from the static directory, not the route set.
func isStaticAsset(p string) bool {
	last := p[strings.LastIndex(p, "/")+1:]
	return strings.Contains(last, ".")
}
