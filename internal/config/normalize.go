package config

import (
	"fmt"
	"strings"

	"github.com/studyknots/knotsdocs/internal/foundation/normalization"
)

// BrokenLinkPolicy controls how unresolved links in free-form HTML are reported.
type BrokenLinkPolicy string

const (
	BrokenLinksWarn   BrokenLinkPolicy = "warn"
	BrokenLinksThrow  BrokenLinkPolicy = "throw"
	BrokenLinksIgnore BrokenLinkPolicy = "ignore"
)

var brokenLinkNormalizer = normalization.NewNormalizer(map[string]BrokenLinkPolicy{
	"warn":   BrokenLinksWarn,
	"throw":  BrokenLinksThrow,
	"error":  BrokenLinksThrow,
	"ignore": BrokenLinksIgnore,
}, BrokenLinksWarn)

// ColorMode is the initial theme color mode.
type ColorMode string

const (
	ColorModeLight ColorMode = "light"
	ColorModeDark  ColorMode = "dark"
)

var colorModeNormalizer = normalization.NewNormalizer(map[string]ColorMode{
	"light": ColorModeLight,
	"dark":  ColorModeDark,
}, ColorModeLight)

// Position places a navbar item.
type Position string

const (
	PositionLeft  Position = "left"
	PositionRight Position = "right"
)

var positionNormalizer = normalization.NewNormalizer(map[string]Position{
	"left":  PositionLeft,
	"right": PositionRight,
}, PositionLeft)

// FooterStyle selects the footer palette.
type FooterStyle string

const (
	FooterDark  FooterStyle = "dark"
	FooterLight FooterStyle = "light"
)

var footerStyleNormalizer = normalization.NewNormalizer(map[string]FooterStyle{
	"dark":  FooterDark,
	"light": FooterLight,
}, FooterDark)

// NormalizationResult captures coercions made while canonicalizing enumerated fields.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated fields in place. Unknown values fall back to
// the field default and are reported as warnings. Empty values are left for the
// default appliers.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	c.Site.OnBrokenLinks = normalizeField(res, "site.on_broken_links", c.Site.OnBrokenLinks, brokenLinkNormalizer)
	c.Theme.ColorMode.DefaultMode = normalizeField(res, "theme.color_mode.default_mode", c.Theme.ColorMode.DefaultMode, colorModeNormalizer)
	c.Footer.Style = normalizeField(res, "footer.style", c.Footer.Style, footerStyleNormalizer)
	for i := range c.Navbar.Items {
		normalizeNavbarItem(res, fmt.Sprintf("navbar.items[%d]", i), &c.Navbar.Items[i])
	}
	return res, nil
}

func normalizeNavbarItem(res *NormalizationResult, field string, item *NavbarItem) {
	item.Type = NavbarType(item.Type)
	if item.Type != NavbarHTML {
		item.Position = normalizeField(res, field+".position", item.Position, positionNormalizer)
	}
	for i := range item.Items {
		normalizeNavbarItem(res, fmt.Sprintf("%s.items[%d]", field, i), &item.Items[i])
	}
}

func normalizeField[T ~string](res *NormalizationResult, field string, value T, n *normalization.Normalizer[T]) T {
	if strings.TrimSpace(string(value)) == "" {
		return ""
	}
	parsed, err := n.Parse(field, string(value))
	if err != nil {
		def := n.Normalize("")
		res.Warnings = append(res.Warnings, warnUnknown(field, string(value), string(def)))
		return def
	}
	if parsed != value {
		res.Warnings = append(res.Warnings, warnChanged(field, value, parsed))
	}
	return parsed
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
