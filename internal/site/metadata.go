package site

import (
	"slices"
	"strconv"
	"strings"

	"github.com/studyknots/knotsdocs/internal/config"
)

// SiteMetadata is the site-wide configuration handed to the renderer. It is
// copied out of the configuration once per build and never mutated.
type SiteMetadata struct {
	Title            string       `json:"title"`
	Tagline          string       `json:"tagline,omitempty"`
	Favicon          string       `json:"favicon,omitempty"`
	URL              string       `json:"url"`
	BaseURL          string       `json:"base_url"`
	OrganizationName string       `json:"organization_name,omitempty"`
	ProjectName      string       `json:"project_name,omitempty"`
	TrailingSlash    *bool        `json:"trailing_slash,omitempty"`
	OnBrokenLinks    string       `json:"on_broken_links"`
	Locales          Locales      `json:"i18n"`
	Image            string       `json:"image,omitempty"`
	Metadata         []MetaTag    `json:"metadata,omitempty"`
	Docs             DocsMetadata `json:"docs"`
	Theme            ThemeTokens  `json:"theme"`
}

type Locales struct {
	Default string   `json:"default_locale"`
	All     []string `json:"locales"`
}

type MetaTag struct {
	Name     string `json:"name,omitempty"`
	Property string `json:"property,omitempty"`
	Content  string `json:"content"`
}

type DocsMetadata struct {
	RouteBasePath string `json:"route_base_path"`
	EditURL       string `json:"edit_url,omitempty"`
}

// ThemeTokens are presentation settings passed through to the renderer untouched.
type ThemeTokens struct {
	ColorMode       ColorMode     `json:"color_mode"`
	Announcement    *Announcement `json:"announcement_bar,omitempty"`
	Navbar          NavbarTokens  `json:"navbar"`
	Footer          FooterTokens  `json:"footer"`
	Prism           Prism         `json:"prism"`
	TableOfContents TOC           `json:"table_of_contents"`
	CustomCSS       string        `json:"custom_css,omitempty"`
}

type ColorMode struct {
	DefaultMode               string `json:"default_mode"`
	DisableSwitch             bool   `json:"disable_switch"`
	RespectPrefersColorScheme bool   `json:"respect_prefers_color_scheme"`
}

type Announcement struct {
	ID              string `json:"id"`
	Content         string `json:"content"`
	BackgroundColor string `json:"background_color,omitempty"`
	TextColor       string `json:"text_color,omitempty"`
	IsCloseable     bool   `json:"is_closeable"`
}

type Prism struct {
	Theme               string   `json:"theme,omitempty"`
	DarkTheme           string   `json:"dark_theme,omitempty"`
	AdditionalLanguages []string `json:"additional_languages,omitempty"`
}

type TOC struct {
	MinHeadingLevel int `json:"min_heading_level"`
	MaxHeadingLevel int `json:"max_heading_level"`
}

type Logo struct {
	Alt    string `json:"alt"`
	Src    string `json:"src"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type NavbarTokens struct {
	Title string `json:"title,omitempty"`
	Logo  *Logo  `json:"logo,omitempty"`
}

type FooterTokens struct {
	Style     string `json:"style"`
	Copyright string `json:"copyright,omitempty"`
}

// NewSiteMetadata copies the site metadata out of cfg, expanding "{year}" in the
// footer copyright.
func NewSiteMetadata(cfg *config.Config, year int) SiteMetadata {
	m := SiteMetadata{
		Title:            cfg.Site.Title,
		Tagline:          cfg.Site.Tagline,
		Favicon:          cfg.Site.Favicon,
		URL:              cfg.Site.URL,
		BaseURL:          cfg.Site.BaseURL,
		OrganizationName: cfg.Site.OrganizationName,
		ProjectName:      cfg.Site.ProjectName,
		OnBrokenLinks:    string(cfg.Site.OnBrokenLinks),
		Locales: Locales{
			Default: cfg.Site.I18n.DefaultLocale,
			All:     slices.Clone(cfg.Site.I18n.Locales),
		},
		Image: cfg.Site.Image,
		Docs: DocsMetadata{
			RouteBasePath: cfg.Docs.RouteBasePath,
			EditURL:       cfg.Docs.EditURL,
		},
		Theme: ThemeTokens{
			ColorMode: ColorMode{
				DefaultMode:               string(cfg.Theme.ColorMode.DefaultMode),
				DisableSwitch:             cfg.Theme.ColorMode.DisableSwitch,
				RespectPrefersColorScheme: cfg.Theme.ColorMode.RespectPrefersColorScheme,
			},
			Navbar: NavbarTokens{Title: cfg.Navbar.Title},
			Footer: FooterTokens{
				Style:     string(cfg.Footer.Style),
				Copyright: ExpandYear(cfg.Footer.Copyright, year),
			},
			Prism: Prism{
				Theme:               cfg.Theme.Prism.Theme,
				DarkTheme:           cfg.Theme.Prism.DarkTheme,
				AdditionalLanguages: slices.Clone(cfg.Theme.Prism.AdditionalLanguages),
			},
			TableOfContents: TOC(cfg.Theme.TableOfContents),
			CustomCSS:       cfg.Theme.CustomCSS,
		},
	}
	if cfg.Site.TrailingSlash != nil {
		v := *cfg.Site.TrailingSlash
		m.TrailingSlash = &v
	}
	for _, t := range cfg.Site.Metadata {
		m.Metadata = append(m.Metadata, MetaTag(t))
	}
	if a := cfg.Theme.Announcement; a != nil {
		m.Theme.Announcement = &Announcement{
			ID:              a.ID,
			Content:         a.Content,
			BackgroundColor: a.BackgroundColor,
			TextColor:       a.TextColor,
			IsCloseable:     a.IsCloseable,
		}
	}
	if l := cfg.Navbar.Logo; l != nil {
		logo := Logo(*l)
		m.Theme.Navbar.Logo = &logo
	}
	return m
}

// ExpandYear replaces every "{year}" in s.
func ExpandYear(s string, year int) string {
	return strings.ReplaceAll(s, "{year}", strconv.Itoa(year))
}
