package config

import "strings"

// Config is the complete declarative description of the documentation site.
type Config struct {
	Site     SiteConfig    `yaml:"site"`
	Docs     DocsConfig    `yaml:"docs"`
	Theme    ThemeConfig   `yaml:"theme"`
	Navbar   NavbarConfig  `yaml:"navbar"`
	Footer   FooterConfig  `yaml:"footer"`
	Sidebars Sidebars      `yaml:"sidebars"`
	Home     HomeConfig    `yaml:"home"`
	Output   OutputConfig  `yaml:"output"`
	History  HistoryConfig `yaml:"history,omitempty"`
	Notify   NotifyConfig  `yaml:"notify,omitempty"`
}

// SiteConfig holds site-wide metadata.
type SiteConfig struct {
	Title            string           `yaml:"title"`
	Tagline          string           `yaml:"tagline,omitempty"`
	Favicon          string           `yaml:"favicon,omitempty"`
	URL              string           `yaml:"url"`
	BaseURL          string           `yaml:"base_url"`
	OrganizationName string           `yaml:"organization_name,omitempty"`
	ProjectName      string           `yaml:"project_name,omitempty"`
	TrailingSlash    *bool            `yaml:"trailing_slash,omitempty"` // nil leaves routes untouched
	OnBrokenLinks    BrokenLinkPolicy `yaml:"on_broken_links,omitempty"`
	I18n             I18nConfig       `yaml:"i18n"`
	Image            string           `yaml:"image,omitempty"` // social card
	Metadata         []MetaTag        `yaml:"metadata,omitempty"`
}

// I18nConfig lists the site locales.
type I18nConfig struct {
	DefaultLocale string   `yaml:"default_locale"`
	Locales       []string `yaml:"locales"`
}

// MetaTag is a single <meta> entry; exactly one of Name and Property is set.
type MetaTag struct {
	Name     string `yaml:"name,omitempty"`
	Property string `yaml:"property,omitempty"`
	Content  string `yaml:"content"`
}

// DocsConfig locates content documents and derives their routes.
type DocsConfig struct {
	Dir           string `yaml:"dir"`
	RouteBasePath string `yaml:"route_base_path"`
	EditURL       string `yaml:"edit_url,omitempty"`
	GitMeta       bool   `yaml:"git_meta,omitempty"` // last-updated author/time from git history
}

// ThemeConfig holds presentation tokens passed through to the renderer.
type ThemeConfig struct {
	ColorMode       ColorModeConfig        `yaml:"color_mode"`
	Announcement    *AnnouncementBarConfig `yaml:"announcement_bar,omitempty"`
	Prism           PrismConfig            `yaml:"prism,omitempty"`
	TableOfContents TOCConfig              `yaml:"table_of_contents"`
	CustomCSS       string                 `yaml:"custom_css,omitempty"`
}

type ColorModeConfig struct {
	DefaultMode               ColorMode `yaml:"default_mode"`
	DisableSwitch             bool      `yaml:"disable_switch"`
	RespectPrefersColorScheme bool      `yaml:"respect_prefers_color_scheme"`
}

// AnnouncementBarConfig is a dismissible banner shown above the navbar. Content is HTML.
type AnnouncementBarConfig struct {
	ID              string `yaml:"id"`
	Content         string `yaml:"content"`
	BackgroundColor string `yaml:"background_color,omitempty"`
	TextColor       string `yaml:"text_color,omitempty"`
	IsCloseable     bool   `yaml:"is_closeable"`
}

type PrismConfig struct {
	Theme               string   `yaml:"theme,omitempty"`
	DarkTheme           string   `yaml:"dark_theme,omitempty"`
	AdditionalLanguages []string `yaml:"additional_languages,omitempty"`
}

type TOCConfig struct {
	MinHeadingLevel int `yaml:"min_heading_level"`
	MaxHeadingLevel int `yaml:"max_heading_level"`
}

// NavbarConfig describes the top navigation bar.
type NavbarConfig struct {
	Title string       `yaml:"title,omitempty"`
	Logo  *LogoConfig  `yaml:"logo,omitempty"`
	Items []NavbarItem `yaml:"items"`
}

type LogoConfig struct {
	Alt    string `yaml:"alt"`
	Src    string `yaml:"src"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

// NavbarItem is a navbar link, a dropdown (Items set) or, inside a dropdown, an html divider.
type NavbarItem struct {
	Type     string       `yaml:"type,omitempty"` // "" (or link, default), dropdown, html
	Label    string       `yaml:"label,omitempty"`
	To       string       `yaml:"to,omitempty"`
	Href     string       `yaml:"href,omitempty"`
	Position Position     `yaml:"position,omitempty"`
	Value    string       `yaml:"value,omitempty"` // html items only
	Items    []NavbarItem `yaml:"items,omitempty"`
}

// Navbar item types.
const (
	NavbarLink     = ""
	NavbarDropdown = "dropdown"
	NavbarHTML     = "html"
)

// NavbarType folds case and maps the "link" and "default" spellings onto
// NavbarLink.
func NavbarType(t string) string {
	switch t = strings.ToLower(strings.TrimSpace(t)); t {
	case "link", "default":
		return NavbarLink
	}
	return t
}

// FooterConfig describes the footer link columns.
type FooterConfig struct {
	Style     FooterStyle    `yaml:"style"`
	Links     []FooterColumn `yaml:"links"`
	Copyright string         `yaml:"copyright,omitempty"` // "{year}" is expanded at build time
}

type FooterColumn struct {
	Title string       `yaml:"title"`
	Items []LinkConfig `yaml:"items"`
}

// LinkConfig is a labelled link; To is an internal route, Href an external URL.
type LinkConfig struct {
	Label string `yaml:"label"`
	To    string `yaml:"to,omitempty"`
	Href  string `yaml:"href,omitempty"`
}

// HomeConfig declares the landing page.
type HomeConfig struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description,omitempty"`
	Sections    []SectionConfig `yaml:"sections"`
}

// SectionConfig is the union of all landing page section fields; Type selects the variant.
type SectionConfig struct {
	Type        string          `yaml:"type"`
	Title       string          `yaml:"title,omitempty"`
	Subtitle    string          `yaml:"subtitle,omitempty"`
	Description string          `yaml:"description,omitempty"`
	Buttons     []ButtonConfig  `yaml:"buttons,omitempty"`
	Stats       []StatConfig    `yaml:"stats,omitempty"`
	Features    []FeatureConfig `yaml:"features,omitempty"`
	Header      []string        `yaml:"header,omitempty"`
	Rows        [][]string      `yaml:"rows,omitempty"`
	Link        *LinkConfig     `yaml:"link,omitempty"`
	Snippet     string          `yaml:"snippet,omitempty"`
	Language    string          `yaml:"language,omitempty"`
	LinksTitle  string          `yaml:"links_title,omitempty"`
	Links       []LinkConfig    `yaml:"links,omitempty"`
}

// Landing page section types.
const (
	SectionHero         = "hero"
	SectionBanner       = "banner"
	SectionStats        = "stats"
	SectionFeatures     = "features"
	SectionComparison   = "comparison"
	SectionQuickStart   = "quickstart"
	SectionCallToAction = "cta"
)

type ButtonConfig struct {
	Label string `yaml:"label"`
	To    string `yaml:"to,omitempty"`
	Href  string `yaml:"href,omitempty"`
	Style string `yaml:"style,omitempty"` // primary, secondary, outline
}

type StatConfig struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type FeatureConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Link        string `yaml:"link"`
}

// OutputConfig controls where the handoff bundle is written.
type OutputConfig struct {
	Directory   string `yaml:"directory"`
	Clean       bool   `yaml:"clean"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// HistoryConfig enables the build event store.
type HistoryConfig struct {
	DBPath string `yaml:"db_path,omitempty"`
}

// NotifyConfig enables build completion messages over NATS.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
	// Retries is the number of publish retries after a failure. Unset keeps
	// the default of 2; 0 publishes once.
	Retries *int `yaml:"retries,omitempty"`
}

// Enabled reports whether notifications are configured.
func (n NotifyConfig) Enabled() bool { return n.NATSURL != "" }
