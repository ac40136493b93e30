package config

import "fmt"

// DefaultApplier fills unset values for one configuration domain.
type DefaultApplier interface {
	Domain() string
	ApplyDefaults(cfg *Config) error
}

// CompositeDefaultApplier applies defaults across all configuration domains.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&SiteDefaultApplier{},
			&DocsDefaultApplier{},
			&ThemeDefaultApplier{},
			&OutputDefaultApplier{},
			&NotifyDefaultApplier{},
		},
	}
}

func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "/"
	}
	if cfg.Site.OnBrokenLinks == "" {
		cfg.Site.OnBrokenLinks = BrokenLinksWarn
	}
	if cfg.Site.I18n.DefaultLocale == "" {
		cfg.Site.I18n.DefaultLocale = "en"
	}
	if len(cfg.Site.I18n.Locales) == 0 {
		cfg.Site.I18n.Locales = []string{cfg.Site.I18n.DefaultLocale}
	}
	return nil
}

type DocsDefaultApplier struct{}

func (d *DocsDefaultApplier) Domain() string { return "docs" }

func (d *DocsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Docs.Dir == "" {
		cfg.Docs.Dir = "docs"
	}
	if cfg.Docs.RouteBasePath == "" {
		cfg.Docs.RouteBasePath = "docs"
	}
	return nil
}

type ThemeDefaultApplier struct{}

func (t *ThemeDefaultApplier) Domain() string { return "theme" }

func (t *ThemeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Theme.ColorMode.DefaultMode == "" {
		cfg.Theme.ColorMode.DefaultMode = ColorModeLight
	}
	toc := &cfg.Theme.TableOfContents
	if toc.MinHeadingLevel == 0 {
		toc.MinHeadingLevel = 2
	}
	if toc.MaxHeadingLevel == 0 {
		toc.MaxHeadingLevel = max(3, toc.MinHeadingLevel)
	}
	if cfg.Footer.Style == "" {
		cfg.Footer.Style = FooterDark
	}
	if cfg.Navbar.Title == "" {
		cfg.Navbar.Title = cfg.Site.Title
	}
	return nil
}

type OutputDefaultApplier struct{}

func (o *OutputDefaultApplier) Domain() string { return "output" }

func (o *OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./build"
	}
	return nil
}

type NotifyDefaultApplier struct{}

func (n *NotifyDefaultApplier) Domain() string { return "notify" }

func (n *NotifyDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Notify.Enabled() && cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "knotsdocs.builds"
	}
	return nil
}
