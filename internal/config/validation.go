package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	ferrors "github.com/studyknots/knotsdocs/internal/foundation/errors"
)

// Validate checks structural constraints on a defaulted configuration and returns the
// first violation. Reference checks (documents, routes, link targets) belong to the
// navigation builder and page composer.
func Validate(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	for _, step := range []func() error{
		cv.validateSite,
		cv.validateI18n,
		cv.validateMetadata,
		cv.validateTheme,
		cv.validateSidebars,
		cv.validateDocs,
		cv.validateNotify,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return ferrors.ConfigError(fmt.Sprintf("%s: %s", field, fmt.Sprintf(format, args...))).
		WithContext("field", field).
		Build()
}

func (cv *configurationValidator) validateSite() error {
	site := cv.config.Site
	if strings.TrimSpace(site.Title) == "" {
		return invalid("site.title", "cannot be empty")
	}
	u, err := url.Parse(site.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("site.url", "must be an absolute http(s) URL, got %q", site.URL)
	}
	if !strings.HasPrefix(site.BaseURL, "/") || !strings.HasSuffix(site.BaseURL, "/") {
		return invalid("site.base_url", "must start and end with '/', got %q", site.BaseURL)
	}
	return nil
}

func (cv *configurationValidator) validateI18n() error {
	i18n := cv.config.Site.I18n
	if !slices.Contains(i18n.Locales, i18n.DefaultLocale) {
		return invalid("site.i18n.default_locale", "%q is not listed in locales %v", i18n.DefaultLocale, i18n.Locales)
	}
	return nil
}

func (cv *configurationValidator) validateMetadata() error {
	for i, m := range cv.config.Site.Metadata {
		field := fmt.Sprintf("site.metadata[%d]", i)
		if (m.Name == "") == (m.Property == "") {
			return invalid(field, "exactly one of name and property must be set")
		}
	}
	return nil
}

func (cv *configurationValidator) validateTheme() error {
	toc := cv.config.Theme.TableOfContents
	if toc.MinHeadingLevel < 2 || toc.MaxHeadingLevel > 6 || toc.MinHeadingLevel > toc.MaxHeadingLevel {
		return invalid("theme.table_of_contents", "heading levels must satisfy 2 <= min <= max <= 6, got min=%d max=%d",
			toc.MinHeadingLevel, toc.MaxHeadingLevel)
	}
	if bar := cv.config.Theme.Announcement; bar != nil {
		if strings.TrimSpace(bar.ID) == "" {
			return invalid("theme.announcement_bar.id", "cannot be empty")
		}
		if strings.TrimSpace(bar.Content) == "" {
			return invalid("theme.announcement_bar.content", "cannot be empty")
		}
	}
	return nil
}

func (cv *configurationValidator) validateSidebars() error {
	seen := make(map[string]bool, len(cv.config.Sidebars))
	for i, sb := range cv.config.Sidebars {
		if strings.TrimSpace(sb.Name) == "" {
			return invalid(fmt.Sprintf("sidebars[%d]", i), "name cannot be empty")
		}
		if seen[sb.Name] {
			return invalid("sidebars", "duplicate sidebar name: %s", sb.Name)
		}
		seen[sb.Name] = true
	}
	return nil
}

func (cv *configurationValidator) validateDocs() error {
	if strings.TrimSpace(cv.config.Docs.Dir) == "" {
		return invalid("docs.dir", "cannot be empty")
	}
	if cv.config.Docs.EditURL != "" {
		u, err := url.Parse(cv.config.Docs.EditURL)
		if err != nil || !u.IsAbs() {
			return invalid("docs.edit_url", "must be an absolute URL, got %q", cv.config.Docs.EditURL)
		}
	}
	return nil
}

func (cv *configurationValidator) validateNotify() error {
	if r := cv.config.Notify.Retries; r != nil && *r < 0 {
		return invalid("notify.retries", "cannot be negative, got %d", *r)
	}
	return nil
}
