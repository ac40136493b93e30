package navigation

import "github.com/studyknots/knotsdocs/internal/config"

// Declaration is the navigation as written in the site configuration.
type Declaration struct {
	Sidebars config.Sidebars
	Navbar   []config.NavbarItem
	Footer   []config.FooterColumn
}

// DeclarationFrom extracts the navigation declaration from cfg.
func DeclarationFrom(cfg *config.Config) Declaration {
	return Declaration{
		Sidebars: cfg.Sidebars,
		Navbar:   cfg.Navbar.Items,
		Footer:   cfg.Footer.Links,
	}
}
