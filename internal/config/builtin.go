package config

// StudyKnots returns the configuration of the Study Knots site.
func StudyKnots() *Config {
	noTrailingSlash := false
	return &Config{
		Site: SiteConfig{
			Title:            "Study Knots",
			Tagline:          "Learn Bitcoin Knots - The enhanced Bitcoin node",
			Favicon:          "img/favicon.ico",
			URL:              "https://studyknots.com",
			BaseURL:          "/",
			OrganizationName: "studyknots",
			ProjectName:      "studyknots.github.io",
			TrailingSlash:    &noTrailingSlash,
			OnBrokenLinks:    BrokenLinksWarn,
			I18n:             I18nConfig{DefaultLocale: "en", Locales: []string{"en"}},
			Image:            "img/studyknots-social.png",
			Metadata: []MetaTag{
				{Name: "keywords", Content: "bitcoin knots, bitcoin node, full node, bitcoin core alternative, luke dashjr, op_return, mempool policy"},
				{Name: "author", Content: "Study Knots"},
				{Property: "og:type", Content: "website"},
				{Property: "og:site_name", Content: "Study Knots"},
				{Property: "og:title", Content: "Study Knots - Learn Bitcoin Knots"},
				{Property: "og:description", Content: "The comprehensive guide to Bitcoin Knots. Understand the enhanced Bitcoin Core derivative powering 21% of the network."},
				{Property: "og:image", Content: "https://studyknots.com/img/studyknots-social.png"},
				{Property: "og:image:width", Content: "1200"},
				{Property: "og:image:height", Content: "630"},
				{Property: "og:url", Content: "https://studyknots.com"},
				{Name: "twitter:card", Content: "summary_large_image"},
				{Name: "twitter:title", Content: "Study Knots - Learn Bitcoin Knots"},
				{Name: "twitter:description", Content: "The comprehensive guide to Bitcoin Knots. 200+ patches, policy control, and the OP_RETURN controversy explained."},
				{Name: "twitter:image", Content: "https://studyknots.com/img/studyknots-social.png"},
			},
		},
		Docs: DocsConfig{
			Dir:           "docs",
			RouteBasePath: "/",
			EditURL:       "https://github.com/studyknots/studyknots.github.io/tree/main/",
		},
		Theme: ThemeConfig{
			ColorMode: ColorModeConfig{
				DefaultMode:               ColorModeLight,
				RespectPrefersColorScheme: true,
			},
			Announcement: &AnnouncementBarConfig{
				ID:              "latest_release",
				Content:         `Bitcoin Knots 29.2 is now available! <a href="https://bitcoinknots.org/">Download from bitcoinknots.org</a>`,
				BackgroundColor: "#4A90A4",
				TextColor:       "#fff",
				IsCloseable:     true,
			},
			Prism: PrismConfig{
				Theme:               "github",
				DarkTheme:           "dracula",
				AdditionalLanguages: []string{"bash", "json", "cpp", "python", "toml"},
			},
			TableOfContents: TOCConfig{MinHeadingLevel: 2, MaxHeadingLevel: 4},
			CustomCSS:       "./src/css/custom.css",
		},
		Navbar: NavbarConfig{
			Title: "Study Knots",
			Logo:  &LogoConfig{Alt: "Study Knots Logo", Src: "img/logo.svg", Width: 32, Height: 32},
			Items: []NavbarItem{
				{To: "/getting-started/introduction", Label: "Getting Started", Position: PositionLeft},
				{To: "/patches/overview", Label: "Patches", Position: PositionLeft},
				{To: "/architecture/overview", Label: "Architecture", Position: PositionLeft},
				{To: "/guides/running-a-node", Label: "Guides", Position: PositionLeft},
				{
					Type:     NavbarDropdown,
					Label:    "Resources",
					Position: PositionLeft,
					Items: []NavbarItem{
						{Label: "Bitcoin Knots", Href: "https://bitcoinknots.org"},
						{Label: "GitHub (Knots)", Href: "https://github.com/bitcoinknots/bitcoin"},
						{Type: NavbarHTML, Value: `<hr style="margin: 0.5rem 0;">`},
						{Label: "Bitcoin Core", Href: "https://bitcoincore.org"},
						{Label: "Bitcoin Wiki", Href: "https://en.bitcoin.it/wiki/"},
					},
				},
				{Href: "https://github.com/studyknots/studyknots.github.io", Label: "GitHub", Position: PositionRight},
			},
		},
		Footer: FooterConfig{
			Style: FooterDark,
			Links: []FooterColumn{
				{Title: "Learn", Items: []LinkConfig{
					{Label: "Introduction", To: "/getting-started/introduction"},
					{Label: "Installation", To: "/getting-started/installation"},
					{Label: "Quick Start", To: "/getting-started/quick-start"},
				}},
				{Title: "Documentation", Items: []LinkConfig{
					{Label: "Patches Overview", To: "/patches/overview"},
					{Label: "Architecture", To: "/architecture/overview"},
					{Label: "Configuration", To: "/guides/configuration"},
				}},
				{Title: "Bitcoin Knots", Items: []LinkConfig{
					{Label: "Official Website", Href: "https://bitcoinknots.org"},
					{Label: "Download", Href: "https://bitcoinknots.org/files/"},
					{Label: "GitHub", Href: "https://github.com/bitcoinknots/bitcoin"},
				}},
				{Title: "Community", Items: []LinkConfig{
					{Label: "Discord", Href: "https://discord.gg/bitcoin"},
					{Label: "Telegram", Href: "https://t.me/bitcoinknots"},
					{Label: "Contributing", To: "/reference/contributing"},
				}},
			},
			Copyright: "Study Knots {year} - An educational resource for Bitcoin Knots",
		},
		Sidebars: Sidebars{{Name: "mainSidebar", Items: studyKnotsSidebar()}},
		Home:     studyKnotsHome(),
		Output:   OutputConfig{Directory: "./build", Clean: true},
	}
}

func studyKnotsSidebar() []SidebarItem {
	return []SidebarItem{
		Category("Getting Started", false,
			Doc("getting-started/introduction"),
			Doc("getting-started/installation"),
			Doc("getting-started/quick-start"),
			Doc("getting-started/differences-from-core"),
		),
		Category("Patches & Features", false,
			Doc("patches/overview"),
			Category("Policy Patches", true,
				Doc("patches/policy/mempool-policies"),
				Doc("patches/policy/dust-and-fees"),
				Doc("patches/policy/transaction-filtering"),
			),
			Category("Wallet Features", true,
				Doc("patches/wallet/legacy-wallet"),
				Doc("patches/wallet/sweep-keys"),
				Doc("patches/wallet/codex32"),
			),
			Category("RPC Enhancements", true,
				Doc("patches/rpc/new-commands"),
				Doc("patches/rpc/enhanced-commands"),
			),
			Category("GUI Improvements", true,
				Doc("patches/gui/dark-mode"),
				Doc("patches/gui/network-monitor"),
				Doc("patches/gui/mempool-stats"),
			),
			Category("Networking", true,
				Doc("patches/networking/tor-integration"),
				Doc("patches/networking/upnp"),
			),
		),
		Category("Architecture", true,
			Doc("architecture/overview"),
			Doc("architecture/codebase-structure"),
			Doc("architecture/patch-management"),
			Doc("architecture/build-system"),
		),
		Category("Guides", true,
			Doc("guides/running-a-node"),
			Doc("guides/mining"),
			Doc("guides/wallet-management"),
			Doc("guides/configuration"),
			Doc("guides/troubleshooting"),
		),
		Category("Reference", true,
			Doc("reference/rpc"),
			Doc("reference/configuration-options"),
			Doc("reference/cli-commands"),
			Doc("reference/faq"),
			Doc("reference/contributing"),
			Doc("reference/changelog"),
		),
	}
}

func studyKnotsHome() HomeConfig {
	return HomeConfig{
		Title:       "Learn Bitcoin Knots",
		Description: "Study Knots - The comprehensive guide to understanding Bitcoin Knots, an enhanced Bitcoin Core derivative.",
		Sections: []SectionConfig{
			{
				Type:        SectionHero,
				Title:       "Study Knots",
				Subtitle:    "Untangle the differences. Learn Bitcoin Knots.",
				Description: "The comprehensive guide to understanding Bitcoin Knots, an enhanced Bitcoin Core derivative with additional features, policy options, and improvements.",
				Buttons: []ButtonConfig{
					{Label: "Start Learning", To: "/getting-started/introduction", Style: "secondary"},
					{Label: "Download Knots", Href: "https://bitcoinknots.org", Style: "outline"},
				},
			},
			{
				Type:        SectionBanner,
				Title:       "The OP_RETURN Controversy",
				Description: "Bitcoin Core v30 removed OP_RETURN limits. Nick Szabo broke 5 years of silence to warn about it. Learn why 21% of nodes switched to Knots.",
				Buttons: []ButtonConfig{
					{Label: "Read the Full Story", To: "/guides/op-return-controversy", Style: "primary"},
					{Label: "Debunking the FUD", To: "/architecture/code-analysis", Style: "secondary"},
				},
			},
			{
				Type: SectionStats,
				Stats: []StatConfig{
					{Value: "21%", Label: "Of All Nodes"},
					{Value: "14+", Label: "Years Active"},
					{Value: "v29.2", Label: "Current Release"},
					{Value: "100%", Label: "Consensus Compatible"},
				},
			},
			{
				Type:     SectionFeatures,
				Title:    "What Makes Knots Different",
				Subtitle: "Same consensus rules as Bitcoin Core. More features for power users.",
				Features: []FeatureConfig{
					{Title: "Policy Control", Description: "Fine-grained mempool policies. Filter transactions, set dust thresholds, and control what your node relays.", Link: "/patches/policy/mempool-policies"},
					{Title: "Wallet Features", Description: "Legacy wallet support, private key sweeping, Codex32 seeds, and enhanced signing capabilities.", Link: "/patches/wallet/legacy-wallet"},
					{Title: "Extended RPC", Description: "Additional commands for fee estimation, block inspection, and wallet management.", Link: "/patches/rpc/new-commands"},
					{Title: "GUI Improvements", Description: "Dark mode, network monitoring, mempool statistics, and a polished Qt interface.", Link: "/patches/gui/dark-mode"},
					{Title: "Privacy Options", Description: "Built-in Tor subprocess, enhanced network privacy, and configurable peer settings.", Link: "/patches/networking/tor-integration"},
					{Title: "Mining Tools", Description: "Transaction priority, restored block size options, and getblocktemplate enhancements.", Link: "/guides/mining"},
				},
			},
			{
				Type:     SectionComparison,
				Title:    "Core vs Knots",
				Subtitle: "Knots tracks Bitcoin Core releases while adding enhancements",
				Header:   []string{"Feature", "Bitcoin Core", "Bitcoin Knots"},
				Rows: [][]string{
					{"Consensus Rules", "Standard", "Identical"},
					{"Legacy Wallet", "Deprecated", "Maintained"},
					{"OP_RETURN Policy", "Fixed", "Configurable"},
					{"Mempool Filtering", "Limited", "Extensive"},
					{"Dark Mode", "No", "Yes"},
					{"Embedded Tor", "No", "Yes"},
					{"UPnP", "Removed", "Restored"},
				},
				Link: &LinkConfig{Label: "See full comparison", To: "/getting-started/differences-from-core"},
			},
			{
				Type:        SectionQuickStart,
				Title:       "Quick Start",
				Description: "Get a Bitcoin Knots node running in minutes.",
				Snippet:     "# Download from bitcoinknots.org\n# Extract and run:\n./bitcoind -daemon\n# Check status:\n./bitcoin-cli getblockchaininfo",
				Language:    "bash",
				Link:        &LinkConfig{Label: "Full Quick Start Guide", To: "/getting-started/quick-start"},
				LinksTitle:  "Popular Topics",
				Links: []LinkConfig{
					{Label: "Configure mempool policies", To: "/patches/policy/mempool-policies"},
					{Label: "Filter inscription transactions", To: "/patches/policy/transaction-filtering"},
					{Label: "Enable built-in Tor", To: "/patches/networking/tor-integration"},
					{Label: "Configuration reference", To: "/guides/configuration"},
					{Label: "Use legacy wallets", To: "/patches/wallet/legacy-wallet"},
				},
			},
			{
				Type:        SectionCallToAction,
				Title:       "Ready to Learn More?",
				Description: "Explore the documentation or download Bitcoin Knots to get started.",
				Buttons: []ButtonConfig{
					{Label: "Read the Docs", To: "/getting-started/introduction", Style: "primary"},
					{Label: "bitcoinknots.org", Href: "https://bitcoinknots.org", Style: "secondary"},
				},
			},
		},
	}
}
