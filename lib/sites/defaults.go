package sites

// DefaultConfig covers the sites the scraper ships with. cessionpme is
// listed but has no locators yet, so it resolves as unsupported until
// someone fills its descriptor in.
func DefaultConfig() map[string]SiteConfig {
	return map[string]SiteConfig{
		"transentreprise": {
			Hostnames:           []string{"www.transentreprise.com", "transentreprise.com"},
			TitleSelector:       "header h1.block-title",
			LocationSelector:    "header h1.block-title small",
			PriceLabel:          "Prix",
			RevenueLabel:        "C.A.",
			EmployeesLabel:      "Effectif",
			DescriptionSelector: ".text-annonce p",
		},
		"cessionpme": {
			Hostnames: []string{"www.cessionpme.com", "cessionpme.com"},
		},
	}
}

// Default returns the registry built from DefaultConfig.
func Default() *Registry {
	return NewRegistry(DefaultConfig())
}
