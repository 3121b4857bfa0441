package config

// SiteConfig holds site-specific overrides for a single domain.
type SiteConfig struct {
	// LogoURL pins the logo for this domain to an explicit URL,
	// bypassing candidate scoring entirely. Useful for sites whose
	// markup defeats every heuristic.
	LogoURL string `yaml:"logoUrl,omitempty"`

	// Cookie is an HTTP cookie sent with requests to this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers included in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Skip excludes this domain from harvesting without editing the
	// target list.
	Skip bool `yaml:"skip,omitempty"`
}

// File represents the structure of the .logoscan configuration file.
type File struct {
	// Sites maps domains to their site-specific overrides. Keys are
	// bare domains (e.g. "acme.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific domain, merging
// the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	result := cf.Defaults

	if site, ok := cf.Sites[domain]; ok {
		if site.LogoURL != "" {
			result.LogoURL = site.LogoURL
		}
		if site.Cookie != "" {
			result.Cookie = site.Cookie
		}
		if len(site.Headers) > 0 {
			merged := make(map[string]string, len(result.Headers)+len(site.Headers))
			for k, v := range result.Headers {
				merged[k] = v
			}
			for k, v := range site.Headers {
				merged[k] = v
			}
			result.Headers = merged
		}
		if site.Skip {
			result.Skip = true
		}
	}
	return result
}

// RequestHeaders flattens the override into the header map the fetcher
// sends, folding the cookie in as a Cookie header.
func (sc SiteConfig) RequestHeaders() map[string]string {
	if sc.Cookie == "" && len(sc.Headers) == 0 {
		return nil
	}
	headers := make(map[string]string, len(sc.Headers)+1)
	for k, v := range sc.Headers {
		headers[k] = v
	}
	if sc.Cookie != "" {
		headers["Cookie"] = sc.Cookie
	}
	return headers
}
