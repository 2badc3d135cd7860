package scraper

import "time"

// Default timeouts for a single page visit.
const (
	DefaultNavigateTimeout = 30 * time.Second
	DefaultReadyTimeout    = 10 * time.Second
)

// PageConfig defines how to reach a feed page and recognize that it is ready
// for extraction.
type PageConfig struct {
	URL             string        `yaml:"url"`
	ReadySelector   string        `yaml:"ready_selector"`
	ItemSelector    string        `yaml:"item_selector"`
	MaxItems        int           `yaml:"max_items"` // 0 means no limit
	NavigateTimeout time.Duration `yaml:"navigate_timeout"`
	ReadyTimeout    time.Duration `yaml:"ready_timeout"`
}

// NewPageConfig creates a page configuration with default timeouts.
func NewPageConfig(url, readySelector, itemSelector string, maxItems int) PageConfig {
	return PageConfig{
		URL:             url,
		ReadySelector:   readySelector,
		ItemSelector:    itemSelector,
		MaxItems:        maxItems,
		NavigateTimeout: DefaultNavigateTimeout,
		ReadyTimeout:    DefaultReadyTimeout,
	}
}

// Identity is the browser identity a session presents to the site.
type Identity struct {
	UserAgent      string `yaml:"user_agent"`
	AcceptLanguage string `yaml:"accept_language"`
	ViewportWidth  int    `yaml:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height"`
	// BypassChallenge wraps the transport so its TLS and header fingerprint
	// resembles a desktop browser.
	BypassChallenge bool `yaml:"bypass_challenge"`
	// ReloadInterval paces reloads while waiting for a ready selector.
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// DefaultIdentity returns a desktop Chrome identity with a 1920x1080
// viewport.
func DefaultIdentity() Identity {
	return Identity{
		UserAgent:       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		AcceptLanguage:  "en-US,en;q=0.9",
		ViewportWidth:   1920,
		ViewportHeight:  1080,
		BypassChallenge: true,
		ReloadInterval:  time.Second,
	}
}
