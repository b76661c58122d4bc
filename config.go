package sitecrawl

import (
	"net/url"
	"strings"
	"time"
)

// Site describes what to crawl. It is static configuration: the entry
// trigger takes no other crawl-specific parameters.
type Site struct {
	Name  string
	Seeds []string

	// AllowedDomains lists the domains (and their subdomains) whose pages
	// are crawled. Ignored when RootDomain is set.
	AllowedDomains []string

	// RootDomain, when set, restricts the crawl to exactly one host.
	RootDomain string

	// PrimaryDomain tags manifest entries as primary or secondary.
	// Defaults to the host of the first seed.
	PrimaryDomain string
}

// Scope returns the crawl scope of the site.
func (s *Site) Scope() Scope {
	return Scope{AllowedDomains: s.AllowedDomains, RootDomain: s.RootDomain}
}

// DomainType classifies a crawled URL for the manifest.
func (s *Site) DomainType(rawURL string) string {
	primary := s.PrimaryDomain
	if primary == "" && len(s.Seeds) > 0 {
		if u, err := url.Parse(s.Seeds[0]); err == nil {
			primary = u.Hostname()
		}
	}
	primary = strings.TrimPrefix(strings.ToLower(primary), "www.")
	if primary != "" && IsAllowed(rawURL, []string{primary}) {
		return DomainPrimary
	}
	return DomainSecondary
}

// Validate returns an error if the site contains invalid fields.
func (s *Site) Validate() error {
	if len(s.Seeds) == 0 {
		return Errorf(EINVALID, "at least one seed URL required")
	}
	if len(s.AllowedDomains) == 0 && s.RootDomain == "" {
		return Errorf(EINVALID, "allowed domains or root domain required")
	}
	for _, seed := range s.Seeds {
		if _, err := NormalizeURL(seed, ""); err != nil {
			return Errorf(EINVALID, "invalid seed URL %q", seed)
		}
	}
	return nil
}

// Storage drivers.
const (
	StorageFS     = "fs"
	StorageSQLite = "sqlite"
	StorageGCS    = "gcs"
)

// StorageConfig selects where artifacts are written.
type StorageConfig struct {
	Driver string
	// Path is the output directory (fs) or database file (sqlite).
	Path string
	// Bucket and Prefix address a GCS location.
	Bucket string
	Prefix string
}

// Markdown rendition engines.
const (
	MarkdownNone        = ""
	MarkdownTrafilatura = "trafilatura"
	MarkdownReadability = "readability"
)

// Render engines.
const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// Config holds the complete crawl configuration.
type Config struct {
	Site Site

	MaxPages    int
	MaxDepth    int // negative means unlimited
	Order       Order
	Concurrency int

	// CrawlDelay is the politeness pause between requests to one host.
	CrawlDelay   time.Duration
	FetchTimeout time.Duration
	OCRTimeout   time.Duration
	MaxBodyBytes int64
	UserAgent    string

	RenderMode   RenderMode
	RenderEngine string
	RenderWait   time.Duration

	ChunkSize           int
	MinChunkWords       int
	NativeTextMinLength int

	Markdown string
	OCRModel string

	Storage StorageConfig
}

// Configuration defaults.
const (
	DefaultMaxPages            = 500
	DefaultMaxDepth            = 10
	DefaultConcurrency         = 1
	DefaultCrawlDelay          = 1500 * time.Millisecond
	DefaultFetchTimeout        = 30 * time.Second
	DefaultOCRTimeout          = 60 * time.Second
	DefaultRenderWait          = 2 * time.Second
	DefaultNativeTextMinLength = 400
	DefaultMaxBodyBytes        = 25 << 20
	DefaultUserAgent           = "sitecrawl/1.0 (+https://github.com/fwojciec/sitecrawl)"
	DefaultOCRModel            = "gemini-2.5-flash"
)

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		MaxPages:            DefaultMaxPages,
		MaxDepth:            DefaultMaxDepth,
		Order:               OrderFIFO,
		Concurrency:         DefaultConcurrency,
		CrawlDelay:          DefaultCrawlDelay,
		FetchTimeout:        DefaultFetchTimeout,
		OCRTimeout:          DefaultOCRTimeout,
		MaxBodyBytes:        DefaultMaxBodyBytes,
		UserAgent:           DefaultUserAgent,
		RenderMode:          RenderNever,
		RenderEngine:        EngineRod,
		RenderWait:          DefaultRenderWait,
		ChunkSize:           DefaultChunkSize,
		MinChunkWords:       DefaultMinChunkWords,
		NativeTextMinLength: DefaultNativeTextMinLength,
		OCRModel:            DefaultOCRModel,
		Storage: StorageConfig{
			Driver: StorageFS,
			Path:   "crawl-output",
		},
	}
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if c.MaxPages < 0 {
		return Errorf(EINVALID, "max pages must not be negative")
	}
	if c.Concurrency < 1 {
		return Errorf(EINVALID, "concurrency must be at least 1")
	}
	if c.ChunkSize < 1 {
		return Errorf(EINVALID, "chunk size must be at least 1")
	}
	if c.MinChunkWords < 0 {
		return Errorf(EINVALID, "min chunk words must not be negative")
	}
	if c.CrawlDelay < 0 || c.FetchTimeout <= 0 || c.OCRTimeout <= 0 {
		return Errorf(EINVALID, "delays and timeouts must be positive")
	}
	switch c.Order {
	case OrderFIFO, OrderLIFO:
	default:
		return Errorf(EINVALID, "unknown frontier order %q", c.Order)
	}
	switch c.RenderMode {
	case RenderNever, RenderAlways, RenderAuto:
	default:
		return Errorf(EINVALID, "unknown render mode %q", c.RenderMode)
	}
	switch c.RenderEngine {
	case EngineRod, EngineChromedp:
	default:
		return Errorf(EINVALID, "unknown render engine %q", c.RenderEngine)
	}
	switch c.Markdown {
	case MarkdownNone, MarkdownTrafilatura, MarkdownReadability:
	default:
		return Errorf(EINVALID, "unknown markdown engine %q", c.Markdown)
	}
	switch c.Storage.Driver {
	case StorageFS, StorageSQLite:
		if c.Storage.Path == "" {
			return Errorf(EINVALID, "storage path required for %s driver", c.Storage.Driver)
		}
	case StorageGCS:
		if c.Storage.Bucket == "" {
			return Errorf(EINVALID, "storage bucket required for gcs driver")
		}
	default:
		return Errorf(EINVALID, "unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
