package main

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Crawler          *crawl.Crawler
	Site             *sitecrawl.Site
	ManifestLocation string

	Fetcher          sitecrawl.Fetcher
	Renderer         sitecrawl.Renderer
	ContentExtractor sitecrawl.ContentExtractor
	JSDetector       sitecrawl.JSDetector
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Crawl   CrawlCmd   `cmd:"" help:"Crawl a site and store its artifacts"`
	Extract ExtractCmd `cmd:"" help:"Fetch and extract one URL and print the record"`
	Probe   ProbeCmd   `cmd:"" help:"Report whether JavaScript rendering adds content to a page"`
	Show    ShowCmd    `cmd:"" help:"Print artifacts from a SQLite store"`
}

// CrawlCmd is the "crawl" subcommand. Flags override the config file,
// which overrides the built-in defaults.
type CrawlCmd struct {
	Seeds  []string `arg:"" optional:"" help:"Seed URLs (default: site.seeds from the config file)"`
	Config string   `short:"c" help:"YAML config file"`

	Allow []string `help:"Allowed domain, subdomains included (repeatable; default: seed hosts)"`
	Root  string   `help:"Restrict the crawl to exactly this host"`

	MaxPages    *int           `help:"Maximum URLs to process (0 for no limit)"`
	MaxDepth    *int           `help:"Maximum link depth from the seeds (negative for no limit)"`
	Order       string         `help:"Frontier order: fifo (breadth-first) or lifo (depth-first)"`
	Concurrency *int           `help:"Number of concurrent workers"`
	Delay       *time.Duration `help:"Politeness delay between requests to one host"`

	Render     string         `help:"Render mode: never, always or auto"`
	Engine     string         `help:"Render engine: rod or chromedp"`
	RenderWait *time.Duration `name:"render-wait" help:"Extra wait after page load before capturing the DOM"`

	Out      string `short:"o" help:"Output directory (fs) or database file (sqlite)"`
	Store    string `help:"Storage driver: fs, sqlite or gcs"`
	Bucket   string `help:"GCS bucket (gcs driver)"`
	Prefix   string `help:"GCS object prefix (gcs driver)"`
	Markdown string `help:"Store a Markdown rendition using trafilatura or readability"`
	Tokens   bool   `help:"Count tokens of extracted text"`
}

// config merges the config file and flags onto the defaults and validates
// the result.
func (c *CrawlCmd) config() (sitecrawl.Config, error) {
	cfg := sitecrawl.DefaultConfig()
	if c.Config != "" {
		loaded, err := loadConfigFile(c.Config)
		if err != nil {
			return sitecrawl.Config{}, err
		}
		cfg = loaded
	}

	if len(c.Seeds) > 0 {
		cfg.Site.Seeds = c.Seeds
	}
	if len(c.Allow) > 0 {
		cfg.Site.AllowedDomains = c.Allow
	}
	if c.Root != "" {
		cfg.Site.RootDomain = c.Root
	}
	if c.MaxPages != nil {
		cfg.MaxPages = *c.MaxPages
	}
	if c.MaxDepth != nil {
		cfg.MaxDepth = *c.MaxDepth
	}
	if c.Order != "" {
		cfg.Order = sitecrawl.Order(c.Order)
	}
	if c.Concurrency != nil {
		cfg.Concurrency = *c.Concurrency
	}
	if c.Delay != nil {
		cfg.CrawlDelay = *c.Delay
	}
	if c.Render != "" {
		cfg.RenderMode = sitecrawl.RenderMode(c.Render)
	}
	if c.Engine != "" {
		cfg.RenderEngine = c.Engine
	}
	if c.RenderWait != nil {
		cfg.RenderWait = *c.RenderWait
	}
	if c.Store != "" {
		cfg.Storage.Driver = c.Store
	}
	if c.Out != "" {
		cfg.Storage.Path = c.Out
	}
	if c.Bucket != "" {
		cfg.Storage.Bucket = c.Bucket
	}
	if c.Prefix != "" {
		cfg.Storage.Prefix = c.Prefix
	}
	if c.Markdown != "" {
		cfg.Markdown = c.Markdown
	}

	if len(cfg.Site.AllowedDomains) == 0 && cfg.Site.RootDomain == "" {
		cfg.Site.AllowedDomains = seedHosts(cfg.Site.Seeds)
	}
	if err := cfg.Validate(); err != nil {
		return sitecrawl.Config{}, err
	}
	return cfg, nil
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL      string `arg:"" help:"URL to fetch and extract"`
	Render   string `default:"never" help:"Render mode: never, always or auto"`
	Engine   string `default:"rod" help:"Render engine: rod or chromedp"`
	Markdown string `help:"Include a Markdown rendition using trafilatura or readability"`
	Tokens   bool   `help:"Count tokens of extracted text"`
}

func (c *ExtractCmd) config() (sitecrawl.Config, error) {
	cfg := sitecrawl.DefaultConfig()
	cfg.Site.Seeds = []string{c.URL}
	cfg.Site.AllowedDomains = seedHosts(cfg.Site.Seeds)
	cfg.CrawlDelay = 0
	cfg.RenderMode = sitecrawl.RenderMode(c.Render)
	cfg.RenderEngine = c.Engine
	cfg.Markdown = c.Markdown
	if err := cfg.Validate(); err != nil {
		return sitecrawl.Config{}, err
	}
	return cfg, nil
}

// ProbeCmd is the "probe" subcommand.
type ProbeCmd struct {
	URL    string        `arg:"" help:"URL to probe"`
	Engine string        `default:"rod" help:"Render engine: rod or chromedp"`
	Wait   time.Duration `default:"2s" help:"Extra wait after page load before capturing the DOM"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Path     string `arg:"" optional:"" help:"Artifact path, e.g. crawl_manifest.json"`
	DB       string `required:"" help:"SQLite database written by 'crawl --store sqlite'"`
	Category string `help:"List artifact paths in this category instead"`
}

// loadConfigFile decodes path onto the defaults without validating, since
// flags may still supply required fields such as seeds.
func loadConfigFile(path string) (sitecrawl.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return sitecrawl.Config{}, sitecrawl.Errorf(sitecrawl.EINVALID, "opening config: %v", err)
	}
	defer f.Close()
	return yaml.DecodeConfig(f, sitecrawl.DefaultConfig())
}

// seedHosts returns the distinct hosts of the seeds, without a leading www.
func seedHosts(seeds []string) []string {
	seen := make(map[string]bool)
	var hosts []string
	for _, seed := range seeds {
		u, err := url.Parse(strings.TrimSpace(seed))
		if err != nil || u.Hostname() == "" {
			continue
		}
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		if !seen[host] {
			seen[host] = true
			hosts = append(hosts, host)
		}
	}
	return hosts
}
