// Package yaml loads crawl configuration from YAML files.
package yaml

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fwojciec/sitecrawl"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that decodes from "1.5s"-style strings or
// from a number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!int", "!!float":
		var secs float64
		if err := node.Decode(&secs); err != nil {
			return err
		}
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", node.Line, node.Value)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

type fileSite struct {
	Name           string   `yaml:"name"`
	Seeds          []string `yaml:"seeds"`
	AllowedDomains []string `yaml:"allowed_domains"`
	RootDomain     string   `yaml:"root_domain"`
	PrimaryDomain  string   `yaml:"primary_domain"`
}

type fileStorage struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

type fileConfig struct {
	Site fileSite `yaml:"site"`

	MaxPages    int    `yaml:"max_pages"`
	MaxDepth    int    `yaml:"max_depth"`
	Order       string `yaml:"order"`
	Concurrency int    `yaml:"concurrency"`

	CrawlDelay   Duration `yaml:"crawl_delay"`
	FetchTimeout Duration `yaml:"fetch_timeout"`
	OCRTimeout   Duration `yaml:"ocr_timeout"`
	MaxBodyBytes int64    `yaml:"max_body_bytes"`
	UserAgent    string   `yaml:"user_agent"`

	RenderMode   string   `yaml:"render_mode"`
	RenderEngine string   `yaml:"render_engine"`
	RenderWait   Duration `yaml:"render_wait"`

	ChunkSize           int `yaml:"chunk_size"`
	MinChunkWords       int `yaml:"min_chunk_words"`
	NativeTextMinLength int `yaml:"native_text_min_length"`

	Markdown string `yaml:"markdown"`
	OCRModel string `yaml:"ocr_model"`

	Storage fileStorage `yaml:"storage"`
}

func fromConfig(c sitecrawl.Config) fileConfig {
	return fileConfig{
		Site: fileSite{
			Name:           c.Site.Name,
			Seeds:          c.Site.Seeds,
			AllowedDomains: c.Site.AllowedDomains,
			RootDomain:     c.Site.RootDomain,
			PrimaryDomain:  c.Site.PrimaryDomain,
		},
		MaxPages:            c.MaxPages,
		MaxDepth:            c.MaxDepth,
		Order:               string(c.Order),
		Concurrency:         c.Concurrency,
		CrawlDelay:          Duration(c.CrawlDelay),
		FetchTimeout:        Duration(c.FetchTimeout),
		OCRTimeout:          Duration(c.OCRTimeout),
		MaxBodyBytes:        c.MaxBodyBytes,
		UserAgent:           c.UserAgent,
		RenderMode:          string(c.RenderMode),
		RenderEngine:        c.RenderEngine,
		RenderWait:          Duration(c.RenderWait),
		ChunkSize:           c.ChunkSize,
		MinChunkWords:       c.MinChunkWords,
		NativeTextMinLength: c.NativeTextMinLength,
		Markdown:            c.Markdown,
		OCRModel:            c.OCRModel,
		Storage: fileStorage{
			Driver: c.Storage.Driver,
			Path:   c.Storage.Path,
			Bucket: c.Storage.Bucket,
			Prefix: c.Storage.Prefix,
		},
	}
}

func (f fileConfig) toConfig() sitecrawl.Config {
	return sitecrawl.Config{
		Site: sitecrawl.Site{
			Name:           f.Site.Name,
			Seeds:          f.Site.Seeds,
			AllowedDomains: f.Site.AllowedDomains,
			RootDomain:     f.Site.RootDomain,
			PrimaryDomain:  f.Site.PrimaryDomain,
		},
		MaxPages:            f.MaxPages,
		MaxDepth:            f.MaxDepth,
		Order:               sitecrawl.Order(f.Order),
		Concurrency:         f.Concurrency,
		CrawlDelay:          time.Duration(f.CrawlDelay),
		FetchTimeout:        time.Duration(f.FetchTimeout),
		OCRTimeout:          time.Duration(f.OCRTimeout),
		MaxBodyBytes:        f.MaxBodyBytes,
		UserAgent:           f.UserAgent,
		RenderMode:          sitecrawl.RenderMode(f.RenderMode),
		RenderEngine:        f.RenderEngine,
		RenderWait:          time.Duration(f.RenderWait),
		ChunkSize:           f.ChunkSize,
		MinChunkWords:       f.MinChunkWords,
		NativeTextMinLength: f.NativeTextMinLength,
		Markdown:            f.Markdown,
		OCRModel:            f.OCRModel,
		Storage: sitecrawl.StorageConfig{
			Driver: f.Storage.Driver,
			Path:   f.Storage.Path,
			Bucket: f.Storage.Bucket,
			Prefix: f.Storage.Prefix,
		},
	}
}

// DecodeConfig reads YAML from r on top of base. Keys absent from the
// document keep their base value; unknown keys are rejected.
// The result is not validated.
func DecodeConfig(r io.Reader, base sitecrawl.Config) (sitecrawl.Config, error) {
	f := fromConfig(base)

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return sitecrawl.Config{}, sitecrawl.Errorf(sitecrawl.EINVALID, "decoding config: %v", err)
	}
	return f.toConfig(), nil
}

// LoadConfig reads the YAML file at path on top of sitecrawl.DefaultConfig
// and validates the result.
func LoadConfig(path string) (sitecrawl.Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return sitecrawl.Config{}, sitecrawl.Errorf(sitecrawl.EINVALID, "opening config: %v", err)
	}
	defer file.Close()

	cfg, err := DecodeConfig(file, sitecrawl.DefaultConfig())
	if err != nil {
		return sitecrawl.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return sitecrawl.Config{}, err
	}
	return cfg, nil
}
