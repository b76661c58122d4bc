package yaml_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteYAML = `
site:
  name: library
  seeds:
    - https://library.example.org/
  allowed_domains: [library.example.org]
max_pages: 50
order: lifo
crawl_delay: 1.5s
fetch_timeout: 20
render_mode: auto
render_wait: 0.5
storage:
  driver: sqlite
  path: crawl.db
`

func TestDecodeConfig(t *testing.T) {
	t.Parallel()

	t.Run("overrides defaults with present keys", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.DecodeConfig(strings.NewReader(siteYAML), sitecrawl.DefaultConfig())

		require.NoError(t, err)
		assert.Equal(t, "library", cfg.Site.Name)
		assert.Equal(t, []string{"https://library.example.org/"}, cfg.Site.Seeds)
		assert.Equal(t, []string{"library.example.org"}, cfg.Site.AllowedDomains)
		assert.Equal(t, 50, cfg.MaxPages)
		assert.Equal(t, sitecrawl.OrderLIFO, cfg.Order)
		assert.Equal(t, sitecrawl.RenderAuto, cfg.RenderMode)
		assert.Equal(t, sitecrawl.StorageSQLite, cfg.Storage.Driver)
		assert.Equal(t, "crawl.db", cfg.Storage.Path)
	})

	t.Run("keeps defaults for absent keys", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.DecodeConfig(strings.NewReader(siteYAML), sitecrawl.DefaultConfig())

		require.NoError(t, err)
		assert.Equal(t, sitecrawl.DefaultMaxDepth, cfg.MaxDepth)
		assert.Equal(t, sitecrawl.DefaultChunkSize, cfg.ChunkSize)
		assert.Equal(t, sitecrawl.DefaultOCRTimeout, cfg.OCRTimeout)
		assert.Equal(t, sitecrawl.DefaultUserAgent, cfg.UserAgent)
	})

	t.Run("durations accept strings and seconds", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.DecodeConfig(strings.NewReader(siteYAML), sitecrawl.DefaultConfig())

		require.NoError(t, err)
		assert.Equal(t, 1500*time.Millisecond, cfg.CrawlDelay)
		assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
		assert.Equal(t, 500*time.Millisecond, cfg.RenderWait)
	})

	t.Run("empty document returns base", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.DecodeConfig(strings.NewReader(""), sitecrawl.DefaultConfig())

		require.NoError(t, err)
		assert.Equal(t, sitecrawl.DefaultConfig(), cfg)
	})

	t.Run("unknown key is EINVALID", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.DecodeConfig(strings.NewReader("max_pagez: 3\n"), sitecrawl.DefaultConfig())

		assert.Equal(t, sitecrawl.EINVALID, sitecrawl.ErrorCode(err))
	})

	t.Run("bad duration is EINVALID", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.DecodeConfig(strings.NewReader("crawl_delay: soon\n"), sitecrawl.DefaultConfig())

		assert.Equal(t, sitecrawl.EINVALID, sitecrawl.ErrorCode(err))
	})
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("loads and validates file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "site.yaml")
		require.NoError(t, os.WriteFile(path, []byte(siteYAML), 0o644))

		cfg, err := yaml.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "library", cfg.Site.Name)
	})

	t.Run("invalid config fails validation", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "site.yaml")
		require.NoError(t, os.WriteFile(path, []byte("concurrency: 2\n"), 0o644))

		_, err := yaml.LoadConfig(path)

		assert.Equal(t, sitecrawl.EINVALID, sitecrawl.ErrorCode(err))
	})

	t.Run("missing file is EINVALID", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

		assert.Equal(t, sitecrawl.EINVALID, sitecrawl.ErrorCode(err))
	})
}
