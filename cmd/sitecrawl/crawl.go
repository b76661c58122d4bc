package main

import (
	"fmt"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
)

// Run executes the crawl command. Failed pages are reported but do not fail
// the command; only a manifest write failure does.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Crawling %d seed URLs\n", event.Total)
		case crawl.ProgressCompleted:
			deps.Logger.Info("crawled", "url", event.URL, "done", event.Completed, "queued", event.Total-event.Completed)
		case crawl.ProgressSkipped:
			deps.Logger.Debug("unsupported content", "url", event.URL)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", crawl.TruncateURL(event.URL, 80), sitecrawl.ErrorMessage(event.Error))
		}
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, deps.Site, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, crawl.FormatSummary(result))
	fmt.Fprintf(deps.Stdout, "Manifest: %s\n", deps.ManifestLocation)
	if err := deps.Ctx.Err(); err != nil {
		fmt.Fprintln(deps.Stderr, "crawl interrupted; manifest covers pages finished so far")
	}
	return nil
}
