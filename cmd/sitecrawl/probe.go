package main

import (
	"fmt"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
)

// Run executes the probe command. It fetches the page statically and with a
// browser and reports whether rendering changes the main content.
func (c *ProbeCmd) Run(deps *Dependencies) error {
	resp, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}
	static := string(resp.Body)

	rendered, err := deps.Renderer.Render(deps.Ctx, c.URL, c.Wait)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	shell := deps.JSDetector.RequiresJS(static)
	differs := crawl.ContentDiffers(static, rendered, deps.ContentExtractor)

	fmt.Fprintf(deps.Stdout, "URL:             %s\n", c.URL)
	fmt.Fprintf(deps.Stdout, "Static HTML:     %s\n", crawl.FormatBytes(len(static)))
	fmt.Fprintf(deps.Stdout, "Rendered HTML:   %s\n", crawl.FormatBytes(len(rendered)))
	fmt.Fprintf(deps.Stdout, "JS shell:        %s\n", yesNo(shell))
	fmt.Fprintf(deps.Stdout, "JS adds content: %s\n", yesNo(differs))

	switch {
	case differs:
		fmt.Fprintln(deps.Stdout, "Recommendation: --render always")
	case shell:
		fmt.Fprintln(deps.Stdout, "Recommendation: --render auto")
	default:
		fmt.Fprintln(deps.Stdout, "Recommendation: --render never")
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
