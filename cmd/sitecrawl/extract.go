package main

import (
	"fmt"

	"github.com/fwojciec/sitecrawl"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	doc, err := deps.Crawler.Process(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	var record any
	switch doc.Kind {
	case sitecrawl.ContentHTML:
		record = doc.Page
	case sitecrawl.ContentPDF:
		record = doc.PDF
	default:
		err := sitecrawl.Errorf(sitecrawl.EINVALID, "unsupported content type at %s", c.URL)
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	data, err := sitecrawl.MarshalArtifact(record)
	if err != nil {
		return err
	}
	if _, err := deps.Stdout.Write(data); err != nil {
		return err
	}
	if c.Tokens {
		fmt.Fprintf(deps.Stderr, "%d tokens\n", doc.Tokens)
	}
	return nil
}
