package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/sqlite"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	if c.Path == "" && c.Category == "" {
		err := sitecrawl.Errorf(sitecrawl.EINVALID, "artifact path or --category required")
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	db := sqlite.NewDB(c.DB)
	if err := db.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer db.Close()
	store := sqlite.NewStore(db)

	if c.Category != "" {
		artifacts, err := store.List(deps.Ctx, sqlite.ArtifactFilter{Category: &c.Category})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
			return err
		}
		for _, a := range artifacts {
			fmt.Fprintf(deps.Stdout, "%s\t%s\t%s\n", a.Path, crawl.FormatBytes(len(a.Body)), a.UpdatedAt.Format(time.RFC3339))
		}
		return nil
	}

	a, err := store.Get(deps.Ctx, c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}
	_, err = deps.Stdout.Write(a.Body)
	return err
}
