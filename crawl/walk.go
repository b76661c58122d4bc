package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/sitecrawl"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// urlResult is the outcome of processing one frontier entry.
type urlResult struct {
	entry    sitecrawl.FrontierEntry
	kind     sitecrawl.ContentKind
	links    []string
	chunks   int
	bytes    int
	tokens   int
	external int
	err      error
}

// session holds the state of one Crawl call.
type session struct {
	site     *sitecrawl.Site
	scope    sitecrawl.Scope
	frontier *Frontier

	mu       sync.Mutex
	external map[string]struct{}
}

// claimExternal reports whether url is the first sighting of an external
// link in this session.
func (s *session) claimExternal(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.external[url]; ok {
		return false
	}
	s.external[url] = struct{}{}
	return true
}

// Crawl crawls the site starting from its seeds and writes the manifest.
//
// Failures of individual URLs are persisted as error records and never stop
// the crawl. When ctx is canceled no new URLs are dispatched; URLs already
// in flight are finished and the manifest is still written. The only error
// returned is a failure to write the manifest.
func (c *Crawler) Crawl(ctx context.Context, site *sitecrawl.Site, progress ProgressFunc) (*Result, error) {
	order := c.Order
	if order == "" {
		order = sitecrawl.OrderFIFO
	}
	s := &session{
		site:  site,
		scope: site.Scope(),
		frontier: NewFrontier(
			WithOrder(order),
			WithMaxDepth(c.MaxDepth),
			WithMaxPages(c.MaxPages),
		),
		external: make(map[string]struct{}),
	}

	result := &Result{}
	manifest := &sitecrawl.Manifest{
		RunID: uuid.NewString(),
		Pages: []sitecrawl.ManifestEntry{},
	}

	// In-flight URLs finish even after ctx is canceled.
	workCtx := context.WithoutCancel(ctx)

	for _, seed := range site.Seeds {
		if _, err := sitecrawl.NormalizeURL(seed, ""); err != nil {
			c.persistError(workCtx, seed, err)
			result.Failed++
			continue
		}
		s.frontier.Push(seed, 0)
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: s.frontier.Len(),
		})
	}

	completed := 0
	handleResult := func(res *urlResult) {
		completed++
		event := ProgressEvent{
			Completed: completed,
			Total:     completed + s.frontier.Len(),
			URL:       res.entry.URL,
		}

		switch {
		case res.err != nil:
			result.Failed++
			event.Type = ProgressFailed
			event.Error = res.err
		case res.kind == sitecrawl.ContentUnsupported:
			result.Unsupported++
			event.Type = ProgressSkipped
		default:
			kind := sitecrawl.KindPage
			if res.kind == sitecrawl.ContentPDF {
				kind = sitecrawl.KindPDF
				result.PDFs++
			} else {
				result.Pages++
			}
			manifest.Pages = append(manifest.Pages, sitecrawl.ManifestEntry{
				URL:        res.entry.URL,
				ID:         sitecrawl.URLID(res.entry.URL),
				Kind:       kind,
				DomainType: site.DomainType(res.entry.URL),
			})
			result.Chunks += res.chunks
			result.Bytes += res.bytes
			result.Tokens += res.tokens
			result.External += res.external

			for _, link := range res.links {
				if s.scope.Contains(link) {
					s.frontier.Push(link, res.entry.Depth+1)
				}
			}
			event.Type = ProgressCompleted
			event.Total = completed + s.frontier.Len()
		}

		if progress != nil {
			progress(event)
		}
	}

	c.walkFrontier(ctx, s.frontier, func(entry sitecrawl.FrontierEntry) urlResult {
		return c.processEntry(workCtx, s, entry)
	}, handleResult)

	manifest.TotalPages = len(manifest.Pages)
	manifest.Failed = result.Failed
	manifest.Unsupported = result.Unsupported
	manifest.GeneratedAt = c.now()
	result.Manifest = manifest

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: completed,
			Total:     completed,
		})
	}

	if err := c.put(workCtx, sitecrawl.ManifestPath, manifest); err != nil {
		return result, err
	}
	return result, nil
}

// walkFrontier dispatches frontier entries to a pool of workers and hands
// their results to handleResult. It is the only goroutine that pops the
// frontier or calls handleResult, so neither needs further locking.
//
// It returns once the frontier is drained and no work is pending, once
// MaxPages entries have been dispatched, or once ctx is canceled and the
// in-flight entries have completed.
func (c *Crawler) walkFrontier(
	ctx context.Context,
	frontier *Frontier,
	process func(sitecrawl.FrontierEntry) urlResult,
	handleResult func(*urlResult),
) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	workCh := make(chan sitecrawl.FrontierEntry)
	resultCh := make(chan urlResult)

	var g errgroup.Group
	for range concurrency {
		g.Go(func() error {
			for entry := range workCh {
				resultCh <- process(entry)
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(resultCh)
	}()

	dispatched := 0 // entries handed to workers
	pending := 0    // entries currently being processed
	var next sitecrawl.FrontierEntry
	hasNext := false
	done := ctx.Done()
	stopped := false

	for {
		if !stopped && ctx.Err() != nil {
			stopped, done = true, nil
		}
		// Pop only when a worker is free, so a single worker observes
		// the links of each page before the next entry is chosen.
		if !stopped && !hasNext && pending < concurrency && (c.MaxPages <= 0 || dispatched < c.MaxPages) {
			next, hasNext = frontier.Pop()
		}
		if !hasNext && pending == 0 {
			break
		}

		var out chan<- sitecrawl.FrontierEntry
		if hasNext {
			out = workCh
		}

		select {
		case <-done:
			stopped, hasNext, done = true, false, nil
		case out <- next:
			dispatched++
			pending++
			hasNext = false
		case res := <-resultCh:
			pending--
			handleResult(&res)
		}
	}

	close(workCh)
	for res := range resultCh {
		handleResult(&res)
	}
}

// processEntry processes and persists one frontier entry. Any failure is
// persisted as an error record and reported in the result.
func (c *Crawler) processEntry(ctx context.Context, s *session, entry sitecrawl.FrontierEntry) urlResult {
	res := urlResult{entry: entry}

	doc, err := c.Process(ctx, entry.URL)
	if err != nil {
		res.err = err
		c.persistError(ctx, entry.URL, err)
		return res
	}
	res.kind = doc.Kind
	res.tokens = doc.Tokens

	switch doc.Kind {
	case sitecrawl.ContentHTML:
		res.external, err = c.persistPage(ctx, s, doc.Page)
		res.links = doc.Page.Links
		res.chunks = len(doc.Page.Chunks)
		res.bytes = len(doc.Page.Text)
	case sitecrawl.ContentPDF:
		err = c.put(ctx, sitecrawl.ArtifactPath(sitecrawl.CategoryPDFs, doc.PDF.URL), doc.PDF)
		res.chunks = len(doc.PDF.Chunks)
		res.bytes = len(doc.PDF.Text)
	}
	if err != nil {
		res.err = err
		res.links = nil
		c.persistError(ctx, entry.URL, err)
	}
	return res
}

// persistPage writes the page's forms, its first-seen external links and
// finally the page itself. It returns the number of external link records
// written.
func (c *Crawler) persistPage(ctx context.Context, s *session, page *sitecrawl.PageRecord) (int, error) {
	if len(page.Forms) > 0 {
		forms := &sitecrawl.FormsRecord{SourceURL: page.URL, Forms: page.Forms}
		if err := c.put(ctx, sitecrawl.ArtifactPath(sitecrawl.CategoryForms, page.URL), forms); err != nil {
			return 0, err
		}
	}

	external := 0
	for _, link := range page.ExternalLinks {
		if !s.claimExternal(link) {
			continue
		}
		rec := &sitecrawl.ExternalLinkRecord{
			URL:          link,
			SourceURL:    page.URL,
			DiscoveredAt: c.now(),
		}
		if err := c.put(ctx, sitecrawl.ArtifactPath(sitecrawl.CategoryExternalLinks, link), rec); err != nil {
			return external, err
		}
		external++
	}

	if err := c.put(ctx, sitecrawl.ArtifactPath(sitecrawl.CategoryPages, page.URL), page); err != nil {
		return external, err
	}
	return external, nil
}

// persistError records err for url under the errors category. A failure to
// write the record is dropped; the URL is already counted as failed.
func (c *Crawler) persistError(ctx context.Context, url string, err error) {
	rec := sitecrawl.NewErrorRecord(url, err, c.now())
	_ = c.put(ctx, sitecrawl.ArtifactPath(sitecrawl.CategoryErrors, url), rec)
}

// put encodes v and writes it to storage, reporting failures as ESTORAGE.
func (c *Crawler) put(ctx context.Context, path string, v any) error {
	data, err := sitecrawl.MarshalArtifact(v)
	if err != nil {
		return err
	}
	if err := c.Storage.Put(ctx, path, data); err != nil {
		return withCode(sitecrawl.ESTORAGE, err)
	}
	return nil
}
