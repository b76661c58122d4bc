package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/chromedp"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/fs"
	"github.com/fwojciec/sitecrawl/gcs"
	"github.com/fwojciec/sitecrawl/gemini"
	"github.com/fwojciec/sitecrawl/goquery"
	"github.com/fwojciec/sitecrawl/htmltomarkdown"
	sitehttp "github.com/fwojciec/sitecrawl/http"
	"github.com/fwojciec/sitecrawl/pdf"
	"github.com/fwojciec/sitecrawl/readability"
	"github.com/fwojciec/sitecrawl/rod"
	crawlslog "github.com/fwojciec/sitecrawl/slog"
	"github.com/fwojciec/sitecrawl/sqlite"
	"github.com/fwojciec/sitecrawl/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv looks up environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	// Collaborators for end-to-end testing. Nil fields are built from the
	// configuration.
	Fetcher  sitecrawl.Fetcher
	Renderer sitecrawl.Renderer
	Storage  sitecrawl.Storage
	OCR      sitecrawl.OCR

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Close releases resources opened while wiring commands.
func (m *Main) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	return first
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitecrawl"),
		kong.Description("Crawl websites into structured, chunked JSON artifacts"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitecrawl --help' to see available commands")
	}
	if len(args) == 1 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	deps.Logger = newLogger(stderr, cli.Verbose)

	switch strings.Fields(kongCtx.Command())[0] {
	case "crawl":
		cfg, err := cli.Crawl.config()
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
			return err
		}
		c, err := m.newCrawler(ctx, cfg, deps.Logger, cli.Crawl.Tokens)
		if err != nil {
			return err
		}
		if c.Storage, err = m.openStorage(ctx, cfg.Storage, deps.Logger); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
			return err
		}
		deps.Crawler = c
		deps.Site = &cfg.Site
		deps.ManifestLocation = manifestLocation(cfg.Storage)

	case "extract":
		cfg, err := cli.Extract.config()
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
			return err
		}
		if deps.Crawler, err = m.newCrawler(ctx, cfg, deps.Logger, cli.Extract.Tokens); err != nil {
			return err
		}

	case "probe":
		deps.Fetcher = m.newFetcher(sitecrawl.DefaultConfig(), deps.Logger)
		if deps.Renderer, err = m.newRenderer(cli.Probe.Engine, sitecrawl.DefaultFetchTimeout, deps.Logger); err != nil {
			return err
		}
		deps.ContentExtractor = trafilatura.NewExtractor()
		deps.JSDetector = goquery.NewDetector()
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	return slog.New(handler)
}

// newCrawler wires every collaborator except Storage from cfg.
func (m *Main) newCrawler(ctx context.Context, cfg sitecrawl.Config, logger *slog.Logger, countTokens bool) (*crawl.Crawler, error) {
	c := &crawl.Crawler{
		Fetcher:       m.newFetcher(cfg, logger),
		JSDetector:    goquery.NewDetector(),
		HTML:          goquery.NewExtractor(cfg.Site.Scope()),
		RateLimiter:   crawl.NewDelayLimiter(cfg.CrawlDelay),
		Concurrency:   cfg.Concurrency,
		MaxPages:      cfg.MaxPages,
		MaxDepth:      cfg.MaxDepth,
		Order:         cfg.Order,
		FetchTimeout:  cfg.FetchTimeout,
		RenderMode:    cfg.RenderMode,
		RenderWait:    cfg.RenderWait,
		ChunkSize:     cfg.ChunkSize,
		MinChunkWords: cfg.MinChunkWords,
		Logger:        logger,
	}

	pdfExtractor := &crawl.PDFExtractor{
		Parser:          pdf.NewParser(),
		MinNativeLength: cfg.NativeTextMinLength,
		OCRTimeout:      cfg.OCRTimeout,
	}
	ocr, err := m.newOCR(ctx, cfg.OCRModel, logger)
	if err != nil {
		return nil, err
	}
	if ocr != nil {
		pdfExtractor.OCR = ocr
	}
	c.PDF = pdfExtractor

	if cfg.RenderMode != sitecrawl.RenderNever {
		if c.Renderer, err = m.newRenderer(cfg.RenderEngine, cfg.FetchTimeout, logger); err != nil {
			return nil, err
		}
	}

	switch cfg.Markdown {
	case sitecrawl.MarkdownTrafilatura:
		c.MainContent = trafilatura.NewExtractor()
		c.Converter = htmltomarkdown.NewConverter()
	case sitecrawl.MarkdownReadability:
		c.MainContent = readability.NewExtractor()
		c.Converter = htmltomarkdown.NewConverter()
	}

	if countTokens {
		tc, err := gemini.NewTokenCounter(cfg.OCRModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create token counter: %w", err)
		}
		c.TokenCounter = tc
	}
	return c, nil
}

func (m *Main) newFetcher(cfg sitecrawl.Config, logger *slog.Logger) sitecrawl.Fetcher {
	f := m.Fetcher
	if f == nil {
		f = sitehttp.NewFetcher(
			sitehttp.WithTimeout(cfg.FetchTimeout),
			sitehttp.WithUserAgent(cfg.UserAgent),
			sitehttp.WithMaxBodyBytes(cfg.MaxBodyBytes),
		)
	}
	return crawlslog.NewLoggingFetcher(f, logger)
}

func (m *Main) newRenderer(engine string, timeout time.Duration, logger *slog.Logger) (sitecrawl.Renderer, error) {
	r := m.Renderer
	if r == nil {
		switch engine {
		case sitecrawl.EngineChromedp:
			r = chromedp.NewRenderer(chromedp.WithTimeout(timeout))
		default:
			rr, err := rod.NewRenderer()
			if err != nil {
				return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
			}
			r = rr
		}
		m.closers = append(m.closers, r.Close)
	}
	return crawlslog.NewLoggingRenderer(r, logger), nil
}

// newOCR returns nil when no OCR backend is available, so PDFs without a
// usable text layer fail with EOCR instead of calling out.
func (m *Main) newOCR(ctx context.Context, model string, logger *slog.Logger) (sitecrawl.OCR, error) {
	if m.OCR != nil {
		return crawlslog.NewLoggingOCR(m.OCR, logger), nil
	}

	apiKey := m.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Debug("GEMINI_API_KEY not set, OCR disabled")
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return crawlslog.NewLoggingOCR(gemini.NewOCR(client, model), logger), nil
}

func (m *Main) openStorage(ctx context.Context, cfg sitecrawl.StorageConfig, logger *slog.Logger) (sitecrawl.Storage, error) {
	s := m.Storage
	if s == nil {
		switch cfg.Driver {
		case sitecrawl.StorageSQLite:
			db := sqlite.NewDB(cfg.Path)
			if err := db.Open(); err != nil {
				return nil, sitecrawl.Errorf(sitecrawl.ESTORAGE, "opening database %q: %v", cfg.Path, err)
			}
			m.closers = append(m.closers, db.Close)
			s = sqlite.NewStore(db)
		case sitecrawl.StorageGCS:
			client, err := gcstorage.NewClient(ctx)
			if err != nil {
				return nil, sitecrawl.Errorf(sitecrawl.ESTORAGE, "connecting to GCS: %v", err)
			}
			m.closers = append(m.closers, client.Close)
			s = gcs.NewStore(client, cfg.Bucket, cfg.Prefix)
		default:
			s = fs.NewStore(cfg.Path)
		}
	}
	return crawlslog.NewLoggingStorage(s, logger), nil
}

func manifestLocation(cfg sitecrawl.StorageConfig) string {
	switch cfg.Driver {
	case sitecrawl.StorageSQLite:
		return cfg.Path + ":" + sitecrawl.ManifestPath
	case sitecrawl.StorageGCS:
		u := url.URL{Scheme: "gs", Host: cfg.Bucket, Path: "/" + strings.Trim(cfg.Prefix+"/"+sitecrawl.ManifestPath, "/")}
		return u.String()
	default:
		return filepath.Join(cfg.Path, sitecrawl.ManifestPath)
	}
}
