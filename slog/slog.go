// Package slog decorates sitecrawl collaborators with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with request logging.
type LoggingFetcher struct {
	next   sitecrawl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sitecrawl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL, status and size of the response.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (resp *sitecrawl.Response, err error) {
	defer func(begin time.Time) {
		status, size := 0, 0
		if resp != nil {
			status, size = resp.StatusCode, len(resp.Body)
		}
		f.logger.Debug("fetch",
			"url", url,
			"status", status,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

var _ sitecrawl.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   sitecrawl.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next sitecrawl.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the URL being rendered and delegates to the wrapped renderer.
func (r *LoggingRenderer) Render(ctx context.Context, url string, wait time.Duration) (html string, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("render",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url, wait)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}

var _ sitecrawl.OCR = (*LoggingOCR)(nil)

// LoggingOCR wraps an OCR backend with logging.
type LoggingOCR struct {
	next   sitecrawl.OCR
	logger *slog.Logger
}

// NewLoggingOCR creates a new LoggingOCR.
func NewLoggingOCR(next sitecrawl.OCR, logger *slog.Logger) *LoggingOCR {
	return &LoggingOCR{next: next, logger: logger}
}

// OCRText logs input and output sizes of the transcription.
func (o *LoggingOCR) OCRText(ctx context.Context, data []byte) (text string, err error) {
	defer func(begin time.Time) {
		o.logger.Info("ocr",
			"input_bytes", len(data),
			"chars", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return o.next.OCRText(ctx, data)
}

var _ sitecrawl.Storage = (*LoggingStorage)(nil)

// LoggingStorage wraps a Storage with logging of every write.
type LoggingStorage struct {
	next   sitecrawl.Storage
	logger *slog.Logger
}

// NewLoggingStorage creates a new LoggingStorage.
func NewLoggingStorage(next sitecrawl.Storage, logger *slog.Logger) *LoggingStorage {
	return &LoggingStorage{next: next, logger: logger}
}

// Put logs the artifact path and size.
func (s *LoggingStorage) Put(ctx context.Context, path string, data []byte) (err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "put",
			"path", path,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Put(ctx, path, data)
}
