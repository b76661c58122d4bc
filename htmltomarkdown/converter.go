package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.Converter = (*Converter)(nil)

// Converter renders main-content HTML as Markdown.
type Converter struct {
	conv   *converter.Converter
	domain string
}

// Option configures a Converter.
type Option func(*Converter)

// WithDomain resolves relative links and images against domain.
func WithDomain(domain string) Option {
	return func(c *Converter) {
		c.domain = domain
	}
}

// NewConverter creates a Converter with CommonMark, table and strikethrough
// support.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
				strikethrough.NewStrikethroughPlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML into trimmed Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", sitecrawl.Errorf(sitecrawl.EINVALID, "empty HTML input")
	}

	var convOpts []converter.ConvertOptionFunc
	if c.domain != "" {
		convOpts = append(convOpts, converter.WithDomain(c.domain))
	}

	md, err := c.conv.ConvertString(html, convOpts...)
	if err != nil {
		return "", sitecrawl.Errorf(sitecrawl.EPARSE, "converting to markdown: %v", err)
	}
	return strings.TrimSpace(md), nil
}
