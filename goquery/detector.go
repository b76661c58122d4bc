package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitecrawl"
)

// Ensure Detector implements sitecrawl.JSDetector at compile time.
var _ sitecrawl.JSDetector = (*Detector)(nil)

// minShellText is the visible body text length below which a page that
// carries scripts is treated as a client-rendered shell.
const minShellText = 200

// mountSelectors match the root nodes single-page frameworks render into.
var mountSelectors = []string{
	"#root",
	"#app",
	"#__next",
	"#__nuxt",
	"[ng-app]",
	"[data-reactroot]",
}

// Detector identifies pages whose content only appears after JavaScript
// runs. It looks for empty framework mount nodes, noscript notices asking
// for JavaScript and near-empty bodies that load scripts.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// RequiresJS reports whether html looks like a client-rendered shell.
func (d *Detector) RequiresJS(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}

	for _, sel := range mountSelectors {
		mount := doc.Find(sel).First()
		if mount.Length() > 0 && strings.TrimSpace(mount.Text()) == "" {
			return true
		}
	}

	if d.hasJavaScriptNotice(doc) {
		return true
	}

	body := doc.Find("body").Clone()
	scripts := body.Find("script").Length() + doc.Find("head script[src]").Length()
	body.Find("script, style, noscript, template").Remove()
	return scripts > 0 && len(collapseSpace(body.Text())) < minShellText
}

// hasJavaScriptNotice checks for a noscript element asking the reader to
// enable JavaScript.
func (d *Detector) hasJavaScriptNotice(doc *goquery.Document) bool {
	found := false
	doc.Find("noscript").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.ToLower(s.Text())
		if strings.Contains(text, "javascript") && strings.Contains(text, "enable") {
			found = true
			return false
		}
		return true
	})
	return found
}
