package sitecrawl

import "context"

// Artifact categories. Every artifact lives at {category}/{id}.json.
const (
	CategoryPages         = "pages"
	CategoryPDFs          = "pdfs"
	CategoryForms         = "forms"
	CategoryExternalLinks = "external_links"
	CategoryErrors        = "errors"
)

// ManifestPath is the location of the single per-crawl manifest.
const ManifestPath = "crawl_manifest.json"

// ArtifactPath returns the storage path of the artifact for canonicalURL.
// The same URL always maps to the same path, so re-crawls overwrite.
func ArtifactPath(category, canonicalURL string) string {
	return category + "/" + URLID(canonicalURL) + ".json"
}

// Storage persists JSON artifacts.
type Storage interface {
	// Put writes data at path, replacing any existing artifact.
	// Failures are reported as ESTORAGE.
	Put(ctx context.Context, path string, data []byte) error
}
