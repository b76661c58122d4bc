package sitecrawl

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// urlIDLength is the number of hex characters kept from the SHA-256 digest.
const urlIDLength = 20

// NormalizeURL resolves raw against base and returns the canonical form used
// for deduplication and artifact addressing. base may be empty when raw is
// already absolute.
//
// Canonicalization strips the fragment, lower-cases scheme and host, drops
// default ports, turns an empty path into "/" and strips trailing slashes
// from any non-root path. Applying NormalizeURL to its own output returns
// the same string.
func NormalizeURL(raw, base string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", raw, err)
	}

	// Resolving against an empty base still removes dot segments.
	u := (&url.URL{}).ResolveReference(ref)
	if base != "" {
		b, err := url.Parse(strings.TrimSpace(base))
		if err != nil {
			return "", Errorf(EINVALID, "invalid base URL %q: %v", base, err)
		}
		u = b.ResolveReference(ref)
	}

	if u.Scheme == "" || u.Host == "" || u.Opaque != "" {
		return "", Errorf(EINVALID, "URL %q is not absolute", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = canonicalHost(u.Scheme, u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		path = "/"
	}
	if path != u.Path {
		u.Path = path
		u.RawPath = ""
	}

	return u.String(), nil
}

// canonicalHost lower-cases host and removes the scheme's default port.
func canonicalHost(scheme, host string) string {
	host = strings.ToLower(host)
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		return strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		return strings.TrimSuffix(host, ":443")
	}
	return host
}

// IsAllowed reports whether rawURL uses http or https and its host equals,
// or is a subdomain of, one of allowedDomains.
func IsAllowed(rawURL string, allowedDomains []string) bool {
	host, ok := webHost(rawURL)
	if !ok {
		return false
	}
	for _, d := range allowedDomains {
		d = strings.Trim(strings.ToLower(strings.TrimSpace(d)), ".")
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// IsInternal reports whether rawURL uses http or https and its host exactly
// matches rootDomain. rootDomain may be a bare host or a URL.
func IsInternal(rawURL, rootDomain string) bool {
	host, ok := webHost(rawURL)
	if !ok {
		return false
	}
	root := strings.ToLower(strings.TrimSpace(rootDomain))
	if strings.Contains(root, "://") {
		u, err := url.Parse(root)
		if err != nil {
			return false
		}
		root = u.Hostname()
	}
	return root != "" && host == root
}

// webHost returns the lower-cased hostname (no port) of an http(s) URL.
func webHost(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	return host, host != ""
}

// Scope decides which discovered URLs belong to the crawl.
// A set RootDomain restricts the crawl to that single host; otherwise any
// host under AllowedDomains is in scope.
type Scope struct {
	AllowedDomains []string
	RootDomain     string
}

// Contains reports whether rawURL is inside the scope.
func (s Scope) Contains(rawURL string) bool {
	if s.RootDomain != "" {
		return IsInternal(rawURL, s.RootDomain)
	}
	return IsAllowed(rawURL, s.AllowedDomains)
}

// URLID returns the stable artifact identifier for a canonical URL:
// the first 20 hex characters of its SHA-256 digest.
func URLID(canonicalURL string) string {
	sum := sha256.Sum256([]byte(canonicalURL))
	return hex.EncodeToString(sum[:])[:urlIDLength]
}
