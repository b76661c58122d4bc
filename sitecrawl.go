// Package sitecrawl provides a web crawling and content extraction pipeline.
// It walks a set of seed URLs within an allowed domain set, extracts clean
// text and structure from HTML pages and text from PDFs (falling back to OCR
// for scanned documents), splits the text into retrieval-sized chunks, and
// persists every result as a JSON artifact alongside a crawl manifest.
//
// This package contains domain types, interfaces and pure domain functions
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/, rod/,
// sqlite/, gemini/). Orchestration lives in crawl/.
package sitecrawl
