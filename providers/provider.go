package providers

import (
	"context"

	"scholar-summary/models"
)

// ContentProvider is the contract every full-text/abstract source (e.g.
// Unpaywall, Semantic Scholar, Crossref, arXiv) must implement.
//
// FetchContent never propagates an error: any failure (network error,
// non-200 response, malformed payload, parse failure, timeout) is logged
// inside the provider and reported as absent (ok == false). Each provider
// owns an HTTP client with a bounded timeout so a hang in one source cannot
// block its siblings.
type ContentProvider interface {
	// Name returns the source label recorded as provenance when content
	// from this provider survives deduplication.
	Name() string

	// CanFetch reports whether the paper carries the identifier this
	// source needs (DOI, arXiv ID or title). Providers that cannot fetch
	// are skipped entirely rather than invoked with empty input.
	CanFetch(p *models.Paper) bool

	// FetchContent returns the text content for the paper, or ok == false
	// when the source has nothing.
	FetchContent(ctx context.Context, p *models.Paper) (string, bool)
}
