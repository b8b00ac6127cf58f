package models

// Coauthor is a co-author as reported by the metadata source.
type Coauthor struct {
	Name         string   `json:"name"`
	Affiliations []string `json:"affiliations,omitempty"`
}

// Paper represents a single publication. The identity fields come from the
// primary metadata record; the content fields are filled in by enrichment.
type Paper struct {
	// At least one of OpenAlexID, DOI or ArxivID must be set for content
	// fetching to be meaningful.
	OpenAlexID string `json:"openalex_id"`
	DOI        string `json:"doi,omitempty"`
	ArxivID    string `json:"arxiv_id,omitempty"`

	Title         string     `json:"title"`
	Year          int        `json:"publication_year,omitempty"`
	Venue         string     `json:"venue,omitempty"`
	CitationCount int        `json:"cited_by_count"`
	Abstract      string     `json:"abstract,omitempty"`
	Coauthors     []Coauthor `json:"coauthors,omitempty"`

	// Set by the enrichment step. MergedContent is the deduplicated join of
	// all surviving content fragments; ContentSources lists the surviving
	// source labels in the same order.
	MergedContent         string   `json:"full_content,omitempty"`
	ContentSources        []string `json:"content_sources,omitempty"`
	HasSubstantiveContent bool     `json:"has_substantive_content"`

	Summary string `json:"summary,omitempty"`
}

// ContentFragment is one piece of text attributed to an upstream source.
// Fragments are ephemeral: only the deduplicated survivors end up folded
// into Paper.MergedContent.
type ContentFragment struct {
	Text   string
	Source string
}
