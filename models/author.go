package models

// Author holds the best-available profile of one academic author. The
// aggregate metrics are advisory values reported by the metadata source.
type Author struct {
	OpenAlexID    string `json:"openalex_id"`
	DisplayName   string `json:"display_name"`
	Affiliation   string `json:"affiliation,omitempty"`
	WorksCount    int    `json:"works_count"`
	CitationCount int    `json:"cited_by_count"`
	HIndex        int    `json:"h_index"`
}
