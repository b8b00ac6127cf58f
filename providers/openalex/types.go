// Package openalex implements the client for the primary bibliographic
// metadata source (author search, work listing, single-work lookup).
package openalex

// authorsResponse represents the JSON answer of the /authors endpoints.
type authorsResponse struct {
	Results []authorRecord `json:"results"`
}

type authorRecord struct {
	ID                    string              `json:"id"`
	DisplayName           string              `json:"display_name"`
	WorksCount            int                 `json:"works_count"`
	CitedByCount          int                 `json:"cited_by_count"`
	SummaryStats          summaryStats        `json:"summary_stats"`
	LastKnownInstitution  institutionRecord   `json:"last_known_institution"`
	LastKnownInstitutions []institutionRecord `json:"last_known_institutions"`
	Affiliations          []affiliationRecord `json:"affiliations"`
}

type summaryStats struct {
	HIndex int `json:"h_index"`
}

type institutionRecord struct {
	DisplayName string `json:"display_name"`
}

type affiliationRecord struct {
	Institution institutionRecord `json:"institution"`
}

// worksResponse represents the JSON answer of the /works list endpoint.
type worksResponse struct {
	Results []workRecord `json:"results"`
}

type workRecord struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	PublicationYear       int              `json:"publication_year"`
	CitedByCount          int              `json:"cited_by_count"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	IDs                   workIDs          `json:"ids"`
	PrimaryLocation       primaryLocation  `json:"primary_location"`
	Authorships           []authorship     `json:"authorships"`
}

type workIDs struct {
	DOI   string `json:"doi"`
	Arxiv string `json:"arxiv"`
}

type primaryLocation struct {
	Source institutionRecord `json:"source"`
}

type authorship struct {
	Author       authorRef           `json:"author"`
	Institutions []institutionRecord `json:"institutions"`
}

type authorRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
