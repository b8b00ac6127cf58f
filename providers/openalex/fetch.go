package openalex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"scholar-summary/config"
	"scholar-summary/httputil"
	"scholar-summary/models"
	"scholar-summary/services"
)

// ErrNotFound signals that the requested author or work does not exist
// upstream. Surfaced to the HTTP layer as a 404, never retried.
var ErrNotFound = errors.New("openalex: not found")

var arxivIDRegex = regexp.MustCompile(`arxiv\.org/abs/(\S+)`)

// Client wraps the OpenAlex API. Rate-limited calls on this primary path
// are retried with backoff, unlike the optional content sources.
type Client struct {
	Config     *config.Config
	Logger     *zap.Logger
	httpClient *http.Client
}

// NewClient creates a new OpenAlex client.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		Config:     cfg,
		Logger:     logger,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout()},
	}
}

// SearchAuthors looks up author candidates by display name, best match
// first. An empty result is not an error.
func (c *Client) SearchAuthors(ctx context.Context, name string) ([]*models.Author, error) {
	params := url.Values{
		"search":   {name},
		"per-page": {"5"},
	}
	var ar authorsResponse
	if err := c.getJSON(ctx, "/authors", params, &ar); err != nil {
		return nil, fmt.Errorf("openalex author search: %w", err)
	}

	authors := make([]*models.Author, 0, len(ar.Results))
	for i := range ar.Results {
		authors = append(authors, mapAuthor(&ar.Results[i]))
	}
	return authors, nil
}

// GetAuthor fetches a single author by OpenAlex ID. Returns ErrNotFound
// when the ID is unknown upstream.
func (c *Client) GetAuthor(ctx context.Context, id string) (*models.Author, error) {
	var rec authorRecord
	if err := c.getJSON(ctx, "/authors/"+shortID(id), nil, &rec); err != nil {
		return nil, err
	}
	return mapAuthor(&rec), nil
}

// ListPapers returns up to maxCount works of the author, most cited first.
func (c *Client) ListPapers(ctx context.Context, authorID string, maxCount int) ([]*models.Paper, error) {
	params := url.Values{
		"filter":   {"authorships.author.id:" + shortID(authorID)},
		"sort":     {"cited_by_count:desc"},
		"per-page": {strconv.Itoa(maxCount)},
	}
	var wr worksResponse
	if err := c.getJSON(ctx, "/works", params, &wr); err != nil {
		return nil, fmt.Errorf("openalex works listing: %w", err)
	}

	papers := make([]*models.Paper, 0, len(wr.Results))
	for i := range wr.Results {
		papers = append(papers, mapWork(&wr.Results[i]))
	}
	return papers, nil
}

// GetPaper fetches a single work by OpenAlex ID. Returns ErrNotFound when
// the ID is unknown upstream.
func (c *Client) GetPaper(ctx context.Context, id string) (*models.Paper, error) {
	var rec workRecord
	if err := c.getJSON(ctx, "/works/"+shortID(id), nil, &rec); err != nil {
		return nil, err
	}
	return mapWork(&rec), nil
}

// SearchPaperByTitle resolves a title to the best-matching work. Returns
// ErrNotFound when the search comes back empty.
func (c *Client) SearchPaperByTitle(ctx context.Context, title string) (*models.Paper, error) {
	params := url.Values{
		"search":   {title},
		"per-page": {"1"},
	}
	var wr worksResponse
	if err := c.getJSON(ctx, "/works", params, &wr); err != nil {
		return nil, fmt.Errorf("openalex title search: %w", err)
	}
	if len(wr.Results) == 0 {
		return nil, ErrNotFound
	}
	return mapWork(&wr.Results[0]), nil
}

// getJSON performs a GET against the OpenAlex API with the mailto courtesy
// parameter and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.Config.MailtoEmail != "" {
		params.Set("mailto", c.Config.MailtoEmail)
	}
	reqURL := c.Config.OpenAlexBaseURL + path + "?" + params.Encode()
	c.Logger.Debug("Calling OpenAlex API", zap.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return fmt.Errorf("openalex request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openalex returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing openalex response: %w", err)
	}
	return nil
}

// mapAuthor converts an API author record into our Author model. The
// affiliation comes from whichever upstream shape is populated; first
// non-empty wins.
func mapAuthor(rec *authorRecord) *models.Author {
	affiliation := rec.LastKnownInstitution.DisplayName
	if affiliation == "" && len(rec.LastKnownInstitutions) > 0 {
		affiliation = rec.LastKnownInstitutions[0].DisplayName
	}
	if affiliation == "" && len(rec.Affiliations) > 0 {
		affiliation = rec.Affiliations[0].Institution.DisplayName
	}

	return &models.Author{
		OpenAlexID:    shortID(rec.ID),
		DisplayName:   rec.DisplayName,
		Affiliation:   affiliation,
		WorksCount:    rec.WorksCount,
		CitationCount: rec.CitedByCount,
		HIndex:        rec.SummaryStats.HIndex,
	}
}

// mapWork converts an API work record into our Paper model.
func mapWork(rec *workRecord) *models.Paper {
	p := &models.Paper{
		OpenAlexID:    shortID(rec.ID),
		Title:         rec.Title,
		Year:          rec.PublicationYear,
		Venue:         rec.PrimaryLocation.Source.DisplayName,
		CitationCount: rec.CitedByCount,
		Abstract:      services.SanitizeText(DecodeInvertedAbstract(rec.AbstractInvertedIndex)),
	}

	p.DOI = strings.TrimPrefix(rec.IDs.DOI, "https://doi.org/")
	if m := arxivIDRegex.FindStringSubmatch(rec.IDs.Arxiv); len(m) > 1 {
		p.ArxivID = m[1]
	}

	// The first authorship is the main author; everyone else is a co-author.
	mainAuthorID := ""
	if len(rec.Authorships) > 0 {
		mainAuthorID = rec.Authorships[0].Author.ID
	}
	for _, as := range rec.Authorships {
		if as.Author.ID == mainAuthorID {
			continue
		}
		ca := models.Coauthor{Name: as.Author.DisplayName}
		if ca.Name == "" {
			ca.Name = "Unknown"
		}
		for _, inst := range as.Institutions {
			if inst.DisplayName != "" {
				ca.Affiliations = append(ca.Affiliations, inst.DisplayName)
			}
		}
		p.Coauthors = append(p.Coauthors, ca)
	}

	return p
}

// DecodeInvertedAbstract reconstructs plain text from the inverted-index
// encoding (word to positions). A malformed index yields the empty string,
// never an error.
func DecodeInvertedAbstract(index map[string][]int) string {
	if len(index) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range index {
		for _, pos := range positions {
			if pos < 0 {
				return ""
			}
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}
	if len(pairs) == 0 {
		return ""
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].pos < pairs[j].pos })

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// shortID strips the https://openalex.org/ prefix so IDs can be used in
// paths and filter expressions.
func shortID(id string) string {
	return strings.TrimPrefix(strings.TrimSuffix(id, "/"), "https://openalex.org/")
}
