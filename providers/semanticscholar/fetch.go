// Package semanticscholar looks up abstracts and TLDRs by paper title.
package semanticscholar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"scholar-summary/config"
	"scholar-summary/models"
)

// searchFields limits the response to the content fields we consume.
const searchFields = "abstract,tldr"

// Response represents the JSON answer of the paper search endpoint.
type Response struct {
	Data []struct {
		Abstract string `json:"abstract"`
		TLDR     struct {
			Text string `json:"text"`
		} `json:"tldr"`
	} `json:"data"`
}

// Fetcher retrieves abstracts from the Semantic Scholar Graph API.
type Fetcher struct {
	Config     *config.Config
	Logger     *zap.Logger
	httpClient *http.Client
}

// NewFetcher creates a new Semantic Scholar fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config:     cfg,
		Logger:     logger,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout()},
	}
}

// Name returns the provenance label for this source.
func (f *Fetcher) Name() string {
	return "Semantic Scholar"
}

// CanFetch reports whether the paper has a title to search for.
func (f *Fetcher) CanFetch(p *models.Paper) bool {
	return p.Title != ""
}

// FetchContent searches for the paper by title and returns its abstract,
// falling back to the TLDR when no abstract is on file.
func (f *Fetcher) FetchContent(ctx context.Context, p *models.Paper) (string, bool) {
	log := f.Logger.With(zap.String("title", p.Title))

	params := url.Values{
		"query":  {p.Title},
		"limit":  {"1"},
		"fields": {searchFields},
	}
	reqURL := f.Config.SemanticScholarBaseURL + "/paper/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Debug("Semantic Scholar request creation failed", zap.Error(err))
		return "", false
	}
	if f.Config.SemanticScholarAPIKey != "" {
		req.Header.Set("x-api-key", f.Config.SemanticScholarAPIKey)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Debug("Semantic Scholar request failed", zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debug("Semantic Scholar returned non-200 status", zap.Int("status", resp.StatusCode))
		return "", false
	}

	var sr Response
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		log.Debug("Semantic Scholar response parsing failed", zap.Error(err))
		return "", false
	}
	if len(sr.Data) == 0 {
		return "", false
	}

	if sr.Data[0].Abstract != "" {
		return sr.Data[0].Abstract, true
	}
	if sr.Data[0].TLDR.Text != "" {
		log.Debug("No abstract on file, using TLDR")
		return sr.Data[0].TLDR.Text, true
	}
	return "", false
}
