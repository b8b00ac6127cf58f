// Package crossref looks up abstracts by DOI. Crossref abstracts often
// carry JATS markup; stripping it is left to the sanitizer at merge time.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"scholar-summary/config"
	"scholar-summary/models"
)

// Response represents the JSON answer of the Crossref works endpoint.
type Response struct {
	Message struct {
		Abstract string `json:"abstract"`
	} `json:"message"`
}

// Fetcher retrieves abstracts from the Crossref REST API.
type Fetcher struct {
	Config     *config.Config
	Logger     *zap.Logger
	httpClient *http.Client
}

// NewFetcher creates a new Crossref fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config:     cfg,
		Logger:     logger,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout()},
	}
}

// Name returns the provenance label for this source.
func (f *Fetcher) Name() string {
	return "Crossref"
}

// CanFetch reports whether the paper carries a DOI.
func (f *Fetcher) CanFetch(p *models.Paper) bool {
	return p.DOI != ""
}

// FetchContent returns the Crossref abstract for the DOI, or absent.
func (f *Fetcher) FetchContent(ctx context.Context, p *models.Paper) (string, bool) {
	log := f.Logger.With(zap.String("doi", p.DOI))

	reqURL := fmt.Sprintf("%s/works/%s", f.Config.CrossrefBaseURL, p.DOI)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Debug("Crossref request creation failed", zap.Error(err))
		return "", false
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Debug("Crossref request failed", zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debug("Crossref returned non-200 status", zap.Int("status", resp.StatusCode))
		return "", false
	}

	var cr Response
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		log.Debug("Crossref response parsing failed", zap.Error(err))
		return "", false
	}
	if cr.Message.Abstract == "" {
		return "", false
	}
	return cr.Message.Abstract, true
}
