// Package unpaywall resolves open-access PDFs by DOI and extracts their
// text.
package unpaywall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"scholar-summary/config"
	"scholar-summary/models"
	"scholar-summary/pdftext"
)

// Response represents the JSON answer of the Unpaywall API.
type Response struct {
	BestOALocation struct {
		URLForPDF string `json:"url_for_pdf"`
	} `json:"best_oa_location"`
}

// Fetcher retrieves open-access full text via Unpaywall.
type Fetcher struct {
	Config     *config.Config
	Logger     *zap.Logger
	httpClient *http.Client
}

// NewFetcher creates a new Unpaywall fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config:     cfg,
		Logger:     logger,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout()},
	}
}

// Name returns the provenance label for this source.
func (f *Fetcher) Name() string {
	return "Unpaywall PDF"
}

// CanFetch reports whether the paper carries a DOI.
func (f *Fetcher) CanFetch(p *models.Paper) bool {
	return p.DOI != ""
}

// FetchContent resolves the best open-access PDF for the DOI, downloads it
// and extracts its text. Every failure along the way is reported as absent;
// there is no silent fallback to another representation.
func (f *Fetcher) FetchContent(ctx context.Context, p *models.Paper) (string, bool) {
	log := f.Logger.With(zap.String("doi", p.DOI))

	pdfURL, err := f.resolvePDFLink(ctx, p.DOI)
	if err != nil {
		log.Debug("Unpaywall lookup failed", zap.Error(err))
		return "", false
	}
	if pdfURL == "" {
		log.Debug("No open-access PDF link in Unpaywall answer")
		return "", false
	}

	data, err := f.downloadPDF(ctx, pdfURL)
	if err != nil {
		log.Debug("Open-access PDF download failed", zap.String("url", pdfURL), zap.Error(err))
		return "", false
	}

	text, err := pdftext.Extract(data)
	if err != nil {
		log.Debug("PDF text extraction failed", zap.Error(err))
		return "", false
	}
	log.Debug("Extracted full text via Unpaywall", zap.Int("chars", len(text)))
	return text, true
}

// resolvePDFLink asks Unpaywall for the best open-access PDF URL of a DOI.
func (f *Fetcher) resolvePDFLink(ctx context.Context, doi string) (string, error) {
	reqURL := fmt.Sprintf("%s/%s?email=%s", f.Config.UnpaywallBaseURL, doi, f.Config.MailtoEmail)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unpaywall returned status %d", resp.StatusCode)
	}

	var ur Response
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", err
	}
	return ur.BestOALocation.URLForPDF, nil
}

// downloadPDF fetches the raw PDF bytes.
func (f *Fetcher) downloadPDF(ctx context.Context, pdfURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pdf download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
