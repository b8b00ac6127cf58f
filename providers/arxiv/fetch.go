package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"scholar-summary/config"
	"scholar-summary/models"
	"scholar-summary/pdftext"
)

// Fetcher retrieves preprint content from arXiv.
type Fetcher struct {
	Config     *config.Config
	Logger     *zap.Logger
	httpClient *http.Client
}

// NewFetcher creates a new arXiv fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config:     cfg,
		Logger:     logger,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout()},
	}
}

// Name returns the provenance label for this source.
func (f *Fetcher) Name() string {
	return "arXiv"
}

// CanFetch reports whether the paper carries an arXiv identifier.
func (f *Fetcher) CanFetch(p *models.Paper) bool {
	return p.ArxivID != ""
}

// FetchContent tries the PDF first; when download or extraction fails it
// falls back to the abstract from the Atom export API.
func (f *Fetcher) FetchContent(ctx context.Context, p *models.Paper) (string, bool) {
	log := f.Logger.With(zap.String("arxiv_id", p.ArxivID))

	if text, err := f.fetchPDFText(ctx, p.ArxivID); err == nil {
		log.Debug("Extracted arXiv full text from PDF", zap.Int("chars", len(text)))
		return text, true
	} else {
		log.Debug("arXiv PDF path failed, trying Atom abstract", zap.Error(err))
	}

	summary, err := f.fetchAtomSummary(ctx, p.ArxivID)
	if err != nil {
		log.Debug("arXiv Atom fallback failed", zap.Error(err))
		return "", false
	}
	return summary, true
}

// fetchPDFText downloads the preprint PDF and extracts its text.
func (f *Fetcher) fetchPDFText(ctx context.Context, arxivID string) (string, error) {
	reqURL := fmt.Sprintf("%s/%s.pdf", f.Config.ArxivPDFBaseURL, arxivID)
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
		return "", fmt.Errorf("arxiv pdf returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return pdftext.Extract(data)
}

// fetchAtomSummary queries the export API for the entry's summary text.
func (f *Fetcher) fetchAtomSummary(ctx context.Context, arxivID string) (string, error) {
	reqURL := fmt.Sprintf("%s/query?id_list=%s", f.Config.ArxivAPIBaseURL, arxivID)
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
		return "", fmt.Errorf("arxiv export api returned status %d", resp.StatusCode)
	}

	var feed Feed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return "", err
	}
	if len(feed.Entries) == 0 {
		return "", fmt.Errorf("no entry in arxiv feed")
	}

	summary := strings.TrimSpace(feed.Entries[0].Summary)
	if summary == "" {
		return "", fmt.Errorf("empty summary in arxiv feed")
	}
	return summary, nil
}
