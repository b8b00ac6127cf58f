package services

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scholar-summary/config"
	"scholar-summary/models"
	"scholar-summary/providers"
)

// stubProvider is a canned ContentProvider for enrichment tests.
type stubProvider struct {
	name    string
	canRun  func(p *models.Paper) bool
	content string
	ok      bool
	calls   int32
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) CanFetch(p *models.Paper) bool { return s.canRun(p) }

func (s *stubProvider) FetchContent(ctx context.Context, p *models.Paper) (string, bool) {
	atomic.AddInt32(&s.calls, 1)
	return s.content, s.ok
}

func newEnricher(provs ...providers.ContentProvider) *EnrichmentService {
	cfg := &config.Config{EnrichBatchSize: 5}
	return NewEnrichmentService(cfg, zap.NewNop(), provs)
}

func TestEnrichMergesFragmentsInPriorityOrder(t *testing.T) {
	hasDOI := func(p *models.Paper) bool { return p.DOI != "" }
	pdfText := strings.Repeat("Full text of the experiment with detailed methodology and results. ", 10)
	unpaywall := &stubProvider{name: "Unpaywall PDF", canRun: hasDOI, content: pdfText, ok: true}
	crossref := &stubProvider{name: "Crossref", canRun: hasDOI, content: "A different short note about replication.", ok: true}

	svc := newEnricher(unpaywall, crossref)
	p := &models.Paper{
		Title:    "An Experiment",
		DOI:      "10.1000/exp",
		Abstract: "We report a brand new experiment on language models and their behavior.",
	}
	svc.Enrich(context.Background(), p)

	require.True(t, p.HasSubstantiveContent)
	assert.Equal(t, []string{"OpenAlex", "Unpaywall PDF", "Crossref"}, p.ContentSources)
	parts := strings.Split(p.MergedContent, FragmentSeparator)
	require.Len(t, parts, 3)
	assert.Contains(t, parts[0], "brand new experiment")
	assert.Contains(t, parts[1], "detailed methodology")
}

func TestEnrichDropsDuplicateFragments(t *testing.T) {
	abstract := "We study the convergence behavior of stochastic optimization under heavy-tailed noise and provide new bounds."
	hasTitle := func(p *models.Paper) bool { return p.Title != "" }
	// Same text as the abstract, so it must not survive deduplication.
	s2 := &stubProvider{name: "Semantic Scholar", canRun: hasTitle, content: abstract, ok: true}

	svc := newEnricher(s2)
	p := &models.Paper{Title: "Convergence", Abstract: abstract}
	svc.Enrich(context.Background(), p)

	assert.Equal(t, []string{"OpenAlex"}, p.ContentSources)
	assert.Equal(t, abstract, p.MergedContent)
}

func TestEnrichSkipsInapplicableProviders(t *testing.T) {
	hasDOI := func(p *models.Paper) bool { return p.DOI != "" }
	hasArxiv := func(p *models.Paper) bool { return p.ArxivID != "" }
	unpaywall := &stubProvider{name: "Unpaywall PDF", canRun: hasDOI, content: "text", ok: true}
	arxiv := &stubProvider{name: "arXiv", canRun: hasArxiv, content: "text", ok: true}

	svc := newEnricher(unpaywall, arxiv)
	p := &models.Paper{Title: "No Identifiers At All"}
	svc.Enrich(context.Background(), p)

	assert.Zero(t, unpaywall.calls)
	assert.Zero(t, arxiv.calls)
	assert.Empty(t, p.MergedContent)
	assert.Empty(t, p.ContentSources)
	assert.False(t, p.HasSubstantiveContent)
}

func TestEnrichAllSharesBoundedConcurrency(t *testing.T) {
	hasTitle := func(p *models.Paper) bool { return p.Title != "" }
	s2 := &stubProvider{name: "Semantic Scholar", canRun: hasTitle, content: "", ok: false}

	svc := newEnricher(s2)
	papers := make([]*models.Paper, 8)
	for i := range papers {
		papers[i] = &models.Paper{Title: "Paper", Abstract: "An abstract that stands alone."}
	}
	svc.EnrichAll(context.Background(), papers)

	for _, p := range papers {
		assert.True(t, p.HasSubstantiveContent)
		assert.Equal(t, []string{"OpenAlex"}, p.ContentSources)
	}
}
