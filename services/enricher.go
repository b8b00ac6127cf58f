package services

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"scholar-summary/config"
	"scholar-summary/models"
	"scholar-summary/providers"
)

// FragmentSeparator joins surviving content fragments into merged content.
const FragmentSeparator = "\n\n---\n\n"

// EnrichmentService gathers content for papers from every applicable
// source, deduplicates it and folds the survivors into the paper.
type EnrichmentService struct {
	Config    *config.Config
	Logger    *zap.Logger
	Providers []providers.ContentProvider
}

// NewEnrichmentService creates an enrichment service. The provider order
// fixes fragment priority: earlier providers win ties during
// deduplication.
func NewEnrichmentService(cfg *config.Config, logger *zap.Logger, provs []providers.ContentProvider) *EnrichmentService {
	return &EnrichmentService{
		Config:    cfg,
		Logger:    logger,
		Providers: provs,
	}
}

// Enrich fetches content for one paper from all applicable providers
// concurrently, deduplicates the fragments and sets the merged content
// fields. The primary abstract always ranks first; provider results keep
// their configured priority order regardless of arrival order.
func (s *EnrichmentService) Enrich(ctx context.Context, p *models.Paper) {
	// Slot 0 is reserved for the abstract already on the record.
	results := make([]models.ContentFragment, len(s.Providers)+1)
	if strings.TrimSpace(p.Abstract) != "" {
		results[0] = models.ContentFragment{Text: p.Abstract, Source: "OpenAlex"}
	}

	var wg sync.WaitGroup
	for i, prov := range s.Providers {
		if !prov.CanFetch(p) {
			continue
		}
		wg.Add(1)
		go func(slot int, prov providers.ContentProvider) {
			defer wg.Done()
			if text, ok := prov.FetchContent(ctx, p); ok {
				results[slot] = models.ContentFragment{Text: text, Source: prov.Name()}
			}
		}(i+1, prov)
	}
	wg.Wait()

	var fragments []models.ContentFragment
	for _, frag := range results {
		if frag.Text != "" {
			fragments = append(fragments, frag)
		}
	}

	unique := DeduplicateContent(fragments)

	parts := make([]string, 0, len(unique))
	sources := make([]string, 0, len(unique))
	for _, frag := range unique {
		parts = append(parts, SanitizeText(frag.Text))
		sources = append(sources, frag.Source)
	}

	p.MergedContent = strings.Join(parts, FragmentSeparator)
	p.ContentSources = sources
	p.HasSubstantiveContent = len(unique) > 0

	s.Logger.Debug("Enriched paper",
		zap.String("title", p.Title),
		zap.Int("fragments", len(fragments)),
		zap.Int("unique", len(unique)),
		zap.Strings("sources", sources))
}

// EnrichAll enriches a batch of papers with bounded concurrency.
func (s *EnrichmentService) EnrichAll(ctx context.Context, papers []*models.Paper) {
	sem := make(chan struct{}, s.Config.EnrichBatchSize)
	var wg sync.WaitGroup
	for _, p := range papers {
		wg.Add(1)
		sem <- struct{}{}
		go func(p *models.Paper) {
			defer wg.Done()
			defer func() { <-sem }()
			s.Enrich(ctx, p)
		}(p)
	}
	wg.Wait()
}
