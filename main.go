package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"scholar-summary/config"
	"scholar-summary/llm"
	"scholar-summary/models"
	"scholar-summary/providers"
	"scholar-summary/providers/arxiv"
	"scholar-summary/providers/crossref"
	"scholar-summary/providers/openalex"
	"scholar-summary/providers/semanticscholar"
	"scholar-summary/providers/unpaywall"
	"scholar-summary/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	cacheHitsCounter   *prometheus.CounterVec
	cacheMissesCounter *prometheus.CounterVec
	summariesCounter   *prometheus.CounterVec
)

func init() {
	cacheHitsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_cache_hits_total",
			Help: "Total number of summaries served from the cache.",
		},
		[]string{"kind"},
	)
	cacheMissesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_cache_misses_total",
			Help: "Total number of cache misses that triggered generation.",
		},
		[]string{"kind"},
	)
	summariesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_generated_total",
			Help: "Total number of summaries generated, by kind and mode.",
		},
		[]string{"kind", "mode"},
	)
	prometheus.MustRegister(cacheHitsCounter, cacheMissesCounter, summariesCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

// app bundles the collaborators the route handlers need.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	alex       *openalex.Client
	enricher   *services.EnrichmentService
	summarizer *services.SummarizerService
	cache      *services.CacheService
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to summary cache database.")

	logging.Info("Running database auto-migration...")
	if err := db.AutoMigrate(&models.CacheRecord{}); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	// Content sources in fixed priority order. The abstract from the
	// primary metadata record always outranks all of them.
	contentProviders := []providers.ContentProvider{
		unpaywall.NewFetcher(cfg, logging),
		semanticscholar.NewFetcher(cfg, logging),
		crossref.NewFetcher(cfg, logging),
		arxiv.NewFetcher(cfg, logging),
	}

	groq := llm.NewClient(cfg, logging)
	if !groq.Enabled() {
		logging.Warn("GROQ_API_KEY not set. LLM summarization is disabled, fallbacks will be used.")
	}

	a := &app{
		cfg:        cfg,
		log:        logging,
		alex:       openalex.NewClient(cfg, logging),
		enricher:   services.NewEnrichmentService(cfg, logging, contentProviders),
		summarizer: services.NewSummarizerService(logging, groq),
		cache:      services.NewCacheService(db, cfg.CacheMaxAge(), logging),
	}

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	setupAuthorRoutes(router, a)
	setupPaperRoutes(router, a)

	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.PurgeCronSchedule, func() {
		logging.Info("Running scheduled cache purge...")
		deleted, err := a.cache.PurgeStale()
		if err != nil {
			logging.Error("Cache purge job failed", zap.Error(err))
		} else {
			logging.Info("Cache purge job completed", zap.Int64("deleted", deleted))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// paperSample is the bounded per-paper view embedded in author responses.
type paperSample struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Year           int      `json:"year,omitempty"`
	CitationCount  int      `json:"cited_by_count"`
	ContentSources []string `json:"content_sources,omitempty"`
}

type authorSummaryResponse struct {
	Author              *models.Author            `json:"author"`
	Summary             string                    `json:"summary"`
	SummaryMode         string                    `json:"summary_mode"`
	PapersAnalyzedCount int                       `json:"papers_analyzed_count"`
	PapersSample        []paperSample             `json:"papers_sample"`
	PublicationStats    services.PublicationStats `json:"publication_stats"`
	Source              string                    `json:"source"`
}

type paperSummaryResponse struct {
	Paper       *models.Paper `json:"paper"`
	Summary     string        `json:"summary"`
	SummaryMode string        `json:"summary_mode"`
	Source      string        `json:"source"`
}

func setupAuthorRoutes(router *gin.Engine, a *app) {
	rg := router.Group("/authors")

	rg.GET("/summary/by-name", func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'name' is required"})
			return
		}

		authors, err := a.alex.SearchAuthors(c.Request.Context(), name)
		if err != nil {
			a.log.Error("Author search failed", zap.String("name", name), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "upstream author search failed"})
			return
		}
		if len(authors) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no author found for name"})
			return
		}

		a.handleAuthorSummary(c, authors[0].OpenAlexID)
	})

	rg.GET("/summary/:id", func(c *gin.Context) {
		a.handleAuthorSummary(c, c.Param("id"))
	})
}

func (a *app) handleAuthorSummary(c *gin.Context, authorID string) {
	ctx := c.Request.Context()
	cacheKey := "author:" + authorID

	if a.serveFromCache(c, cacheKey, "author") {
		return
	}

	author, err := a.alex.GetAuthor(ctx, authorID)
	if err != nil {
		if errors.Is(err, openalex.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "author not found"})
			return
		}
		a.log.Error("Author lookup failed", zap.String("author_id", authorID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream author lookup failed"})
		return
	}

	papers, err := a.alex.ListPapers(ctx, author.OpenAlexID, a.cfg.MaxPapersPerAuthor)
	if err != nil {
		a.log.Error("Works listing failed", zap.String("author_id", authorID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream works listing failed"})
		return
	}

	a.enricher.EnrichAll(ctx, papers)
	summary, mode := a.summarizer.SummarizeAuthor(ctx, author, papers)
	summariesCounter.WithLabelValues("author", mode).Inc()

	sample := make([]paperSample, 0, 10)
	for _, p := range papers {
		if len(sample) == 10 {
			break
		}
		sample = append(sample, paperSample{
			ID:             p.OpenAlexID,
			Title:          p.Title,
			Year:           p.Year,
			CitationCount:  p.CitationCount,
			ContentSources: p.ContentSources,
		})
	}

	resp := authorSummaryResponse{
		Author:              author,
		Summary:             summary,
		SummaryMode:         mode,
		PapersAnalyzedCount: len(papers),
		PapersSample:        sample,
		PublicationStats:    services.ComputePublicationStats(papers),
		Source:              "generated",
	}
	c.JSON(http.StatusOK, resp)

	a.writeCacheAsync(cacheKey, summary, resp)
}

func setupPaperRoutes(router *gin.Engine, a *app) {
	rg := router.Group("/papers")

	rg.GET("/summary/by-title", func(c *gin.Context) {
		title := c.Query("title")
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'title' is required"})
			return
		}

		paper, err := a.alex.SearchPaperByTitle(c.Request.Context(), title)
		if err != nil {
			if errors.Is(err, openalex.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no paper found for title"})
				return
			}
			a.log.Error("Paper title search failed", zap.String("title", title), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "upstream paper search failed"})
			return
		}

		cacheKey := "paper:" + paper.OpenAlexID
		if a.serveFromCache(c, cacheKey, "paper") {
			return
		}
		a.renderPaperSummary(c, cacheKey, paper)
	})

	rg.GET("/summary/:id", func(c *gin.Context) {
		paperID := c.Param("id")
		cacheKey := "paper:" + paperID

		if a.serveFromCache(c, cacheKey, "paper") {
			return
		}

		paper, err := a.alex.GetPaper(c.Request.Context(), paperID)
		if err != nil {
			if errors.Is(err, openalex.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "paper not found"})
				return
			}
			a.log.Error("Paper lookup failed", zap.String("paper_id", paperID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "upstream paper lookup failed"})
			return
		}

		a.renderPaperSummary(c, cacheKey, paper)
	})
}

func (a *app) renderPaperSummary(c *gin.Context, cacheKey string, paper *models.Paper) {
	ctx := c.Request.Context()

	a.enricher.Enrich(ctx, paper)
	summary, mode := a.summarizer.SummarizePaper(ctx, paper)
	paper.Summary = summary
	summariesCounter.WithLabelValues("paper", mode).Inc()

	resp := paperSummaryResponse{
		Paper:       paper,
		Summary:     summary,
		SummaryMode: mode,
		Source:      "generated",
	}
	c.JSON(http.StatusOK, resp)

	a.writeCacheAsync(cacheKey, summary, resp)
}

// serveFromCache answers the request from a complete, fresh cache record.
// Returns false on any kind of miss so the caller regenerates.
func (a *app) serveFromCache(c *gin.Context, cacheKey, kind string) bool {
	rec, ok := a.cache.Get(cacheKey)
	if !ok {
		cacheMissesCounter.WithLabelValues(kind).Inc()
		return false
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Payload, &body); err != nil {
		a.log.Warn("Corrupt cache payload, regenerating", zap.String("key", cacheKey), zap.Error(err))
		cacheMissesCounter.WithLabelValues(kind).Inc()
		return false
	}
	body["source"] = "cache"

	cacheHitsCounter.WithLabelValues(kind).Inc()
	c.JSON(http.StatusOK, body)
	return true
}

// writeCacheAsync persists a freshly generated response without blocking
// the request. Write failures are logged inside the cache service.
func (a *app) writeCacheAsync(cacheKey, summary string, resp any) {
	payload, err := json.Marshal(resp)
	if err != nil {
		a.log.Error("Cache payload marshalling failed", zap.String("key", cacheKey), zap.Error(err))
		return
	}
	go func() {
		a.cache.Put(cacheKey, summary, payload)
	}()
}
