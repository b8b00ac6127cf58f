package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable read from environment variables.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"8085"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// MailtoEmail is sent as the mailto parameter to OpenAlex for polite
	// pool access and reused for Unpaywall and Crossref, which expect the
	// same courtesy.
	OpenAlexBaseURL string `envconfig:"OPENALEX_BASE_URL" default:"https://api.openalex.org"`
	MailtoEmail     string `envconfig:"MAILTO_EMAIL" default:"hello@example.com"`

	SemanticScholarBaseURL string `envconfig:"SEMANTIC_SCHOLAR_BASE_URL" default:"https://api.semanticscholar.org/graph/v1"`
	SemanticScholarAPIKey  string `envconfig:"SEMANTIC_SCHOLAR_API_KEY"`

	UnpaywallBaseURL string `envconfig:"UNPAYWALL_BASE_URL" default:"https://api.unpaywall.org/v2"`
	CrossrefBaseURL  string `envconfig:"CROSSREF_BASE_URL" default:"https://api.crossref.org"`
	ArxivPDFBaseURL  string `envconfig:"ARXIV_PDF_BASE_URL" default:"https://arxiv.org/pdf"`
	ArxivAPIBaseURL  string `envconfig:"ARXIV_API_BASE_URL" default:"http://export.arxiv.org/api"`

	GroqAPIKey  string `envconfig:"GROQ_API_KEY"`
	GroqModel   string `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`
	GroqBaseURL string `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`

	// FetchTimeoutSeconds bounds every single upstream content fetch; a
	// hung source must not stall its siblings longer than this.
	FetchTimeoutSeconds int `envconfig:"FETCH_TIMEOUT_SECONDS" default:"30"`

	// EnrichBatchSize limits how many papers are enriched concurrently for
	// one author request, to stay under upstream rate limits.
	EnrichBatchSize int `envconfig:"ENRICH_BATCH_SIZE" default:"5"`

	MaxPapersPerAuthor int `envconfig:"MAX_PAPERS_PER_AUTHOR" default:"30"`

	// CacheMaxAgeDays is the staleness window for stored summaries.
	CacheMaxAgeDays   int    `envconfig:"CACHE_MAX_AGE_DAYS" default:"15"`
	PurgeCronSchedule string `envconfig:"PURGE_CRON_SCHEDULE" default:"0 3 * * *"`
}

// DSN returns the Data Source Name for the PostgreSQL connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// FetchTimeout returns the per-source fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// CacheMaxAge returns the staleness window as a duration.
func (c *Config) CacheMaxAge() time.Duration {
	return time.Duration(c.CacheMaxAgeDays) * 24 * time.Hour
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
