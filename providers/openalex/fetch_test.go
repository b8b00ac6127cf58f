package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scholar-summary/config"
)

func testClient(baseURL string) *Client {
	cfg := &config.Config{
		OpenAlexBaseURL:     baseURL,
		MailtoEmail:         "test@example.com",
		FetchTimeoutSeconds: 5,
	}
	return NewClient(cfg, zap.NewNop())
}

func TestDecodeInvertedAbstract(t *testing.T) {
	index := map[string][]int{
		"learning": {1},
		"deep":     {0},
		"is":       {2},
		"fun":      {3},
	}
	assert.Equal(t, "deep learning is fun", DecodeInvertedAbstract(index))
}

func TestDecodeInvertedAbstractRepeatedWord(t *testing.T) {
	index := map[string][]int{
		"the": {0, 2},
		"cat": {1},
		"sat": {3},
	}
	assert.Equal(t, "the cat the sat", DecodeInvertedAbstract(index))
}

func TestDecodeInvertedAbstractMalformed(t *testing.T) {
	assert.Equal(t, "", DecodeInvertedAbstract(nil))
	assert.Equal(t, "", DecodeInvertedAbstract(map[string][]int{}))
	assert.Equal(t, "", DecodeInvertedAbstract(map[string][]int{"oops": {-4}}))
	assert.Equal(t, "", DecodeInvertedAbstract(map[string][]int{"word": {}}))
}

func TestSearchAuthors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/authors", r.URL.Path)
		assert.Equal(t, "Jane Doe", r.URL.Query().Get("search"))
		assert.Equal(t, "test@example.com", r.URL.Query().Get("mailto"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{
			"id":"https://openalex.org/A5017898742",
			"display_name":"Jane Doe",
			"works_count":120,
			"cited_by_count":3400,
			"summary_stats":{"h_index":27},
			"last_known_institutions":[{"display_name":"Example University"}]
		}]}`))
	}))
	defer srv.Close()

	authors, err := testClient(srv.URL).SearchAuthors(context.Background(), "Jane Doe")
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "A5017898742", authors[0].OpenAlexID)
	assert.Equal(t, "Jane Doe", authors[0].DisplayName)
	assert.Equal(t, "Example University", authors[0].Affiliation)
	assert.Equal(t, 27, authors[0].HIndex)
}

func TestGetPaperMapsIdentifiersAndCoauthors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/W123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id":"https://openalex.org/W123",
			"title":"A Study of Things",
			"publication_year":2021,
			"cited_by_count":42,
			"abstract_inverted_index":{"Things":[0],"matter.":[1]},
			"ids":{"doi":"https://doi.org/10.1234/xyz","arxiv":"https://arxiv.org/abs/2101.00001"},
			"primary_location":{"source":{"display_name":"Journal of Things"}},
			"authorships":[
				{"author":{"id":"https://openalex.org/A1","display_name":"Main Author"}},
				{"author":{"id":"https://openalex.org/A2","display_name":"Co Author"},
				 "institutions":[{"display_name":"Other University"}]}
			]
		}`))
	}))
	defer srv.Close()

	paper, err := testClient(srv.URL).GetPaper(context.Background(), "W123")
	require.NoError(t, err)
	assert.Equal(t, "W123", paper.OpenAlexID)
	assert.Equal(t, "10.1234/xyz", paper.DOI)
	assert.Equal(t, "2101.00001", paper.ArxivID)
	assert.Equal(t, "Journal of Things", paper.Venue)
	assert.Equal(t, "Things matter.", paper.Abstract)
	require.Len(t, paper.Coauthors, 1)
	assert.Equal(t, "Co Author", paper.Coauthors[0].Name)
	assert.Equal(t, []string{"Other University"}, paper.Coauthors[0].Affiliations)
}

func TestGetPaperNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetPaper(context.Background(), "W404")
	assert.ErrorIs(t, err, ErrNotFound)
}
