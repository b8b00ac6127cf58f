package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"scholar-summary/models"
)

// Summary modes reported alongside every generated summary.
const (
	ModeLLM          = "llm"
	ModeExcerpt      = "excerpt"
	ModeContent      = "content"
	ModeInsufficient = "insufficient"
	ModeRuleBased    = "rule-based"
)

// InsufficientContentSummary is returned when a paper has too little
// content to summarize.
const InsufficientContentSummary = "Not enough content available to generate a summary."

const (
	minSummarizableChars = 100
	shortContentChars    = 1000
	promptContentChars   = 4000
	excerptChars         = 600
	authorSnippetChars   = 2000
	paperMaxTokens       = 800
	authorMaxTokens      = 1024
	summaryTemperature   = 0.3
)

// TextGenerator produces free text from a prompt. Satisfied by llm.Client.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// keywordRegexp matches candidate keywords for the rule-based summary.
var keywordRegexp = regexp.MustCompile(`\b[a-zA-Z]{5,}\b`)

// keywordStopwords are generic academic filler words excluded from the
// rule-based keyword ranking.
var keywordStopwords = map[string]struct{}{
	"based": {}, "using": {}, "paper": {}, "approach": {}, "method": {},
	"system": {}, "research": {}, "study": {}, "results": {}, "propose": {},
	"present": {}, "provide": {}, "model": {}, "models": {},
}

// SummarizerService turns enriched papers and author profiles into
// summaries, with deterministic fallbacks when the LLM is unavailable.
type SummarizerService struct {
	Logger    *zap.Logger
	Generator TextGenerator
}

// NewSummarizerService creates a summarizer backed by the given generator.
func NewSummarizerService(logger *zap.Logger, gen TextGenerator) *SummarizerService {
	return &SummarizerService{Logger: logger, Generator: gen}
}

// SummarizePaper produces a summary for one paper and reports the mode
// used. Papers with under 100 characters of content get a fixed sentinel;
// short content is returned verbatim; long content goes through the LLM
// with an excerpt fallback.
func (s *SummarizerService) SummarizePaper(ctx context.Context, p *models.Paper) (string, string) {
	content := p.MergedContent
	if content == "" {
		content = p.Abstract
	}

	if len(content) < minSummarizableChars {
		return InsufficientContentSummary, ModeInsufficient
	}
	if len(content) <= shortContentChars {
		return SanitizeText(content), ModeContent
	}

	prompt := buildPaperPrompt(p.Title, content)
	text, err := s.Generator.Generate(ctx, prompt, paperMaxTokens, summaryTemperature)
	if err == nil && strings.TrimSpace(text) != "" {
		out := SanitizeText(text)
		out = strings.TrimSpace(strings.TrimPrefix(out, "Summary:"))
		return TrimToLastSentence(out), ModeLLM
	}
	if err != nil {
		s.Logger.Warn("Paper summary generation failed, using excerpt", zap.String("title", p.Title), zap.Error(err))
	}

	if len(content) > excerptChars {
		return TrimToLastSentence(content[:excerptChars]) + "...", ModeExcerpt
	}
	return content, ModeExcerpt
}

// SummarizeAuthor produces a research-profile summary for an author from
// their papers. On any LLM failure the deterministic rule-based summary is
// returned instead.
func (s *SummarizerService) SummarizeAuthor(ctx context.Context, author *models.Author, papers []*models.Paper) (string, string) {
	if len(papers) == 0 {
		return ruleBasedSummary(author.DisplayName, papers), ModeRuleBased
	}

	selected := SelectRepresentativePapers(papers)
	prompt := buildAuthorPrompt(author, selected)

	text, err := s.Generator.Generate(ctx, prompt, authorMaxTokens, summaryTemperature)
	if err == nil && strings.TrimSpace(text) != "" {
		return SanitizeText(text), ModeLLM
	}
	if err != nil {
		s.Logger.Warn("Author summary generation failed, using rule-based fallback",
			zap.String("author", author.DisplayName), zap.Error(err))
	}
	return ruleBasedSummary(author.DisplayName, papers), ModeRuleBased
}

// SelectRepresentativePapers picks up to 20 papers: the most cited get 60%
// of the slots (at least 5), the most recent fill the rest. The input
// order is never mutated and no paper appears twice.
func SelectRepresentativePapers(papers []*models.Paper) []*models.Paper {
	sampleSize := len(papers)
	if sampleSize > 20 {
		sampleSize = 20
	}
	numCited := int(float64(sampleSize) * 0.6)
	if numCited < 5 {
		numCited = 5
	}
	if numCited > sampleSize {
		numCited = sampleSize
	}

	citedSorted := make([]*models.Paper, len(papers))
	copy(citedSorted, papers)
	sort.SliceStable(citedSorted, func(i, j int) bool {
		return citedSorted[i].CitationCount > citedSorted[j].CitationCount
	})

	recentSorted := make([]*models.Paper, len(papers))
	copy(recentSorted, papers)
	sort.SliceStable(recentSorted, func(i, j int) bool {
		return recentSorted[i].Year > recentSorted[j].Year
	})

	selected := make([]*models.Paper, 0, sampleSize)
	seen := make(map[string]struct{}, sampleSize)

	for _, p := range citedSorted {
		if len(selected) >= numCited {
			break
		}
		if p.OpenAlexID == "" {
			continue
		}
		if _, ok := seen[p.OpenAlexID]; ok {
			continue
		}
		selected = append(selected, p)
		seen[p.OpenAlexID] = struct{}{}
	}
	for _, p := range recentSorted {
		if len(selected) >= sampleSize {
			break
		}
		if p.OpenAlexID == "" {
			continue
		}
		if _, ok := seen[p.OpenAlexID]; ok {
			continue
		}
		selected = append(selected, p)
		seen[p.OpenAlexID] = struct{}{}
	}
	return selected
}

func buildPaperPrompt(title, content string) string {
	if title == "" {
		title = "Untitled"
	}
	if len(content) > promptContentChars {
		content = content[:promptContentChars]
	}
	return fmt.Sprintf(`You are an expert research summarizer. Read the content below and produce a detailed, clear summary of this research paper.
Provide a multi-paragraph summary (approx. 250-600 words) with the following labeled sections when applicable:

- Background: Context of the work.
- Main Contribution: The novel idea(s).
- Methodology: How they did it.
- Results/Findings: Key results and numbers.
- Implications/Impact: Why it matters.

Paper Title: %s
Content:
%s

Write the summary now, using the labeled sections above.`, title, content)
}

func buildAuthorPrompt(author *models.Author, papers []*models.Paper) string {
	var sb strings.Builder
	for i, p := range papers {
		snippet := p.MergedContent
		if snippet == "" {
			snippet = p.Abstract
		}
		if len(snippet) > authorSnippetChars {
			snippet = snippet[:authorSnippetChars]
		}

		names := make([]string, 0, 3)
		for _, ca := range p.Coauthors {
			if len(names) == 3 {
				break
			}
			names = append(names, ca.Name)
		}
		coauthors := strings.Join(names, ", ")
		if extra := len(p.Coauthors) - len(names); extra > 0 {
			coauthors += fmt.Sprintf(" +%d more", extra)
		}

		fmt.Fprintf(&sb, "%d. %s (%d)\n   Citations: %d | Co-authors: %s\n   Content: %s...\n\n",
			i+1, p.Title, p.Year, p.CitationCount, coauthors, snippet)
	}

	affiliation := author.Affiliation
	if affiliation == "" {
		affiliation = "N/A"
	}

	return fmt.Sprintf(`You are an expert research analyst. Analyze the research profile of %s, affiliated with %s.

Author Metrics:
- Publications: %d
- Citations: %d
- h-index: %d

Based on their papers below, write a comprehensive 3-4 paragraph summary covering:
1. **Main Research Areas**: Key domains, methodologies, and frameworks.
2. **Key Contributions**: Novel findings and breakthroughs.
3. **Research Evolution**: Shifts in focus over time.
4. **Collaboration Patterns**: Note co-authorship and interdisciplinary work.
5. **Impact & Significance**: Assess the broader impact on the field.

Top Papers:
%s
Write a detailed, insightful summary of their research contributions:`,
		author.DisplayName, affiliation,
		author.WorksCount, author.CitationCount, author.HIndex,
		sb.String())
}

// ruleBasedSummary is the deterministic fallback: keyword frequencies over
// all paper content, ties broken alphabetically.
func ruleBasedSummary(authorName string, papers []*models.Paper) string {
	if len(papers) == 0 {
		return fmt.Sprintf("No papers were available to generate a summary for %s.", authorName)
	}

	var sb strings.Builder
	for _, p := range papers {
		if p.MergedContent != "" {
			sb.WriteString(p.MergedContent)
		} else {
			sb.WriteString(p.Abstract)
		}
		sb.WriteString(" ")
	}

	counts := make(map[string]int)
	for _, w := range keywordRegexp.FindAllString(strings.ToLower(sb.String()), -1) {
		if _, stop := keywordStopwords[w]; stop {
			continue
		}
		counts[w]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > 10 {
		words = words[:10]
	}

	totalCitations := 0
	for _, p := range papers {
		totalCitations += p.CitationCount
	}

	return fmt.Sprintf(
		"A rule-based analysis of the work by %s indicates a focus on several key areas. "+
			"Across %d analyzed publications, which have collectively received %d citations, "+
			"prominent keywords include: %s. This suggests a strong concentration in these domains.",
		authorName, len(papers), totalCitations, strings.Join(words, ", "))
}
