package services

import (
	"sort"

	"scholar-summary/models"
)

// Collaborator is one recurring co-author with the number of shared
// papers.
type Collaborator struct {
	Name       string `json:"name"`
	PaperCount int    `json:"paper_count"`
}

// PublicationStats describes an author's output over time and their
// collaboration patterns.
type PublicationStats struct {
	TotalPapers          int            `json:"total_papers"`
	YearsActive          int            `json:"years_active"`
	PapersPerYear        map[int]int    `json:"papers_per_year"`
	PublicationVelocity  float64        `json:"publication_velocity"`
	TopCollaborators     []Collaborator `json:"top_collaborators"`
	TotalCoauthors       int            `json:"total_coauthors"`
	AvgCoauthorsPerPaper float64        `json:"avg_coauthors_per_paper"`
}

// ComputePublicationStats derives yearly distribution, publication
// velocity and the top-10 recurring collaborators from a paper list.
// Papers without a publication year are counted but excluded from the
// yearly metrics. Deterministic: collaborator ties break alphabetically.
func ComputePublicationStats(papers []*models.Paper) PublicationStats {
	stats := PublicationStats{
		TotalPapers:   len(papers),
		PapersPerYear: map[int]int{},
	}
	if len(papers) == 0 {
		return stats
	}

	minYear, maxYear := 0, 0
	for _, p := range papers {
		if p.Year == 0 {
			continue
		}
		if minYear == 0 || p.Year < minYear {
			minYear = p.Year
		}
		if p.Year > maxYear {
			maxYear = p.Year
		}
		stats.PapersPerYear[p.Year]++
	}
	if minYear != 0 {
		stats.YearsActive = maxYear - minYear + 1
		stats.PublicationVelocity = float64(len(papers)) / float64(stats.YearsActive)
	}

	coauthorCounts := make(map[string]int)
	totalCoauthors := 0
	for _, p := range papers {
		totalCoauthors += len(p.Coauthors)
		for _, ca := range p.Coauthors {
			coauthorCounts[ca.Name]++
		}
	}
	stats.TotalCoauthors = len(coauthorCounts)
	stats.AvgCoauthorsPerPaper = float64(totalCoauthors) / float64(len(papers))

	names := make([]string, 0, len(coauthorCounts))
	for name := range coauthorCounts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if coauthorCounts[names[i]] != coauthorCounts[names[j]] {
			return coauthorCounts[names[i]] > coauthorCounts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > 10 {
		names = names[:10]
	}
	for _, name := range names {
		stats.TopCollaborators = append(stats.TopCollaborators, Collaborator{
			Name:       name,
			PaperCount: coauthorCounts[name],
		})
	}
	return stats
}
