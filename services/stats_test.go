package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholar-summary/models"
)

func TestComputePublicationStats(t *testing.T) {
	papers := []*models.Paper{
		{Year: 2019, Coauthors: []models.Coauthor{{Name: "Bob"}, {Name: "Carol"}}},
		{Year: 2019, Coauthors: []models.Coauthor{{Name: "Bob"}}},
		{Year: 2022, Coauthors: []models.Coauthor{{Name: "Dave"}}},
		{Year: 0, Coauthors: nil},
	}

	stats := ComputePublicationStats(papers)

	assert.Equal(t, 4, stats.TotalPapers)
	assert.Equal(t, 4, stats.YearsActive)
	assert.Equal(t, map[int]int{2019: 2, 2022: 1}, stats.PapersPerYear)
	assert.InDelta(t, 1.0, stats.PublicationVelocity, 1e-9)

	require.Len(t, stats.TopCollaborators, 3)
	assert.Equal(t, Collaborator{Name: "Bob", PaperCount: 2}, stats.TopCollaborators[0])
	// Carol and Dave both appear once; alphabetical order decides.
	assert.Equal(t, "Carol", stats.TopCollaborators[1].Name)
	assert.Equal(t, "Dave", stats.TopCollaborators[2].Name)

	assert.Equal(t, 3, stats.TotalCoauthors)
	assert.InDelta(t, 1.0, stats.AvgCoauthorsPerPaper, 1e-9)
}

func TestComputePublicationStatsEmpty(t *testing.T) {
	stats := ComputePublicationStats(nil)

	assert.Zero(t, stats.TotalPapers)
	assert.Zero(t, stats.YearsActive)
	assert.Empty(t, stats.PapersPerYear)
	assert.Empty(t, stats.TopCollaborators)
}
