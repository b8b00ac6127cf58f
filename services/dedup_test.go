package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholar-summary/models"
)

func frags(pairs ...string) []models.ContentFragment {
	var out []models.ContentFragment
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.ContentFragment{Text: pairs[i], Source: pairs[i+1]})
	}
	return out
}

func TestDeduplicateContentKeepsFirstSurvivor(t *testing.T) {
	in := frags(
		"Deep learning is great.", "A",
		"deep learning is great", "B",
		"A totally different sentence.", "C",
	)
	out := DeduplicateContent(in)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Source)
	assert.Equal(t, "C", out[1].Source)
}

func TestDeduplicateContentDropsBlanks(t *testing.T) {
	in := frags("", "A", "   \n\t ", "B", "real content here", "C")
	out := DeduplicateContent(in)
	require.Len(t, out, 1)
	assert.Equal(t, "C", out[0].Source)
}

func TestDeduplicateContentEmptyInput(t *testing.T) {
	assert.Empty(t, DeduplicateContent(nil))
	assert.Empty(t, DeduplicateContent([]models.ContentFragment{}))
}

func TestDeduplicateContentNeverGrowsAndPreservesOrder(t *testing.T) {
	in := frags(
		"First unique fragment about graphs.", "A",
		"Second unique fragment about kernels.", "B",
		"first unique fragment  about graphs.", "C",
		"Third unique fragment about proofs.", "D",
	)
	out := DeduplicateContent(in)
	assert.LessOrEqual(t, len(out), len(in))
	require.Len(t, out, 3)
	assert.Equal(t, []string{"A", "B", "D"}, []string{out[0].Source, out[1].Source, out[2].Source})
}

func TestDeduplicateContentIdempotent(t *testing.T) {
	in := frags(
		"Deep learning is great.", "A",
		"DEEP LEARNING IS GREAT.", "B",
		"Completely unrelated text.", "C",
	)
	once := DeduplicateContent(in)
	twice := DeduplicateContent(once)
	assert.Equal(t, once, twice)
}

func TestDeduplicateContentNoSurvivingPairIsDuplicate(t *testing.T) {
	in := frags(
		"Graphs encode pairwise relations.", "A",
		"graphs encode pairwise relations", "B",
		"Kernels measure similarity between inputs.", "C",
		"Proof assistants verify theorems mechanically.", "D",
	)
	out := DeduplicateContent(in)
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			assert.False(t, IsNearDuplicate(out[i].Text, out[j].Text, DuplicateThreshold),
				"survivors %d and %d are near-duplicates", i, j)
		}
	}
}
