package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextHashIgnoresCaseAndWhitespace(t *testing.T) {
	assert.Equal(t, TextHash("Deep Learning is great."), TextHash("  deep   learning IS great. "))
	assert.NotEqual(t, TextHash("one thing"), TextHash("another thing"))
}

func TestIsNearDuplicateNormalizedCopies(t *testing.T) {
	assert.True(t, IsNearDuplicate("Deep learning is great.", "DEEP   learning is great.", DuplicateThreshold))
}

func TestIsNearDuplicateEmptyInputs(t *testing.T) {
	assert.False(t, IsNearDuplicate("", "something", DuplicateThreshold))
	assert.False(t, IsNearDuplicate("something", "", DuplicateThreshold))
	assert.False(t, IsNearDuplicate("", "", DuplicateThreshold))
}

func TestIsNearDuplicateShortTexts(t *testing.T) {
	assert.True(t, IsNearDuplicate("short text", "SHORT  text", DuplicateThreshold))
	assert.False(t, IsNearDuplicate("short text", "different text", DuplicateThreshold))
}

func TestIsNearDuplicateContainment(t *testing.T) {
	long := strings.Repeat("a sentence about transformers and attention mechanisms ", 6)
	assert.True(t, IsNearDuplicate(long, long+"plus an extra trailing remark", DuplicateThreshold))
}

func TestIsNearDuplicateTokenOverlap(t *testing.T) {
	base := "transformers rely on self attention to model long range dependencies across tokens " +
		"and scale favorably with data enabling large pretrained language models that transfer " +
		"readily to downstream tasks after finetuning on modest supervision budgets"
	reordered := "across tokens transformers rely on self attention to model long range dependencies " +
		"and scale favorably with data enabling large pretrained language models that transfer " +
		"readily to downstream tasks after finetuning on modest supervision budgets indeed"
	assert.True(t, IsNearDuplicate(base, reordered, DuplicateThreshold))

	other := "convolutional networks process images through local receptive fields pooling layers " +
		"and hierarchical feature maps learned via backpropagation on labeled datasets entirely " +
		"without any of the machinery discussed elsewhere in this comparison paragraph"
	assert.False(t, IsNearDuplicate(base, other, DuplicateThreshold))
}
