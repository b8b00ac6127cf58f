package services

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// DuplicateThreshold is the default Jaccard word-set similarity above which
// two long texts count as near-duplicates.
const DuplicateThreshold = 0.9

// TextHash returns a stable fingerprint of the normalized text, used for
// cheap exact-duplicate detection.
func TextHash(text string) string {
	sum := md5.Sum([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}

// IsNearDuplicate reports whether two fragments carry the same substantive
// content. Any one satisfied condition suffices: matching fingerprints, two
// short texts that are normalized-equal, one normalized text containing the
// other, or two long texts whose word sets overlap above the threshold.
// Checks run cheapest-first but the result is the union, so evaluation
// order never changes the outcome.
func IsNearDuplicate(a, b string, threshold float64) bool {
	if a == "" || b == "" {
		return false
	}
	if TextHash(a) == TextHash(b) {
		return true
	}

	normA, normB := NormalizeText(a), NormalizeText(b)
	if len(normA) < 200 && len(normB) < 200 && normA == normB {
		return true
	}
	if strings.Contains(normA, normB) || strings.Contains(normB, normA) {
		return true
	}
	if len(normA) > 100 && len(normB) > 100 && jaccardSimilarity(normA, normB) > threshold {
		return true
	}
	return false
}

// jaccardSimilarity computes |A∩B| / |A∪B| over whitespace-tokenized word
// sets.
func jaccardSimilarity(a, b string) float64 {
	wordsA := make(map[string]struct{})
	for _, w := range strings.Fields(a) {
		wordsA[w] = struct{}{}
	}

	common, total := 0, len(wordsA)
	seenB := make(map[string]struct{})
	for _, w := range strings.Fields(b) {
		if _, dup := seenB[w]; dup {
			continue
		}
		seenB[w] = struct{}{}
		if _, ok := wordsA[w]; ok {
			common++
		} else {
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(common) / float64(total)
}
