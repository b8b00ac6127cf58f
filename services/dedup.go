package services

import (
	"strings"

	"scholar-summary/models"
)

// DeduplicateContent removes exact and near-duplicate fragments while
// preserving first-seen order and source attribution. Blank fragments are
// dropped unconditionally. A fragment survives iff it is not a
// near-duplicate of any earlier survivor; the pairwise scan runs against
// survivors only, which is fine for the handful of sources per paper.
// Deterministic: identical input yields identical output.
func DeduplicateContent(fragments []models.ContentFragment) []models.ContentFragment {
	var unique []models.ContentFragment
	for _, frag := range fragments {
		if strings.TrimSpace(frag.Text) == "" {
			continue
		}
		isDup := false
		for _, kept := range unique {
			if IsNearDuplicate(frag.Text, kept.Text, DuplicateThreshold) {
				isDup = true
				break
			}
		}
		if !isDup {
			unique = append(unique, frag)
		}
	}
	return unique
}
