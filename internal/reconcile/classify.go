// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Implements: prd011-reconciliation (R4-R5);
//
//	docs/ARCHITECTURE § Classification & Scoring.
package reconcile

import (
	"strings"

	"github.com/pdiddy/patent-scout/pkg/types"
)

// categoryRule is one keyword rule of the classifier.
type categoryRule struct {
	category types.Category
	keywords []string
}

// categoryRules is scanned in order, first match wins. The order is fixed:
// reordering changes classifications, so new rules go where the taxonomy
// demands, not at the end.
var categoryRules = []categoryRule{
	{types.CategoryComposition, []string{"composition", "compound", "chemical"}},
	{types.CategoryCrystalline, []string{"crystal", "polymorph"}},
	{types.CategorySalt, []string{"salt"}},
	{types.CategoryFormulation, []string{"formulation", "pharmaceutical composition"}},
	{types.CategoryProcess, []string{"process", "synthesis"}},
	{types.CategoryMedicalUse, []string{"use", "treatment"}},
	{types.CategoryCombination, []string{"combination"}},
}

// Classify assigns a patent category from a case-insensitive keyword scan
// over title and abstract (R4.1). Deterministic: same text, same category.
func Classify(title, abstract string) types.Category {
	text := strings.ToLower(title + " " + abstract)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return types.CategoryOther
}

// Scoring constants (R5). The base is the best provider prior among the
// record's contributors; completeness and category add on top.
const (
	defaultBasePrior  = 5
	completenessBonus = 1
	compositionBonus  = 3
	formFamilyBonus   = 2
	maxScore          = 15
)

// ScoreRecord computes the relevance score for a classified record,
// clamped to [0, maxScore] (R5.1-R5.4).
func ScoreRecord(u types.Unified) int {
	score := u.RawScore
	if score <= 0 {
		score = defaultBasePrior
	}

	for _, field := range []string{u.Title, u.Abstract, u.Assignee} {
		if field != "" {
			score += completenessBonus
		}
	}

	switch u.Category {
	case types.CategoryComposition:
		score += compositionBonus
	case types.CategoryCrystalline, types.CategorySalt, types.CategoryFormulation:
		score += formFamilyBonus
	}

	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}
